package services

import (
	"strings"

	"metro-rent-assistant/models"
)

// Signals are the outputs of every entity extractor for one message. The
// extractors run unconditionally and independently of each other.
type Signals struct {
	Text          string
	Budget        *float64
	State         string
	Bedrooms      *int
	CompareA      string
	CompareB      string
	HasCompare    bool
	Growth        *GrowthRequest
	Cheapest      bool
	MostExpensive bool
}

// Extract runs all entity extractors over text.
func Extract(text string) Signals {
	a, b, ok := ParseComparePair(text)
	return Signals{
		Text:          text,
		Budget:        ParseBudget(text),
		State:         ParseState(text),
		Bedrooms:      ParseBedrooms(text),
		CompareA:      a,
		CompareB:      b,
		HasCompare:    ok,
		Growth:        ParseGrowth(text),
		Cheapest:      WantsCheapest(text),
		MostExpensive: WantsMostExpensive(text),
	}
}

// Rule is one step of the intent cascade. Match returns the intent and true
// when the rule fires.
type Rule struct {
	Name  string
	Match func(s Signals) (models.Intent, bool)
}

// budgetSearchRule names the fallback taken when no rule matches.
const budgetSearchRule = "budget_search"

// intentRules is the intent precedence: the first matching rule wins.
var intentRules = []Rule{
	{Name: "empty", Match: matchEmpty},
	{Name: "compare", Match: matchCompare},
	{Name: "growth", Match: matchGrowth},
	{Name: "cheapest", Match: matchCheapest},
	{Name: "most_expensive", Match: matchMostExpensive},
}

// IntentClassifier picks exactly one intent per message by evaluating an
// ordered rule list top to bottom.
type IntentClassifier struct {
	rules []Rule
}

// NewIntentClassifier creates a classifier over the built-in precedence.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{rules: append([]Rule(nil), intentRules...)}
}

// Classify returns the intent for text along with the rule that fired.
func (c *IntentClassifier) Classify(text string) (models.Intent, string) {
	signals := Extract(text)
	for _, r := range c.rules {
		if intent, ok := r.Match(signals); ok {
			return intent, r.Name
		}
	}
	return budgetSearch(signals), budgetSearchRule
}

func matchEmpty(s Signals) (models.Intent, bool) {
	if strings.TrimSpace(s.Text) == "" {
		return models.EmptyIntent{}, true
	}
	return nil, false
}

func matchCompare(s Signals) (models.Intent, bool) {
	if !s.HasCompare {
		return nil, false
	}
	return models.CompareIntent{MetroA: s.CompareA, MetroB: s.CompareB}, true
}

func matchGrowth(s Signals) (models.Intent, bool) {
	if s.Growth == nil {
		return nil, false
	}
	return models.GrowthIntent{
		Horizon:   s.Growth.Horizon,
		Direction: s.Growth.Direction,
		State:     s.State,
	}, true
}

func matchCheapest(s Signals) (models.Intent, bool) {
	if !s.Cheapest {
		return nil, false
	}
	return models.CheapestIntent{State: s.State}, true
}

func matchMostExpensive(s Signals) (models.Intent, bool) {
	if !s.MostExpensive {
		return nil, false
	}
	return models.MostExpensiveIntent{State: s.State}, true
}

func budgetSearch(s Signals) models.Intent {
	return models.BudgetSearchIntent{Budget: s.Budget, State: s.State, Bedrooms: s.Bedrooms}
}
