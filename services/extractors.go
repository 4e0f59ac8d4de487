package services

import (
	"regexp"
	"strconv"
	"strings"

	"metro-rent-assistant/models"
)

// Plausible monthly-rent band used to pick the budget out of a message.
const (
	minBudget = 300.0
	maxBudget = 20000.0
)

var (
	// numberRegexp captures integers and decimals after separators are stripped
	numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// currencyReplacer drops thousands separators and turns currency symbols into spaces
	currencyReplacer = strings.NewReplacer(",", "", "$", " ", "€", " ", "£", " ")
	// stateTokenRegexp captures bare upper-case two-letter tokens
	stateTokenRegexp = regexp.MustCompile(`\b[A-Z]{2}\b`)
	// inStateRegexp captures "in xx"
	inStateRegexp = regexp.MustCompile(`(?i)\bin\s+([a-z]{2})\b`)
	// bedroomRegexp captures "2 bed", "3br", "1 bedroom"
	bedroomRegexp = regexp.MustCompile(`(?i)\b(\d+)\s*(?:bed|br)`)
	// compareRegexp detects the word "compare"
	compareRegexp = regexp.MustCompile(`(?i)\bcompare\b`)
	// andSplitRegexp splits a message on the connector "and"
	andSplitRegexp = regexp.MustCompile(`(?i)\band\b`)
	// leadingCompareRegexp strips a leading "compare" from the first candidate
	leadingCompareRegexp = regexp.MustCompile(`(?i)^compare`)
)

const candidateCutset = " \t,.?!;:"

var (
	growthUpKeywords      = []string{"up-and-coming", "up and coming", "rising", "growing"}
	growthDownKeywords    = []string{"declining", "falling", "going down", "cooling"}
	fiveYearKeywords      = []string{"5 year", "five year", "5-year"}
	cheapestKeywords      = []string{"cheapest", "low cost", "least expensive", "affordable metros", "most affordable"}
	mostExpensiveKeywords = []string{"most expensive", "high cost", "priciest", "top expensive"}
)

// ParseBudget returns the first number inside the monthly-rent band, or the
// first number at all when none qualifies. Nil when there is no positive
// number.
func ParseBudget(text string) *float64 {
	cleaned := currencyReplacer.Replace(text)
	matches := numberRegexp.FindAllString(cleaned, -1)
	if len(matches) == 0 {
		return nil
	}

	candidate := matches[0]
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err == nil && v >= minBudget && v <= maxBudget {
			candidate = m
			break
		}
	}

	v, err := strconv.ParseFloat(candidate, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// ParseState returns the first valid US state code found as a bare
// upper-case token, else from an "in xx" phrase. Empty when none.
func ParseState(text string) string {
	for _, tok := range stateTokenRegexp.FindAllString(text, -1) {
		if IsStateCode(tok) {
			return tok
		}
	}
	for _, m := range inStateRegexp.FindAllStringSubmatch(text, -1) {
		code := strings.ToUpper(m[1])
		if IsStateCode(code) {
			return code
		}
	}
	return ""
}

// ParseBedrooms extracts a bedroom count such as "2 bed" or "3br".
func ParseBedrooms(text string) *int {
	m := bedroomRegexp.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ParseComparePair extracts two metro names from "compare X and Y". The
// last two "and"-separated segments are used.
func ParseComparePair(text string) (a, b string, ok bool) {
	if !compareRegexp.MatchString(text) {
		return "", "", false
	}
	parts := andSplitRegexp.Split(text, -1)
	if len(parts) < 2 {
		return "", "", false
	}

	a = strings.TrimSpace(parts[len(parts)-2])
	a = leadingCompareRegexp.ReplaceAllString(a, "")
	a = strings.Trim(a, candidateCutset)
	b = strings.Trim(parts[len(parts)-1], candidateCutset)
	if a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// GrowthRequest is the horizon and direction asked for in a message.
type GrowthRequest struct {
	Horizon   models.Horizon
	Direction models.Direction
}

// ParseGrowth detects rising/falling rent wording. Nil when the message
// carries no growth direction.
func ParseGrowth(text string) *GrowthRequest {
	lower := strings.ToLower(text)

	var direction models.Direction
	switch {
	case containsAny(lower, growthUpKeywords):
		direction = models.DirectionUp
	case containsAny(lower, growthDownKeywords):
		direction = models.DirectionDown
	default:
		return nil
	}

	horizon := models.Horizon3Y
	if containsAny(lower, fiveYearKeywords) {
		horizon = models.Horizon5Y
	}
	return &GrowthRequest{Horizon: horizon, Direction: direction}
}

// WantsCheapest reports whether the message asks for the cheapest metros.
func WantsCheapest(text string) bool {
	return containsAny(strings.ToLower(text), cheapestKeywords)
}

// WantsMostExpensive reports whether the message asks for the priciest metros.
func WantsMostExpensive(text string) bool {
	return containsAny(strings.ToLower(text), mostExpensiveKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
