package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"metro-rent-assistant/models"
)

const (
	greetingText = "Hi! Tell me your monthly rent budget, ask for the cheapest or most expensive metros, " +
		"ask where rents are rising, or compare two metros."
	broadenHint = "Try raising your budget, dropping the state filter, or ask me for the cheapest metros."
	bedroomNote = "Rent figures cover all unit sizes; the dataset has no per-bedroom breakdown for %d bedrooms."
)

// Presenter turns a query result into the reply text. Output depends only on
// the result and its intent.
type Presenter struct{}

// NewPresenter creates a presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Render formats result for the user.
func (p *Presenter) Render(result *models.QueryResult) string {
	if result == nil || result.Intent == nil {
		return greetingText
	}

	switch in := result.Intent.(type) {
	case models.EmptyIntent:
		return greetingText
	case models.CompareIntent:
		return renderCompare(result.Compare)
	case models.GrowthIntent:
		return renderGrowth(in, result.Rows)
	case models.CheapestIntent:
		return renderRanking("Here are the cheapest metros by current average rent", in.State, result.Rows)
	case models.MostExpensiveIntent:
		return renderRanking("Here are the most expensive metros by current average rent", in.State, result.Rows)
	case models.BudgetSearchIntent:
		return renderBudget(in, result.Rows)
	default:
		return greetingText
	}
}

func renderCompare(c *models.CompareResult) string {
	if c == nil {
		return "I couldn't find either of those metros in the dataset. Try using the exact metro names like 'Seattle, WA'."
	}

	switch c.Outcome() {
	case models.CompareNeither:
		return "I couldn't find either of those metros in the dataset. Try using the exact metro names like 'Seattle, WA'."
	case models.CompareOnlyA, models.CompareOnlyB:
		return fmt.Sprintf("I could only find one of those metros in the dataset. I couldn't locate '%s'. "+
			"Try using the format 'City, ST'.", c.MissingName())
	}

	var b strings.Builder
	b.WriteString("Here's a quick comparison based on current average rent:\n\n")
	fmt.Fprintf(&b, "- %s\n", metroLine(c.A))
	fmt.Fprintf(&b, "- %s\n", metroLine(c.B))

	if c.RentDifference == nil {
		b.WriteString("\nOne of these metros has no current rent figure, so I can't say which is more expensive.")
		return b.String()
	}

	diff := *c.RentDifference
	if diff == 0 {
		fmt.Fprintf(&b, "\n%s and %s have about the same rent.", c.B.RegionName, c.A.RegionName)
		return b.String()
	}
	more := "more"
	if diff < 0 {
		more = "less"
	}
	fmt.Fprintf(&b, "\n%s is about %s/month %s expensive than %s.", c.B.RegionName, money(math.Abs(diff)), more, c.A.RegionName)
	return b.String()
}

func renderGrowth(in models.GrowthIntent, rows []*models.MetroRecord) string {
	if len(rows) == 0 {
		return noMatch(in.State)
	}

	years := in.Horizon.Years()
	heading := fmt.Sprintf("Here are the metros where rent rose the most over %d years", years)
	if in.Direction == models.DirectionDown {
		heading = fmt.Sprintf("Here are the metros where rent cooled the most over %d years", years)
	}

	var b strings.Builder
	b.WriteString(withState(heading, in.State))
	b.WriteString(":\n\n")
	for _, m := range rows {
		pct := m.Rent3yrPctChange
		if in.Horizon == models.Horizon5Y {
			pct = m.Rent5yrPctChange
		}
		fmt.Fprintf(&b, "- %s (%s)\n", metroLine(m), percent(pct))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRanking(heading, state string, rows []*models.MetroRecord) string {
	if len(rows) == 0 {
		return noMatch(state)
	}

	var b strings.Builder
	b.WriteString(withState(heading, state))
	b.WriteString(":\n\n")
	writeRows(&b, rows)
	return strings.TrimRight(b.String(), "\n")
}

func renderBudget(in models.BudgetSearchIntent, rows []*models.MetroRecord) string {
	var b strings.Builder

	switch {
	case in.Budget == nil && len(rows) == 0:
		return noMatch(in.State)
	case in.Budget == nil:
		b.WriteString(withState("Here are the cheapest metros by current average rent", in.State))
		b.WriteString(":\n\n")
		writeRows(&b, rows)
		b.WriteString("\nTell me your monthly budget and I'll narrow this list down.")
	case len(rows) == 0:
		fmt.Fprintf(&b, "I couldn't find metros with rent at or under %s/month", money(*in.Budget))
		b.WriteString(stateSuffix(in.State))
		b.WriteString(". ")
		b.WriteString(broadenHint)
	default:
		fmt.Fprintf(&b, "Here are metros with rent at or under %s/month", money(*in.Budget))
		b.WriteString(stateSuffix(in.State))
		b.WriteString(":\n\n")
		writeRows(&b, rows)
	}

	if in.Bedrooms != nil {
		b.WriteString("\n")
		if len(rows) == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, bedroomNote, *in.Bedrooms)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRows(b *strings.Builder, rows []*models.MetroRecord) {
	for _, m := range rows {
		fmt.Fprintf(b, "- %s\n", metroLine(m))
	}
}

func noMatch(state string) string {
	return "I couldn't find any metros matching that request" + stateSuffix(state) + ". " + broadenHint
}

func metroLine(m *models.MetroRecord) string {
	name := m.RegionName
	if m.State != "" && !strings.Contains(name, ", "+m.State) {
		name = fmt.Sprintf("%s (%s)", name, m.State)
	}
	if m.CurrentRent == nil {
		return name + " - rent unknown"
	}
	return fmt.Sprintf("%s - ~%s/month", name, money(*m.CurrentRent))
}

func withState(heading, state string) string {
	return heading + stateSuffix(state)
}

func stateSuffix(state string) string {
	if state == "" {
		return ""
	}
	return " in " + state
}

func money(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

func percent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}
