package models

// DefaultRowLimit bounds every ranked result unless configured otherwise.
const DefaultRowLimit = 10

// CompareOutcome distinguishes how many of the two names resolved.
type CompareOutcome string

const (
	CompareNeither CompareOutcome = "neither"
	CompareOnlyA   CompareOutcome = "only_a"
	CompareOnlyB   CompareOutcome = "only_b"
	CompareBoth    CompareOutcome = "both"
)

// CompareResult is the outcome of comparing two metro names. Unresolved
// names are nil records, never errors.
type CompareResult struct {
	QueryA string       `json:"query_a"`
	QueryB string       `json:"query_b"`
	A      *MetroRecord `json:"a"`
	B      *MetroRecord `json:"b"`

	// RentDifference is B.CurrentRent - A.CurrentRent when both are known.
	RentDifference *float64 `json:"rent_difference,omitempty"`
}

// Outcome reports which of the two names resolved.
func (c *CompareResult) Outcome() CompareOutcome {
	switch {
	case c.A != nil && c.B != nil:
		return CompareBoth
	case c.A != nil:
		return CompareOnlyA
	case c.B != nil:
		return CompareOnlyB
	default:
		return CompareNeither
	}
}

// MissingName returns the query text of the unresolved name when exactly
// one side resolved.
func (c *CompareResult) MissingName() string {
	switch c.Outcome() {
	case CompareOnlyA:
		return c.QueryB
	case CompareOnlyB:
		return c.QueryA
	}
	return ""
}

// QueryResult is the executed plan for one intent: ranked rows or, for
// compare intents, a CompareResult.
type QueryResult struct {
	Intent  Intent         `json:"-"`
	Rows    []*MetroRecord `json:"rows,omitempty"`
	Compare *CompareResult `json:"compare,omitempty"`
}

// ChatTurn is one prior message of a conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
