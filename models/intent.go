package models

import (
	"fmt"
	"strings"

	"metro-rent-assistant/apperrors"
)

// Horizon is the lookback window used for growth rankings.
type Horizon string

const (
	Horizon3Y Horizon = "3y"
	Horizon5Y Horizon = "5y"
)

// ParseHorizon accepts "3y"/"5y" (and the bare "3"/"5").
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "3", "3y":
		return Horizon3Y, nil
	case "5", "5y":
		return Horizon5Y, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidHorizon, s)
}

// Years returns the number of years in the horizon.
func (h Horizon) Years() int {
	if h == Horizon5Y {
		return 5
	}
	return 3
}

// Direction selects rising (up) or falling (down) rent growth.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection accepts "up"/"down"; empty means up.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidDirection, s)
}

// Intent is the single interpretation of one user message. It is one of
// EmptyIntent, CompareIntent, GrowthIntent, CheapestIntent,
// MostExpensiveIntent or BudgetSearchIntent.
type Intent interface {
	Kind() string
	isIntent()
}

// EmptyIntent is produced for blank messages.
type EmptyIntent struct{}

// CompareIntent carries two metro name candidates, unresolved.
type CompareIntent struct {
	MetroA string `json:"metro_a"`
	MetroB string `json:"metro_b"`
}

// GrowthIntent ranks metros by rent change over a horizon.
type GrowthIntent struct {
	Horizon   Horizon   `json:"horizon"`
	Direction Direction `json:"direction"`
	State     string    `json:"state,omitempty"`
}

// CheapestIntent ranks metros by current rent, lowest first.
type CheapestIntent struct {
	State string `json:"state,omitempty"`
}

// MostExpensiveIntent ranks metros by current rent, highest first.
type MostExpensiveIntent struct {
	State string `json:"state,omitempty"`
}

// BudgetSearchIntent filters metros to a monthly budget. A nil Budget
// falls back to the cheapest ranking.
type BudgetSearchIntent struct {
	Budget   *float64 `json:"budget,omitempty"`
	State    string   `json:"state,omitempty"`
	Bedrooms *int     `json:"bedrooms,omitempty"`
}

func (EmptyIntent) Kind() string         { return "empty" }
func (CompareIntent) Kind() string       { return "compare" }
func (GrowthIntent) Kind() string        { return "growth" }
func (CheapestIntent) Kind() string      { return "cheapest" }
func (MostExpensiveIntent) Kind() string { return "most_expensive" }
func (BudgetSearchIntent) Kind() string  { return "budget_search" }

func (EmptyIntent) isIntent()         {}
func (CompareIntent) isIntent()       {}
func (GrowthIntent) isIntent()        {}
func (CheapestIntent) isIntent()      {}
func (MostExpensiveIntent) isIntent() {}
func (BudgetSearchIntent) isIntent()  {}
