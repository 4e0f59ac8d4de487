package apperrors

import "errors"

var (
	// ErrDataUnavailable means the metro dataset could not be loaded. It is
	// fatal for every query served by the same store.
	ErrDataUnavailable  = errors.New("metro dataset unavailable")
	ErrInvalidHorizon   = errors.New("invalid growth horizon")
	ErrInvalidDirection = errors.New("invalid growth direction")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrInvalidTrend     = errors.New("invalid trend label")
)
