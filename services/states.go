package services

import "strings"

// stateCodes is the set of valid two-letter US state codes, plus DC.
var stateCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {},
	"DC": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {},
	"KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {}, "MA": {}, "MI": {}, "MN": {},
	"MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {}, "NM": {},
	"NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {},
	"SC": {}, "SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {},
	"WV": {}, "WI": {}, "WY": {},
}

// IsStateCode reports whether code is a valid upper-case US state code.
func IsStateCode(code string) bool {
	_, ok := stateCodes[code]
	return ok
}

// NormalizeState upper-cases and validates a state filter. Empty input stays
// empty; ok is false for anything that is not a state code.
func NormalizeState(s string) (code string, ok bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	return s, IsStateCode(s)
}
