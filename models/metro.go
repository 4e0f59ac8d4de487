package models

// USAggregateRegion is the pseudo-row representing the whole country.
const USAggregateRegion = "United States"

// TrendLabel is the coarse classification of a metro's 3-year rent change.
type TrendLabel string

const (
	TrendRising  TrendLabel = "rising"
	TrendFlat    TrendLabel = "flat"
	TrendFalling TrendLabel = "falling"
	TrendUnknown TrendLabel = "unknown"
)

// MetroRecord is one row of the metro rent dataset. Nil pointers are
// missing values. Records are read-only once the dataset store has built them.
type MetroRecord struct {
	RegionName string `json:"region_name"`
	State      string `json:"state"`

	// YearlyRent holds the average monthly rent per tracked year. Years
	// without data are absent from the map.
	YearlyRent  map[int]float64 `json:"yearly_rent"`
	CurrentRent *float64        `json:"current_rent"`

	Rent3yrChange    *float64   `json:"rent_3yr_change"`
	Rent3yrPctChange *float64   `json:"rent_3yr_pct_change"`
	Rent5yrChange    *float64   `json:"rent_5yr_change"`
	Rent5yrPctChange *float64   `json:"rent_5yr_pct_change"`
	TrendLabel       TrendLabel `json:"trend_label"`
}

// IsUSAggregate reports whether the record is the country-wide pseudo-row.
func (m *MetroRecord) IsUSAggregate() bool {
	return m.RegionName == USAggregateRegion
}

// Rent returns the average rent for a tracked year, if present.
func (m *MetroRecord) Rent(year int) (float64, bool) {
	v, ok := m.YearlyRent[year]
	return v, ok
}

// MetroTable is the whole dataset: the tracked years in ascending order and
// the rows in file order.
type MetroTable struct {
	Years []int          `json:"years"`
	Rows  []*MetroRecord `json:"rows"`
}

// LatestYear returns the most recent tracked year, or 0 for an empty table.
func (t *MetroTable) LatestYear() int {
	if len(t.Years) == 0 {
		return 0
	}
	return t.Years[len(t.Years)-1]
}

// Float returns a pointer to v. Handy for building optional values.
func Float(v float64) *float64 {
	return &v
}
