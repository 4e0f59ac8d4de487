package models

// MonthlyRent is one monthly observation of the raw rent index.
// Value is nil when the source cell was blank or non-numeric.
type MonthlyRent struct {
	Year  int
	Month int
	Value *float64
}

// RawMetroSeries holds one unprocessed row of the monthly rent index
// before it is aggregated into yearly averages.
type RawMetroSeries struct {
	RegionID   string
	SizeRank   int
	RegionName string
	RegionType string
	StateName  string
	Monthly    []MonthlyRent
}

// MarketReport holds the computed analytics over the metro dataset.
type MarketReport struct {
	TotalMetros   int                `json:"total_metros"`
	PricedMetros  int                `json:"priced_metros"`
	AverageRent   float64            `json:"average_rent"`
	MinRent       float64            `json:"min_rent"`
	MaxRent       float64            `json:"max_rent"`
	Cheapest      *MetroRecord       `json:"cheapest,omitempty"`
	MostExpensive *MetroRecord       `json:"most_expensive,omitempty"`
	FastestRising []*MetroRecord     `json:"fastest_rising"`
	TrendCounts   map[TrendLabel]int `json:"trend_counts"`
	MetrosByState map[string]int     `json:"metros_by_state"`
}
