package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metro-rent-assistant/models"
	"metro-rent-assistant/utils"
)

func monthly(year int, values ...float64) []models.MonthlyRent {
	out := make([]models.MonthlyRent, len(values))
	for i, v := range values {
		out[i] = models.MonthlyRent{Year: year, Month: i + 1, Value: models.Float(v)}
	}
	return out
}

func series(id string, rank int, name, state string, months ...[]models.MonthlyRent) *models.RawMetroSeries {
	s := &models.RawMetroSeries{RegionID: id, SizeRank: rank, RegionName: name, RegionType: "msa", StateName: state}
	for _, m := range months {
		s.Monthly = append(s.Monthly, m...)
	}
	return s
}

func TestCleanerYearlyAverages(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{1000, 1100}, 1050},
		{[]float64{1000, 1001}, 1000},
		{[]float64{1001, 1002}, 1002},
		{[]float64{999.4}, 999},
	}
	for _, tt := range tests {
		got := yearlyAverages(monthly(2024, tt.values...), []int{2024})[2024]
		if got != tt.want {
			t.Errorf("yearlyAverages(%v) = %.1f; want %.1f", tt.values, got, tt.want)
		}
	}
}

func TestCleanerSkipsBlankMonths(t *testing.T) {
	months := append(monthly(2024, 1200), models.MonthlyRent{Year: 2024, Month: 2})
	got := yearlyAverages(months, []int{2024, 2025})

	assert.Equal(t, map[int]float64{2024: 1200}, got)
}

func TestCleanerClean(t *testing.T) {
	c := NewCleaner([]int{2025, 2021, 2022, 2023, 2024}, utils.NewNopLogger())
	raw := []*models.RawMetroSeries{
		series("3", 3, "Austin, TX", "TX", monthly(2022, 1800, 1800), monthly(2025, 1600, 1640)),
		series("1", 1, "New York, NY", "NY", monthly(2021, 2500), monthly(2025, 3000)),
		series("9", 9, "Old Town, ME", "ME", monthly(2022, 700)),
		series("3", 4, "Austin Duplicate", "TX", monthly(2025, 1)),
		series("0", 0, " United States ", "", monthly(2025, 1700)),
	}

	table := c.Clean(raw)

	assert.Equal(t, []int{2021, 2022, 2025}, table.Years)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"United States", "New York, NY", "Austin, TX"}, names(table.Rows))

	austin := table.Rows[2]
	assert.Equal(t, "TX", austin.State)
	assert.Equal(t, 1620.0, *austin.CurrentRent)
	assert.Equal(t, map[int]float64{2022: 1800, 2025: 1620}, austin.YearlyRent)
}

func TestCleanerLatestYearFallsBack(t *testing.T) {
	c := NewCleaner([]int{2021, 2022, 2023, 2024, 2025}, nil)
	table := c.Clean([]*models.RawMetroSeries{
		series("1", 1, "A", "CA", monthly(2023, 1000), monthly(2024, 1100)),
		series("2", 2, "B", "CA", monthly(2023, 900)),
	})

	assert.Equal(t, []int{2023, 2024}, table.Years)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 1100.0, *table.Rows[0].CurrentRent)
}

func TestCleanerNoYears(t *testing.T) {
	c := NewCleaner([]int{2021}, nil)
	table := c.Clean([]*models.RawMetroSeries{series("1", 1, "A", "CA", monthly(2019, 1000))})

	assert.Empty(t, table.Years)
	assert.Empty(t, table.Rows)
}

func TestCleanerOutputFeedsDatasetStore(t *testing.T) {
	c := NewCleaner([]int{2022, 2025}, nil)
	cleaned := c.Clean([]*models.RawMetroSeries{
		series("1", 1, "A", "CA", monthly(2022, 1000), monthly(2025, 1200)),
	})

	m := BuildTable(cleaned).Rows[0]
	assert.InDelta(t, 20.0, *m.Rent3yrPctChange, 0.001)
	assert.Equal(t, models.TrendRising, m.TrendLabel)
}
