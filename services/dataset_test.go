package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metro-rent-assistant/apperrors"
	"metro-rent-assistant/models"
	"metro-rent-assistant/utils"
)

type countingSource struct {
	calls atomic.Int32
	table *models.MetroTable
	err   error
}

func (s *countingSource) Load() (*models.MetroTable, error) {
	s.calls.Add(1)
	return s.table, s.err
}

func TestDatasetStore_LoadsOnce(t *testing.T) {
	src := &countingSource{table: sampleTable()}
	store := NewDatasetStore(src, utils.NewNopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Load()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	first, err := store.Load()
	require.NoError(t, err)
	second, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, int32(1), src.calls.Load())
	assert.Same(t, first, second)
}

func TestDatasetStore_DataUnavailable(t *testing.T) {
	src := &countingSource{err: errors.New("open data.csv: no such file")}
	store := NewDatasetStore(src, utils.NewNopLogger())

	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataUnavailable)

	_, err = store.Load()
	assert.ErrorIs(t, err, apperrors.ErrDataUnavailable)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestDatasetStore_NilTable(t *testing.T) {
	store := NewDatasetStore(&countingSource{}, nil)
	_, err := store.Load()
	assert.ErrorIs(t, err, apperrors.ErrDataUnavailable)
}

func TestBuildTable_DerivedColumns(t *testing.T) {
	table := BuildTable(sampleTable())
	byName := map[string]*models.MetroRecord{}
	for _, r := range table.Rows {
		byName[r.RegionName] = r
	}

	ny := byName["New York, NY"]
	require.NotNil(t, ny.CurrentRent)
	assert.Equal(t, 3000.0, *ny.CurrentRent)
	assert.Equal(t, 300.0, *ny.Rent3yrChange)
	assert.InDelta(t, 11.111, *ny.Rent3yrPctChange, 0.001)
	assert.Equal(t, 500.0, *ny.Rent5yrChange)
	assert.InDelta(t, 20.0, *ny.Rent5yrPctChange, 0.001)
	assert.Equal(t, models.TrendRising, ny.TrendLabel)

	austin := byName["Austin, TX"]
	assert.InDelta(t, -10.0, *austin.Rent3yrPctChange, 0.001)
	assert.Equal(t, models.TrendFalling, austin.TrendLabel)

	seattle := byName["Seattle, WA"]
	assert.Nil(t, seattle.Rent5yrChange)
	assert.Nil(t, seattle.Rent5yrPctChange)
	assert.Equal(t, models.TrendFlat, seattle.TrendLabel)

	ghost := byName["Ghost Town, TX"]
	assert.Nil(t, ghost.CurrentRent)
	assert.Nil(t, ghost.Rent3yrPctChange)
	assert.Equal(t, models.TrendUnknown, ghost.TrendLabel)

	stateless := byName["Stateless Metro"]
	assert.Equal(t, 800.0, *stateless.CurrentRent)
	assert.Equal(t, models.TrendUnknown, stateless.TrendLabel)
}

func TestBuildTable_KeepsExplicitCurrentRent(t *testing.T) {
	raw := &models.MetroTable{
		Years: []int{2022, 2025},
		Rows: []*models.MetroRecord{
			{RegionName: "A", YearlyRent: map[int]float64{2022: 1000, 2025: 1100}, CurrentRent: models.Float(1200)},
		},
	}
	table := BuildTable(raw)

	assert.Equal(t, 1200.0, *table.Rows[0].CurrentRent)
	assert.InDelta(t, 20.0, *table.Rows[0].Rent3yrPctChange, 0.001)
	assert.Nil(t, raw.Rows[0].Rent3yrPctChange, "input must not be modified")
}

func TestBuildTable_ZeroBaseHasNoPercentage(t *testing.T) {
	raw := &models.MetroTable{
		Years: []int{2022, 2025},
		Rows:  []*models.MetroRecord{{RegionName: "Zero", YearlyRent: map[int]float64{2022: 0, 2025: 900}}},
	}
	m := BuildTable(raw).Rows[0]

	require.NotNil(t, m.Rent3yrChange)
	assert.Equal(t, 900.0, *m.Rent3yrChange)
	assert.Nil(t, m.Rent3yrPctChange)
	assert.Equal(t, models.TrendUnknown, m.TrendLabel)
}

func TestBaseYear(t *testing.T) {
	years := []int{2021, 2022, 2023, 2024, 2025}
	tests := []struct {
		years []int
		n     int
		want  int
	}{
		{years, 3, 2022},
		{years, 5, 2021},
		{[]int{2023, 2024, 2025}, 3, 2023},
		{[]int{2021, 2023, 2025}, 3, 2021},
		{[]int{2025}, 3, 0},
		{nil, 3, 0},
	}
	for _, tt := range tests {
		if got := baseYear(tt.years, tt.n); got != tt.want {
			t.Errorf("baseYear(%v, %d) = %d; want %d", tt.years, tt.n, got, tt.want)
		}
	}
}

func TestLabelTrend(t *testing.T) {
	tests := []struct {
		pct  *float64
		want models.TrendLabel
	}{
		{nil, models.TrendUnknown},
		{models.Float(10.01), models.TrendRising},
		{models.Float(10), models.TrendFlat},
		{models.Float(0), models.TrendFlat},
		{models.Float(-5), models.TrendFlat},
		{models.Float(-5.01), models.TrendFalling},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelTrend(tt.pct))
	}
}
