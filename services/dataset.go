package services

import (
	"fmt"
	"sync"

	"metro-rent-assistant/apperrors"
	"metro-rent-assistant/models"
	"metro-rent-assistant/storage"
	"metro-rent-assistant/utils"
)

// Trend thresholds on the 3-year percentage change.
const (
	risingThresholdPct  = 10.0
	fallingThresholdPct = -5.0
)

// DatasetStore loads the metro table once and serves the same immutable
// table for the lifetime of the store. A load failure is cached as well:
// every later call returns the same ErrDataUnavailable error.
type DatasetStore struct {
	source storage.MetroSource
	logger *utils.Logger

	once  sync.Once
	table *models.MetroTable
	err   error
}

// NewDatasetStore creates a store that reads from source on first use.
func NewDatasetStore(source storage.MetroSource, logger *utils.Logger) *DatasetStore {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &DatasetStore{source: source, logger: logger}
}

// Load returns the cached table, reading and deriving it on the first call.
// Safe for concurrent use.
func (s *DatasetStore) Load() (*models.MetroTable, error) {
	s.once.Do(func() {
		raw, err := s.source.Load()
		if err != nil {
			s.err = fmt.Errorf("%w: %v", apperrors.ErrDataUnavailable, err)
			s.logger.Error("[dataset] Load failed: %v", err)
			return
		}
		if raw == nil {
			s.err = fmt.Errorf("%w: source returned no table", apperrors.ErrDataUnavailable)
			return
		}
		s.table = BuildTable(raw)
		s.logger.Info("[dataset] Loaded %d metros, years %v", len(s.table.Rows), s.table.Years)
	})
	return s.table, s.err
}

// BuildTable copies a raw table and derives current rent, growth and trend
// columns for every row. The input is not modified.
func BuildTable(raw *models.MetroTable) *models.MetroTable {
	years := append([]int(nil), raw.Years...)
	base3 := baseYear(years, 3)
	base5 := baseYear(years, 5)

	out := &models.MetroTable{
		Years: years,
		Rows:  make([]*models.MetroRecord, 0, len(raw.Rows)),
	}
	for _, r := range raw.Rows {
		if r == nil {
			continue
		}
		m := &models.MetroRecord{
			RegionName: r.RegionName,
			State:      r.State,
			YearlyRent: make(map[int]float64, len(r.YearlyRent)),
		}
		for y, v := range r.YearlyRent {
			m.YearlyRent[y] = v
		}

		if r.CurrentRent != nil {
			m.CurrentRent = models.Float(*r.CurrentRent)
		} else {
			m.CurrentRent = latestRent(m, years)
		}

		m.Rent3yrChange, m.Rent3yrPctChange = growth(m, base3)
		m.Rent5yrChange, m.Rent5yrPctChange = growth(m, base5)
		m.TrendLabel = LabelTrend(m.Rent3yrPctChange)

		out.Rows = append(out.Rows, m)
	}
	return out
}

// LabelTrend classifies a 3-year percentage change.
func LabelTrend(pct *float64) models.TrendLabel {
	switch {
	case pct == nil:
		return models.TrendUnknown
	case *pct > risingThresholdPct:
		return models.TrendRising
	case *pct < fallingThresholdPct:
		return models.TrendFalling
	default:
		return models.TrendFlat
	}
}

// baseYear picks the tracked year n years before the latest one, clamped to
// the earliest tracked year. Returns 0 when fewer than two years are tracked.
func baseYear(years []int, n int) int {
	if len(years) < 2 {
		return 0
	}
	latest := years[len(years)-1]
	target := latest - n
	if target < years[0] {
		return years[0]
	}
	for i := len(years) - 1; i >= 0; i-- {
		if years[i] <= target {
			return years[i]
		}
	}
	return years[0]
}

func latestRent(m *models.MetroRecord, years []int) *float64 {
	for i := len(years) - 1; i >= 0; i-- {
		if v, ok := m.YearlyRent[years[i]]; ok {
			return models.Float(v)
		}
	}
	return nil
}

func growth(m *models.MetroRecord, base int) (change, pct *float64) {
	if base == 0 || m.CurrentRent == nil {
		return nil, nil
	}
	start, ok := m.YearlyRent[base]
	if !ok {
		return nil, nil
	}
	diff := *m.CurrentRent - start
	change = models.Float(diff)
	if start != 0 {
		pct = models.Float(diff / start * 100.0)
	}
	return change, pct
}
