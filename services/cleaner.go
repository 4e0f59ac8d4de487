package services

import (
	"math"
	"sort"
	"strings"

	"metro-rent-assistant/models"
	"metro-rent-assistant/utils"
)

// Cleaner turns the raw monthly rent index into the yearly metro table the
// assistant reads.
type Cleaner struct {
	years  []int
	logger *utils.Logger
}

// NewCleaner creates a Cleaner that aggregates the given calendar years.
func NewCleaner(years []int, logger *utils.Logger) *Cleaner {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	ys := append([]int(nil), years...)
	sort.Ints(ys)
	return &Cleaner{years: ys, logger: logger}
}

// Clean averages each year's monthly values per metro, sets Current_Rent
// from the latest year with data columns, and drops metros without a
// current rent or with a RegionID already seen. Rows come back ordered by
// SizeRank, largest metros first.
func (c *Cleaner) Clean(raw []*models.RawMetroSeries) *models.MetroTable {
	available := monthlyYears(raw)

	var years []int
	for _, y := range c.years {
		if _, ok := available[y]; !ok {
			c.logger.Warn("[cleaner] No data found for year %d, skipping", y)
			continue
		}
		years = append(years, y)
	}

	table := &models.MetroTable{Years: years}
	if len(years) == 0 {
		c.logger.Warn("[cleaner] No recent data found to establish current rent")
		return table
	}
	latest := years[len(years)-1]
	c.logger.Info("[cleaner] Using %d as the reference for current rent", latest)

	type ranked struct {
		rank   int
		record *models.MetroRecord
	}
	seen := utils.NewKeySet()
	kept := make([]ranked, 0, len(raw))
	var noRent, dup int

	for _, s := range raw {
		yearly := yearlyAverages(s.Monthly, years)
		current, ok := yearly[latest]
		if !ok {
			noRent++
			continue
		}

		if id := strings.TrimSpace(s.RegionID); id != "" && !seen.Add(id) {
			c.logger.Debug("[cleaner] Duplicate RegionID skipped: %s", id)
			dup++
			continue
		}

		kept = append(kept, ranked{
			rank: s.SizeRank,
			record: &models.MetroRecord{
				RegionName:  strings.TrimSpace(s.RegionName),
				State:       strings.TrimSpace(s.StateName),
				YearlyRent:  yearly,
				CurrentRent: models.Float(current),
			},
		})
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].rank < kept[j].rank })

	table.Rows = make([]*models.MetroRecord, len(kept))
	for i, k := range kept {
		table.Rows[i] = k.record
	}

	c.logger.Info("[cleaner] Cleaned %d -> %d metros (%d without current rent, %d duplicates)",
		len(raw), len(table.Rows), noRent, dup)
	return table
}

// yearlyAverages returns the rounded mean of the non-blank monthly values
// for each requested year. Years with no values are absent from the map.
func yearlyAverages(monthly []models.MonthlyRent, years []int) map[int]float64 {
	want := make(map[int]struct{}, len(years))
	for _, y := range years {
		want[y] = struct{}{}
	}

	sums := map[int]float64{}
	counts := map[int]int{}
	for _, m := range monthly {
		if m.Value == nil {
			continue
		}
		if _, ok := want[m.Year]; !ok {
			continue
		}
		sums[m.Year] += *m.Value
		counts[m.Year]++
	}

	out := make(map[int]float64, len(counts))
	for y, n := range counts {
		out[y] = math.RoundToEven(sums[y] / float64(n))
	}
	return out
}

// monthlyYears lists the calendar years that have at least one monthly
// column, whether or not any cell in it is filled.
func monthlyYears(raw []*models.RawMetroSeries) map[int]struct{} {
	out := map[int]struct{}{}
	for _, s := range raw {
		for _, m := range s.Monthly {
			out[m.Year] = struct{}{}
		}
	}
	return out
}
