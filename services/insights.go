package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"metro-rent-assistant/models"
	"metro-rent-assistant/utils"
)

const topRisingCount = 5

// InsightService summarises the metro table into a MarketReport.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &InsightService{logger: logger}
}

// Generate computes the report over every metro except the US aggregate row.
func (s *InsightService) Generate(table *models.MetroTable) *models.MarketReport {
	report := &models.MarketReport{
		TrendCounts:   make(map[models.TrendLabel]int),
		MetrosByState: make(map[string]int),
	}
	if table == nil {
		return report
	}

	var priced, rising []*models.MetroRecord
	for _, m := range table.Rows {
		if m.IsUSAggregate() {
			continue
		}
		report.TotalMetros++
		report.TrendCounts[m.TrendLabel]++
		if m.State != "" {
			report.MetrosByState[m.State]++
		}
		if m.CurrentRent != nil {
			priced = append(priced, m)
		}
		if m.Rent3yrPctChange != nil {
			rising = append(rising, m)
		}
	}

	report.PricedMetros = len(priced)
	if len(priced) > 0 {
		report.Cheapest, report.MostExpensive = priced[0], priced[0]
		var total float64
		for _, m := range priced {
			rent := *m.CurrentRent
			total += rent
			if rent < *report.Cheapest.CurrentRent {
				report.Cheapest = m
			}
			if rent > *report.MostExpensive.CurrentRent {
				report.MostExpensive = m
			}
		}
		report.AverageRent = round2(total / float64(len(priced)))
		report.MinRent = *report.Cheapest.CurrentRent
		report.MaxRent = *report.MostExpensive.CurrentRent
	}

	sortBy(rising, pct3yr, false)
	if len(rising) > topRisingCount {
		rising = rising[:topRisingCount]
	}
	report.FastestRising = rising

	s.logger.Debug("[insights] %d metros, %d priced", report.TotalMetros, report.PricedMetros)
	return report
}

// Print writes the report to w as a terminal summary.
func (s *InsightService) Print(w io.Writer, r *models.MarketReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  METRO RENT INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Metros tracked     : \033[1m%s\033[0m\n", humanize.Comma(int64(r.TotalMetros)))
	fmt.Fprintf(w, "  With current rent  : \033[1m%s\033[0m\n", humanize.Comma(int64(r.PricedMetros)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Current Rent (monthly)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedMetros > 0 {
		fmt.Fprintf(w, "  Average : \033[1;32m$%s\033[0m\n", humanize.CommafWithDigits(r.AverageRent, 2))
		fmt.Fprintf(w, "  Minimum : \033[1;32m%s\033[0m  %s\n", money(r.MinRent), shorten(r.Cheapest.RegionName, 36))
		fmt.Fprintf(w, "  Maximum : \033[1;31m%s\033[0m  %s\n", money(r.MaxRent), shorten(r.MostExpensive.RegionName, 36))
	} else {
		fmt.Fprintf(w, "  No rent data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top %d Fastest Rising (3 years)\033[0m\n", topRisingCount)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.FastestRising) == 0 {
		fmt.Fprintf(w, "  No growth data available\n")
	} else {
		for i, m := range r.FastestRising {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%s\033[0m\n",
				i+1, shorten(m.RegionName, 38), percent(m.Rent3yrPctChange))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Trend Labels\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, label := range []models.TrendLabel{models.TrendRising, models.TrendFlat, models.TrendFalling, models.TrendUnknown} {
		fmt.Fprintf(w, "  %-10s %d\n", label, r.TrendCounts[label])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Metros by State\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.MetrosByState) == 0 {
		fmt.Fprintf(w, "  No state data\n")
	} else {
		for _, sc := range stateCounts(r.MetrosByState) {
			bar := strings.Repeat("█", sc.count)
			fmt.Fprintf(w, "  %-4s %s (%d)\n", sc.state, bar, sc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

type stateCount struct {
	state string
	count int
}

// stateCounts orders states by metro count descending, then by code.
func stateCounts(m map[string]int) []stateCount {
	out := make([]stateCount, 0, len(m))
	for st, n := range m {
		out = append(out, stateCount{st, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].state < out[j].state
	})
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
