package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"metro-rent-assistant/models"
)

// monthColumnRegexp matches the raw index's monthly columns, e.g. "2024-03-31".
var monthColumnRegexp = regexp.MustCompile(`^(\d{4})-(\d{2})-\d{2}$`)

// ReadRawSeries loads the raw monthly rent index (one column per month)
// from the CSV file at path.
func ReadRawSeries(path string) ([]*models.RawMetroSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raw csv: open %q: %w", path, err)
	}
	defer f.Close()

	series, err := ParseRawSeries(f)
	if err != nil {
		return nil, fmt.Errorf("raw csv: parse %q: %w", path, err)
	}
	return series, nil
}

// ParseRawSeries parses the raw monthly index. The metadata columns
// RegionID, SizeRank, RegionName, RegionType and StateName are picked up
// by name; every YYYY-MM-DD column is a monthly observation.
func ParseRawSeries(r io.Reader) ([]*models.RawMetroSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	type monthCol struct {
		idx, year, month int
	}
	meta := map[string]int{}
	var months []monthCol
	for i, raw := range header {
		col := cleanHeader(raw)
		if m := monthColumnRegexp.FindStringSubmatch(col); m != nil {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			months = append(months, monthCol{idx: i, year: year, month: month})
			continue
		}
		meta[col] = i
	}
	if _, ok := meta[colRegionName]; !ok {
		return nil, fmt.Errorf("missing %s column", colRegionName)
	}

	metaCell := func(record []string, name string) string {
		idx, ok := meta[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(cell(record, idx))
	}

	var out []*models.RawMetroSeries
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		s := &models.RawMetroSeries{
			RegionID:   metaCell(record, "RegionID"),
			SizeRank:   math.MaxInt,
			RegionName: metaCell(record, colRegionName),
			RegionType: metaCell(record, "RegionType"),
			StateName:  metaCell(record, colStateName),
			Monthly:    make([]models.MonthlyRent, 0, len(months)),
		}
		if rank, err := strconv.Atoi(metaCell(record, "SizeRank")); err == nil {
			s.SizeRank = rank
		}
		for _, mc := range months {
			s.Monthly = append(s.Monthly, models.MonthlyRent{
				Year:  mc.year,
				Month: mc.month,
				Value: ParseNumber(cell(record, mc.idx)),
			})
		}
		out = append(out, s)
	}

	return out, nil
}
