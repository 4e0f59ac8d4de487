package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"metro-rent-assistant/models"
)

const (
	colRegionName  = "RegionName"
	colState       = "State"
	colStateName   = "StateName"
	colCurrentRent = "Current_Rent"
)

// yearColumnRegexp matches yearly average columns such as "2023_Avg_Rent" or "2023".
var yearColumnRegexp = regexp.MustCompile(`^(\d{4})(?:_Avg_Rent)?$`)

// CSVSource loads the cleaned metro dataset from a CSV file.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Path returns the backing file location.
func (c *CSVSource) Path() string {
	return c.path
}

// Load reads and parses the whole file.
func (c *CSVSource) Load() (*models.MetroTable, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	table, err := ParseMetroCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: parse %q: %w", c.path, err)
	}
	return table, nil
}

// ParseMetroCSV parses a cleaned metro dataset. The StateName column is
// renamed to State, every rent column is coerced to a number and cells
// that do not parse become missing values.
func ParseMetroCSV(r io.Reader) (*models.MetroTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	nameIdx, stateIdx, currentIdx := -1, -1, -1
	yearIdx := make(map[int]int)
	for i, raw := range header {
		col := cleanHeader(raw)
		switch col {
		case colRegionName:
			nameIdx = i
		case colState, colStateName:
			if stateIdx == -1 || col == colState {
				stateIdx = i
			}
		case colCurrentRent:
			currentIdx = i
		default:
			if m := yearColumnRegexp.FindStringSubmatch(col); m != nil {
				year, _ := strconv.Atoi(m[1])
				yearIdx[year] = i
			}
		}
	}
	if nameIdx == -1 {
		return nil, fmt.Errorf("missing %s column", colRegionName)
	}

	years := make([]int, 0, len(yearIdx))
	for y := range yearIdx {
		years = append(years, y)
	}
	sort.Ints(years)

	table := &models.MetroTable{Years: years}
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

		row := &models.MetroRecord{
			RegionName: strings.TrimSpace(cell(record, nameIdx)),
			State:      strings.TrimSpace(cell(record, stateIdx)),
			YearlyRent: make(map[int]float64, len(years)),
		}
		for _, y := range years {
			if v := ParseNumber(cell(record, yearIdx[y])); v != nil {
				row.YearlyRent[y] = *v
			}
		}
		row.CurrentRent = ParseNumber(cell(record, currentIdx))

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ParseNumber coerces a cell to a float. Blank, non-numeric, NaN and
// infinite values yield nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// cleanHeader strips whitespace and a leading byte order mark.
func cleanHeader(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
