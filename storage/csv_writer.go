package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"metro-rent-assistant/models"
)

// CSVWriter writes a cleaned metro table in the layout CSVSource reads.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f, writer: csv.NewWriter(f)}, nil
}

// Write emits the header followed by one row per metro. Missing values are
// written as empty cells.
func (c *CSVWriter) Write(table *models.MetroTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := []string{colRegionName, colStateName}
	for _, y := range table.Years {
		header = append(header, fmt.Sprintf("%d_Avg_Rent", y))
	}
	header = append(header, colCurrentRent)
	if err := c.writer.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, m := range table.Rows {
		row := make([]string, 0, len(header))
		row = append(row, m.RegionName, m.State)
		for _, y := range table.Years {
			if v, ok := m.Rent(y); ok {
				row = append(row, formatNumber(v))
			} else {
				row = append(row, "")
			}
		}
		if m.CurrentRent != nil {
			row = append(row, formatNumber(*m.CurrentRent))
		} else {
			row = append(row, "")
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
