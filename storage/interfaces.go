package storage

import "metro-rent-assistant/models"

// MetroSource is the interface any dataset backend must satisfy. Load
// returns the raw table; derived growth columns are not expected.
type MetroSource interface {
	Load() (*models.MetroTable, error)
}

// MetroWriter is the interface for persisting a cleaned metro table.
type MetroWriter interface {
	Write(table *models.MetroTable) error
	Close() error
}

// StaticSource serves a table that is already in memory.
type StaticSource struct {
	Table *models.MetroTable
	Err   error
}

// Load returns the wrapped table or error.
func (s *StaticSource) Load() (*models.MetroTable, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Table, nil
}
