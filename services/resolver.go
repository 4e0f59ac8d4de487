package services

import (
	"strings"

	"metro-rent-assistant/models"
)

// MetroResolver maps free-text metro names to dataset rows.
type MetroResolver struct {
	store *DatasetStore
}

// NewMetroResolver creates a resolver over the given store.
func NewMetroResolver(store *DatasetStore) *MetroResolver {
	return &MetroResolver{store: store}
}

// Resolve finds a metro by case-insensitive exact RegionName, falling back
// to the first row (in table order) whose RegionName contains name. A nil
// record with a nil error means not found.
func (r *MetroResolver) Resolve(name string) (*models.MetroRecord, error) {
	table, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	return resolveIn(table, name), nil
}

func resolveIn(table *models.MetroTable, name string) *models.MetroRecord {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	for _, m := range table.Rows {
		if strings.ToLower(m.RegionName) == needle {
			return m
		}
	}
	for _, m := range table.Rows {
		if strings.Contains(strings.ToLower(m.RegionName), needle) {
			return m
		}
	}
	return nil
}
