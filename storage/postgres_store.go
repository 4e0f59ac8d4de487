package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"metro-rent-assistant/models"
	"metro-rent-assistant/utils"
)

// PostgresStore persists the metro table to PostgreSQL and can serve it
// back as a MetroSource.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, waits for it to accept
// connections, runs schema migrations, and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS metros (
			position     INTEGER PRIMARY KEY,
			region_name  TEXT          NOT NULL,
			state        VARCHAR(8)    NOT NULL DEFAULT '',
			current_rent NUMERIC(12,2)
		);

		CREATE TABLE IF NOT EXISTS metro_yearly_rents (
			position INTEGER       NOT NULL REFERENCES metros(position) ON DELETE CASCADE,
			year     INTEGER       NOT NULL,
			avg_rent NUMERIC(12,2) NOT NULL,
			PRIMARY KEY (position, year)
		);

		CREATE INDEX IF NOT EXISTS idx_metros_region_name ON metros(LOWER(region_name));
		CREATE INDEX IF NOT EXISTS idx_metros_state       ON metros(state);
	`)
	return err
}

// Clear deletes all stored metros.
func (ps *PostgresStore) Clear() error {
	if _, err := ps.db.Exec("DELETE FROM metros"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored table with the given one in a single
// transaction. Table order is kept in the position column.
func (ps *PostgresStore) Write(table *models.MetroTable) error {
	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM metros"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 200
	for i := 0; i < len(table.Rows); i += batchSize {
		end := i + batchSize
		if end > len(table.Rows) {
			end = len(table.Rows)
		}
		if err := insertMetroBatch(tx, table.Rows[i:end], i); err != nil {
			return err
		}
		if err := insertYearlyBatch(tx, table.Rows[i:end], i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertMetroBatch(tx *sql.Tx, batch []*models.MetroRecord, offset int) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*4)

	for idx, m := range batch {
		base := idx * 4
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		var current interface{}
		if m.CurrentRent != nil {
			current = *m.CurrentRent
		}
		valueArgs = append(valueArgs, offset+idx, m.RegionName, m.State, current)
	}

	query := fmt.Sprintf(`
		INSERT INTO metros (position, region_name, state, current_rent)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert metros: %w", err)
	}
	return nil
}

func insertYearlyBatch(tx *sql.Tx, batch []*models.MetroRecord, offset int) error {
	var valueStrings []string
	var valueArgs []interface{}

	for idx, m := range batch {
		years := make([]int, 0, len(m.YearlyRent))
		for y := range m.YearlyRent {
			years = append(years, y)
		}
		sort.Ints(years)
		for _, y := range years {
			base := len(valueArgs)
			valueStrings = append(valueStrings,
				fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3))
			valueArgs = append(valueArgs, offset+idx, y, m.YearlyRent[y])
		}
	}
	if len(valueStrings) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO metro_yearly_rents (position, year, avg_rent)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert yearly rents: %w", err)
	}
	return nil
}

// Load reads the stored table back in position order. It satisfies
// MetroSource.
func (ps *PostgresStore) Load() (*models.MetroTable, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := ps.db.QueryContext(ctx, `
		SELECT position, region_name, state, current_rent
		FROM metros
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch metros: %w", err)
	}
	defer rows.Close()

	table := &models.MetroTable{}
	byPosition := make(map[int]*models.MetroRecord)
	for rows.Next() {
		var (
			position int
			current  sql.NullFloat64
		)
		m := &models.MetroRecord{YearlyRent: make(map[int]float64)}
		if err := rows.Scan(&position, &m.RegionName, &m.State, &current); err != nil {
			return nil, fmt.Errorf("postgres: scan metro: %w", err)
		}
		if current.Valid {
			m.CurrentRent = models.Float(current.Float64)
		}
		byPosition[position] = m
		table.Rows = append(table.Rows, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: fetch metros: %w", err)
	}

	yearly, err := ps.db.QueryContext(ctx, `
		SELECT position, year, avg_rent
		FROM metro_yearly_rents
		ORDER BY position, year
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch yearly rents: %w", err)
	}
	defer yearly.Close()

	seenYears := make(map[int]struct{})
	for yearly.Next() {
		var (
			position, year int
			rent           float64
		)
		if err := yearly.Scan(&position, &year, &rent); err != nil {
			return nil, fmt.Errorf("postgres: scan yearly rent: %w", err)
		}
		if m, ok := byPosition[position]; ok {
			m.YearlyRent[year] = rent
			seenYears[year] = struct{}{}
		}
	}
	if err := yearly.Err(); err != nil {
		return nil, fmt.Errorf("postgres: fetch yearly rents: %w", err)
	}

	for y := range seenYears {
		table.Years = append(table.Years, y)
	}
	sort.Ints(table.Years)

	return table, nil
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
