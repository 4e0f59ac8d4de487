package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.DataSource)
	assert.Equal(t, 10, cfg.RowLimit)
	assert.False(t, cfg.IncludeUSAggregate)
	assert.Equal(t, []int{2021, 2022, 2023, 2024, 2025}, cfg.CleanYears)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "none", cfg.Polish.Provider)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
data_source: "postgres"
row_limit: 5
postgres:
  host: "db.example.com"
  db: "metros"
redis:
  addr: "cache:6379"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	t.Setenv("ROW_LIMIT", "20")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DataSource)
	assert.Equal(t, 20, cfg.RowLimit, "env should override yaml")
	assert.Equal(t, "db.example.com", cfg.Postgres.Host)
	assert.True(t, cfg.Redis.Enabled())
	assert.Contains(t, cfg.DSN(), "password=s3cret")
	assert.Contains(t, cfg.DSN(), "dbname=metros")
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("DATA_SOURCE", "parquet")

	_, err := LoadFrom("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_source")
}

func TestLoadRejectsUnknownPolishProvider(t *testing.T) {
	t.Setenv("POLISH_PROVIDER", "markov")

	_, err := LoadFrom("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polish provider")
}
