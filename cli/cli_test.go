package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metro-rent-assistant/models"
	"metro-rent-assistant/services"
	"metro-rent-assistant/storage"
)

const rawIndex = `RegionID,SizeRank,RegionName,RegionType,StateName,2024-01-31,2024-02-29,2025-01-31
102001,0,United States,country,,1500,1520,1600
394913,1,"New York, NY",msa,NY,2900,2950,3000
394355,3,"Austin, TX",msa,TX,1700,1720,1650
394000,2,"Ghost, TX",msa,TX,900,,
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	body := "data_source: csv\ndata_path: " + filepath.Join(dir, "cleaned.csv") + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCleanThenAsk(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	raw := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(raw, []byte(rawIndex), 0o644))

	out, err := runCLI(t, "--config", cfg, "clean", raw)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 metros")

	table, err := storage.NewCSVSource(filepath.Join(dir, "cleaned.csv")).Load()
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, table.Years)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "New York, NY", table.Rows[1].RegionName)
	assert.Equal(t, 1510.0, table.Rows[0].YearlyRent[2024])

	out, err = runCLI(t, "--config", cfg, "ask", "cheapest", "metros")
	require.NoError(t, err)
	assert.Contains(t, out, "- Austin, TX - ~$1,650/month")
	assert.NotContains(t, out, "United States")

	out, err = runCLI(t, "--config", cfg, "insights")
	require.NoError(t, err)
	assert.Contains(t, out, "METRO RENT INSIGHTS")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	raw := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(raw, []byte(rawIndex), 0o644))
	_, err := runCLI(t, "--config", cfg, "clean", raw)
	require.NoError(t, err)

	questions := filepath.Join(dir, "questions.txt")
	require.NoError(t, os.WriteFile(questions, []byte("# sample\nmost expensive metros\ncompare austin and new york\n"), 0o644))

	out, err := runCLI(t, "--config", cfg, "batch", questions)
	require.NoError(t, err)
	first := strings.Index(out, "Q1: most expensive metros")
	second := strings.Index(out, "Q2: compare austin and new york")
	assert.True(t, first >= 0 && second > first)
	assert.Contains(t, out, "New York, NY is about $1,350/month more expensive than Austin, TX.")
}

func TestAskMissingDataset(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := runCLI(t, "--config", cfg, "ask", "cheapest metros")
	assert.Error(t, err)
}

func TestChatLoop(t *testing.T) {
	table := &models.MetroTable{
		Years: []int{2025},
		Rows:  []*models.MetroRecord{{RegionName: "Austin, TX", State: "TX", YearlyRent: map[int]float64{2025: 1650}}},
	}
	store := services.NewDatasetStore(&storage.StaticSource{Table: table}, nil)
	assistant := services.NewAssistant(services.NewRecommender(store, services.RecommenderOptions{}, nil), services.AssistantOptions{}, nil)

	in := strings.NewReader("cheapest metros\n\nexit\nmost expensive metros\n")
	var out bytes.Buffer
	require.NoError(t, chatLoop(context.Background(), assistant, in, &out))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Hi!"))
	assert.Contains(t, text, "Austin, TX - ~$1,650/month")
	assert.NotContains(t, text, "most expensive metros by current average rent")
}
