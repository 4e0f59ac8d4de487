package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"metro-rent-assistant/storage"
	"metro-rent-assistant/utils"
)

var importCmd = &cobra.Command{
	Use:   "import [dataset.csv]",
	Short: "Load the cleaned dataset into PostgreSQL",
	Long: `Replace the metros stored in PostgreSQL with the rows of the cleaned
dataset CSV (data_path by default). Set data_source: postgres to have the
assistant read from the database afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	path := cfg.DataPath
	if len(args) == 1 {
		path = args[0]
	}

	table, err := storage.NewCSVSource(path).Load()
	if err != nil {
		return err
	}

	logger.Info("[import] Connecting to %s", utils.SanitizeConnectionString(cfg.DSN()))
	pg, err := storage.NewPostgresStore(cmd.Context(), cfg.DSN(), retryConfig(cfg, logger))
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Write(table); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d metros from %s\n", len(table.Rows), path)
	return nil
}
