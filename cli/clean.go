package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"metro-rent-assistant/services"
	"metro-rent-assistant/storage"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <raw-index.csv> [output.csv]",
	Short: "Aggregate the raw monthly rent index into the yearly dataset",
	Long: `Read the raw monthly rent index (RegionID, SizeRank, RegionName,
RegionType, StateName and one YYYY-MM-DD column per month) and write the
yearly dataset the assistant reads: RegionName, StateName, one
<year>_Avg_Rent column per configured year, and Current_Rent.

The output path defaults to data_path from config.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	output := cfg.DataPath
	if len(args) == 2 {
		output = args[1]
	}

	logger.Info("[clean] Loading raw index from %s", args[0])
	raw, err := storage.ReadRawSeries(args[0])
	if err != nil {
		return err
	}

	table := services.NewCleaner(cfg.CleanYears, logger).Clean(raw)
	if len(table.Rows) == 0 {
		return fmt.Errorf("no metros left after cleaning %s", args[0])
	}

	w, err := storage.NewCSVWriter(output)
	if err != nil {
		return err
	}
	if err := w.Write(table); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d metros (%v) to %s\n", len(table.Rows), table.Years, output)
	return nil
}
