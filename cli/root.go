package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "metro-rent-assistant",
	Short: "Answer questions about metro-area rents",
	Long: `Metro Rent Assistant answers free-text questions about US metro rents.

It classifies each message (budget search, cheapest, most expensive, rent
growth, two-metro comparison) and runs the matching query against the
cleaned rent dataset.

Quick Start:
  metro-rent-assistant ask "I have a $2,500 budget in CA"
  metro-rent-assistant chat                 Interactive session
  metro-rent-assistant serve                HTTP API
  metro-rent-assistant clean raw.csv out.csv  Build the dataset from the raw index`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(importCmd)
}
