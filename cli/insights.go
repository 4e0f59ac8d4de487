package cli

import (
	"github.com/spf13/cobra"

	"metro-rent-assistant/services"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print a market summary of the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		table, err := a.store.Load()
		if err != nil {
			return err
		}
		svc := services.NewInsightService(a.logger)
		svc.Print(cmd.OutOrStdout(), svc.Generate(table))
		return nil
	},
}
