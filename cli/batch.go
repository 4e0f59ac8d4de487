package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"metro-rent-assistant/services"
)

var batchJSON bool

var batchCmd = &cobra.Command{
	Use:   "batch <questions-file>",
	Short: "Answer every question in a file",
	Long: `Answer one question per line of a file. Blank lines and lines starting
with '#' are skipped. Replies are printed in file order.

Concurrency and pacing come from max_concurrency and rate_limit_ms.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print results as JSON")
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read questions: %w", err)
	}
	questions := services.ParseQuestions(string(data))
	if len(questions) == 0 {
		return fmt.Errorf("no questions in %s", args[0])
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	// Load up front so a missing dataset fails once, not per question.
	if _, err := a.store.Load(); err != nil {
		return err
	}

	answerer := services.NewBatchAnswerer(a.assistant, a.cfg.MaxConcurrency, a.cfg.RateLimitMs, a.logger)
	results := answerer.Answer(ctx, questions)

	out := cmd.OutOrStdout()
	if batchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, r := range results {
		fmt.Fprintf(out, "Q%d: %s\n", i+1, r.Question)
		if r.Error != "" {
			fmt.Fprintf(out, "error: %s\n\n", r.Error)
			continue
		}
		fmt.Fprintf(out, "%s\n\n", r.Reply)
	}
	return nil
}
