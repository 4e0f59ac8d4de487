package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"metro-rent-assistant/models"
	"metro-rent-assistant/services"
)

var askVerbose bool

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Answer a single question",
	Long: `Answer one question and exit.

Examples:
  metro-rent-assistant ask "cheapest metros in TX"
  metro-rent-assistant ask --verbose "compare Seattle, WA and Austin, TX"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question session on stdin",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "Also print the detected intent")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	message := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if askVerbose {
		r, err := a.assistant.Answer(ctx, message)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[intent: %s, rule: %s]\n", r.Intent.Kind(), r.Rule)
		fmt.Fprintln(out, r.Text)
		return nil
	}

	reply, err := a.assistant.Chat(ctx, message, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, reply)
	return nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	return chatLoop(ctx, a.assistant, cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop reads one message per line until EOF or "exit".
func chatLoop(ctx context.Context, assistant *services.Assistant, in io.Reader, out io.Writer) error {
	reply, err := assistant.Chat(ctx, "", nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, reply)
	fmt.Fprintln(out, "(type 'exit' to quit)")

	var history []models.ChatTurn
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		reply, err := assistant.Chat(ctx, line, history)
		if err != nil {
			return err
		}
		history = append(history,
			models.ChatTurn{Role: "user", Content: line},
			models.ChatTurn{Role: "assistant", Content: reply})
		fmt.Fprintf(out, "%s\n\n", reply)
	}
}
