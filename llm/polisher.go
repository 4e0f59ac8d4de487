// Package llm rewrites assistant replies with a hosted language model.
package llm

import (
	"context"
	"fmt"
	"strings"

	"metro-rent-assistant/config"
)

// Provider names accepted by NewPolisher.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-sonnet-4-5-20250929"
	maxPolishTokens       = 512
)

// Polisher rewrites a draft reply. Implementations must keep every number
// and fact of the draft.
type Polisher interface {
	Polish(ctx context.Context, userMessage, draft string) (string, error)
	Name() string
}

// NewPolisher builds the polisher selected by cfg.Provider. It returns nil
// for the "none" provider.
func NewPolisher(cfg config.PolishConfig) (Polisher, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		p, err := NewOpenAIPolisher(cfg.APIKey, cfg.BaseURL, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderAnthropic:
		p, err := NewAnthropicPolisher(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// BuildPrompt assembles the rewrite instruction for one reply.
func BuildPrompt(userMessage, draft string) string {
	var b strings.Builder
	b.WriteString("You are a helpful relocation assistant. ")
	b.WriteString("Rewrite the assistant message to be concise, friendly, and easy to read. ")
	b.WriteString("Preserve all numbers and facts.\n\n")
	fmt.Fprintf(&b, "User message:\n%s\n\n", userMessage)
	fmt.Fprintf(&b, "Draft assistant answer:\n%s\n\n", draft)
	b.WriteString("Polished answer:")
	return b.String()
}

func cleanOutput(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("llm: empty completion")
	}
	return s, nil
}
