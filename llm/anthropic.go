package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicPolisher polishes replies through the Anthropic messages API.
type AnthropicPolisher struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicPolisher creates a polisher for the given API key.
func NewAnthropicPolisher(apiKey, model string) (*AnthropicPolisher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: anthropic requires an API key")
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicPolisher{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *AnthropicPolisher) Name() string { return ProviderAnthropic }

// Polish sends the rewrite prompt and returns the first text block.
func (p *AnthropicPolisher) Polish(ctx context.Context, userMessage, draft string) (string, error) {
	prompt := BuildPrompt(userMessage, draft)

	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxPolishTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: anthropic messages: %w", err)
	}
	return cleanOutput(firstText(resp))
}

func firstText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}
