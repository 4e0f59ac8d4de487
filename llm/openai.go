package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIPolisher polishes replies through an OpenAI-compatible chat
// completion endpoint.
type OpenAIPolisher struct {
	client *openai.Client
	model  string
}

// NewOpenAIPolisher creates a polisher. An empty baseURL uses the public
// OpenAI endpoint.
func NewOpenAIPolisher(apiKey, baseURL, model string) (*OpenAIPolisher, error) {
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("llm: openai requires an API key or a base URL")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return &OpenAIPolisher{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIPolisher) Name() string { return ProviderOpenAI }

// Polish sends the rewrite prompt and returns the first choice.
func (p *OpenAIPolisher) Polish(ctx context.Context, userMessage, draft string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: maxPolishTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(userMessage, draft)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: openai returned no choices")
	}
	return cleanOutput(resp.Choices[0].Message.Content)
}
