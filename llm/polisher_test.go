package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metro-rent-assistant/config"
)

func TestNewPolisher_None(t *testing.T) {
	for _, provider := range []string{"", "none", "NONE"} {
		p, err := NewPolisher(config.PolishConfig{Provider: provider})
		require.NoError(t, err)
		assert.Nil(t, p)
	}
}

func TestNewPolisher_Providers(t *testing.T) {
	p, err := NewPolisher(config.PolishConfig{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p.Name())

	p, err = NewPolisher(config.PolishConfig{Provider: "anthropic", APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, p.Name())
}

func TestNewPolisher_Errors(t *testing.T) {
	_, err := NewPolisher(config.PolishConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewPolisher(config.PolishConfig{Provider: "anthropic"})
	assert.Error(t, err)

	_, err = NewPolisher(config.PolishConfig{Provider: "bard"})
	assert.Error(t, err)
}

func TestNewOpenAIPolisher_LocalEndpointWithoutKey(t *testing.T) {
	p, err := NewOpenAIPolisher("", "http://localhost:11434/v1/", "")
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIModel, p.model)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("cheap metros in TX?", "- Wichita Falls, TX - ~$950/month")

	assert.Contains(t, prompt, "Preserve all numbers and facts.")
	assert.Contains(t, prompt, "User message:\ncheap metros in TX?\n\n")
	assert.Contains(t, prompt, "Draft assistant answer:\n- Wichita Falls, TX - ~$950/month\n\n")
	assert.True(t, len(prompt) > 0 && prompt[len(prompt)-len("Polished answer:"):] == "Polished answer:")
}

func TestCleanOutput(t *testing.T) {
	out, err := cleanOutput("  hello \n")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = cleanOutput("   ")
	assert.Error(t, err)
}
