package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/actnexus/internal/config"
)

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "Claude", Model: "claude-3-5-haiku-latest", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3", BaseURL: "http://localhost:11434/"}, nil)
	require.NoError(t, err)
	oc, ok := c.(*OpenAIClient)
	require.True(t, ok)
	assert.Equal(t, "ollama", oc.provider)
}

func TestNewClient_RateLimited(t *testing.T) {
	c, err := NewClient(context.Background(), config.LLMConfig{
		Provider:          "openai",
		Model:             "gpt-4o-mini",
		APIKey:            "sk",
		RequestsPerSecond: 5,
		Burst:             2,
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &RateLimitedClient{}, c)
}

func TestNewClient_Unsupported(t *testing.T) {
	_, err := NewClient(context.Background(), config.LLMConfig{Provider: "watson"}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}
