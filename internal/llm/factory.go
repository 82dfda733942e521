package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/config"
)

// NewClient builds the provider client named by cfg.Provider and wraps it in
// the shared rate limiter when one is configured.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	provider := strings.ToLower(cfg.Provider)
	opts := GenerateOptions{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		JSON:        true,
	}

	var client LLMClient
	switch provider {
	case "openai":
		client = NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, opts)

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		client = c

	case "claude":
		client = NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL, opts)

	case "ollama":
		// Ollama is reached through its OpenAI-compatible API so token usage is reported.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama, required by the client
		}
		c := NewOpenAIClient(apiKey, cfg.Model, baseURL, opts)
		c.provider = "ollama"
		client = c

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}

	logger.Info("llm client initialised",
		zap.String("provider", provider),
		zap.String("model", cfg.Model),
	)

	if cfg.RequestsPerSecond > 0 {
		client = NewRateLimitedClient(client, RateLimitConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		})
	}
	return client, nil
}
