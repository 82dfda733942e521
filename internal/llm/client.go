package llm

import (
	"context"
)

// Completion is the text produced by a provider plus the accounting the
// usage telemetry needs.
type Completion struct {
	Text             string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// GenerateOptions tune a single request. Zero values keep provider defaults.
type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
	// JSON asks providers that support it to constrain output to a JSON object.
	JSON bool
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (*Completion, error)
}
