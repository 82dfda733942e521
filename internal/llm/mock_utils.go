package llm

import (
	"context"
	"sync"
)

// MockLLMClient returns canned completions. Responses are consumed in order;
// once exhausted, Response is returned for every call.
type MockLLMClient struct {
	mu            sync.Mutex
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
	PromptTokens  int
	OutTokens     int
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	text := m.Response
	if len(m.ResponseQueue) > 0 {
		text = m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
	}
	return &Completion{
		Text:             text,
		Provider:         "mock",
		Model:            "mock-model",
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.OutTokens,
	}, nil
}

// Calls reports how many prompts were received.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
