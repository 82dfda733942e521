package model

import "time"

// UsageStatus values mirror what the usage log stores.
const (
	UsageSuccess = "sucesso"
	UsageError   = "erro"
)

// Usage describes one call to the text-understanding capability.
type Usage struct {
	ID               string        `json:"id"`
	Flow             string        `json:"flow"`
	Provider         string        `json:"provider"`
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	Latency          time.Duration `json:"latency"`
	Cost             float64       `json:"cost"`
	Status           string        `json:"status"`
	Error            string        `json:"error,omitempty"`
	PromptExcerpt    string        `json:"prompt_excerpt,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// TotalTokens is prompt plus completion tokens.
func (u Usage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}

// UsageTotals aggregates the usage log for one flow.
type UsageTotals struct {
	Flow             string        `json:"flow"`
	Calls            int           `json:"calls"`
	Errors           int           `json:"errors"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	Cost             float64       `json:"cost"`
	AvgLatency       time.Duration `json:"avg_latency"`
}
