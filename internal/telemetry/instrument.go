package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/llm"
)

const excerptRunes = 500

// Pricing converts token counts into an estimated cost.
type Pricing struct {
	PromptPer1K     float64
	CompletionPer1K float64
}

func PricingFromConfig(cfg config.UsageConfig) Pricing {
	return Pricing{PromptPer1K: cfg.PromptPricePer1K, CompletionPer1K: cfg.CompletionPricePer1K}
}

func (p Pricing) Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1000*p.PromptPer1K + float64(completionTokens)/1000*p.CompletionPer1K
}

// InstrumentedClient records a usage entry for every Generate call of one
// flow. Recording failures are logged and never reach the caller.
type InstrumentedClient struct {
	next     llm.LLMClient
	recorder Recorder
	flow     string
	pricing  Pricing

	Now   func() time.Time
	NewID func() string

	logger *zap.Logger
}

var _ llm.LLMClient = (*InstrumentedClient)(nil)

func Instrument(next llm.LLMClient, recorder Recorder, flow string, pricing Pricing, logger *zap.Logger) *InstrumentedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedClient{
		next:     next,
		recorder: recorder,
		flow:     flow,
		pricing:  pricing,
		Now:      time.Now,
		NewID:    uuid.NewString,
		logger:   logger,
	}
}

func (c *InstrumentedClient) Generate(ctx context.Context, prompt string) (*llm.Completion, error) {
	start := c.Now()
	completion, err := c.next.Generate(ctx, prompt)
	latency := c.Now().Sub(start)

	u := model.Usage{
		ID:            c.NewID(),
		Flow:          c.flow,
		Latency:       latency,
		Status:        model.UsageSuccess,
		PromptExcerpt: Excerpt(prompt, excerptRunes),
		CreatedAt:     start,
	}
	if completion != nil {
		u.Provider = completion.Provider
		u.Model = completion.Model
		u.PromptTokens = completion.PromptTokens
		u.CompletionTokens = completion.CompletionTokens
		u.Cost = c.pricing.Cost(u.PromptTokens, u.CompletionTokens)
	}
	if err != nil {
		u.Status = model.UsageError
		u.Error = err.Error()
	}

	if c.recorder != nil {
		// The caller's context may already be done; the entry is still wanted.
		if rerr := c.recorder.RecordUsage(context.WithoutCancel(ctx), u); rerr != nil {
			c.logger.Warn("failed to record usage", zap.String("flow", c.flow), zap.Error(rerr))
		}
	}

	c.logger.Debug("ai call",
		zap.String("flow", c.flow),
		zap.String("status", u.Status),
		zap.Duration("latency", latency),
		zap.Int("tokens", u.TotalTokens()),
	)
	return completion, err
}
