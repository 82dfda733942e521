package llm

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket shared by every flow that talks to the
// provider.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// RateLimitedClient throttles Generate calls. It is safe for concurrent use.
type RateLimitedClient struct {
	next    LLMClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(next LLMClient, cfg RateLimitConfig) *RateLimitedClient {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// Generate waits for a token, or for ctx to end, before delegating.
func (c *RateLimitedClient) Generate(ctx context.Context, prompt string) (*Completion, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return c.next.Generate(ctx, prompt)
}

// Close releases the wrapped client when it holds resources.
func (c *RateLimitedClient) Close() error {
	if closer, ok := c.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
