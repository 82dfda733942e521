package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agenthands/actnexus/internal/core/model"
)

// Metrics exposes AI usage as Prometheus series.
type Metrics struct {
	Requests *prometheus.CounterVec
	Tokens   *prometheus.CounterVec
	Cost     *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewMetrics registers the usage series on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "actnexus_ai_requests_total",
			Help: "AI calls by flow, provider, model and status",
		}, []string{"flow", "provider", "model", "status"}),

		Tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "actnexus_ai_tokens_total",
			Help: "Tokens consumed by flow and direction",
		}, []string{"flow", "direction"}), // direction: "prompt", "completion"

		Cost: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "actnexus_ai_cost_total",
			Help: "Estimated cost of AI calls by flow",
		}, []string{"flow"}),

		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actnexus_ai_latency_seconds",
			Help:    "Duration of AI calls by flow",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"flow"}),
	}
}

func (m *Metrics) RecordUsage(ctx context.Context, u model.Usage) error {
	if m == nil {
		return nil
	}
	m.Requests.WithLabelValues(u.Flow, u.Provider, u.Model, u.Status).Inc()
	m.Tokens.WithLabelValues(u.Flow, "prompt").Add(float64(u.PromptTokens))
	m.Tokens.WithLabelValues(u.Flow, "completion").Add(float64(u.CompletionTokens))
	m.Cost.WithLabelValues(u.Flow).Add(u.Cost)
	m.Latency.WithLabelValues(u.Flow).Observe(u.Latency.Seconds())
	return nil
}
