// Package telemetry records the usage and cost of every AI call. Sinks are the
// Prometheus metrics exposed on /metrics and the SQLite usage log.
package telemetry

import (
	"context"
	"errors"

	"github.com/agenthands/actnexus/internal/core/model"
)

type Recorder interface {
	RecordUsage(ctx context.Context, u model.Usage) error
}

// Multi fans a usage entry out to every recorder and joins their errors.
type Multi []Recorder

func (m Multi) RecordUsage(ctx context.Context, u model.Usage) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.RecordUsage(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UsageWriter is the persistence used by UsageLog. *sqlite.Store satisfies it.
type UsageWriter interface {
	InsertUsage(ctx context.Context, u model.Usage) error
}

// UsageLog persists usage entries with the prompt excerpt redacted.
type UsageLog struct {
	Writer UsageWriter
}

func (l *UsageLog) RecordUsage(ctx context.Context, u model.Usage) error {
	u.PromptExcerpt = Sanitize(u.PromptExcerpt)
	return l.Writer.InsertUsage(ctx, u)
}
