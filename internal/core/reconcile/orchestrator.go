// Package reconcile runs minute reconciliation: it validates the input,
// delegates the comparison to an interpreter, checks the verdict against the
// status contract and composes the final report.
package reconcile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core/interpret"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/core/profile"
)

const reasonEmptyMinute = "O texto da minuta está vazio; não há o que conferir."

// PromptSource resolves operator-editable instructions by key.
type PromptSource interface {
	Get(ctx context.Context, key string) (string, error)
}

// Orchestrator holds no per-call state and is safe for concurrent use.
type Orchestrator struct {
	interpreter interpret.Interpreter
	prompts     PromptSource
	observer    Observer
	newID       func() string
	logger      *zap.Logger
}

type Option func(*Orchestrator)

// WithPrompts makes the orchestrator fetch the verification instructions
// from src on every call.
func WithPrompts(src PromptSource) Option {
	return func(o *Orchestrator) { o.prompts = src }
}

// WithObserver registers a callback for state changes.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

func NewOrchestrator(in interpret.Interpreter, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		interpreter: in,
		newID:       func() string { return uuid.New().String() },
		logger:      logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Reconcile compares the minute against the client profiles.
//
// Empty or invalid input yields a report with an explanatory observation and
// no client checks, and a nil error. Interpreter failures and verdicts that
// break the status contract are returned as *model.ExternalInterpretationError
// and no report is produced.
func (o *Orchestrator) Reconcile(ctx context.Context, req model.ReconciliationRequest) (*model.ReconciliationReport, error) {
	r := &run{id: o.newID(), observer: o.observer}
	log := o.logger.With(zap.String("run_id", r.id))
	start := time.Now()

	r.to(StateValidating)
	if err := ctx.Err(); err != nil {
		r.to(StateFailed)
		return nil, err
	}
	if strings.TrimSpace(req.MinuteText) == "" {
		r.to(StateDone)
		log.Info("reconciliation skipped", zap.String("reason", "empty minute"))
		return model.NewEmptyReport(reasonEmptyMinute), nil
	}
	profiles, err := profile.Aggregate(req.ClientProfiles)
	if err != nil {
		var invalid *model.InvalidInputError
		if errors.As(err, &invalid) {
			r.to(StateDone)
			log.Info("reconciliation skipped", zap.String("reason", invalid.Reason))
			return model.NewEmptyReport(capitalize(invalid.Reason) + "."), nil
		}
		r.to(StateFailed)
		return nil, err
	}

	instructions := o.instructions(ctx, log)

	r.to(StateAwaitingInterpretation)
	verdict, err := o.interpreter.Reconcile(ctx, interpret.Request{
		MinuteText:   req.MinuteText,
		Profiles:     profiles,
		Instructions: instructions,
	})
	if err != nil {
		r.to(StateFailed)
		log.Error("interpretation failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, asInterpretationError(err)
	}
	verdict, err = Validate(verdict, profiles)
	if err != nil {
		r.to(StateFailed)
		log.Error("verdict rejected", zap.Error(err))
		return nil, &model.ExternalInterpretationError{Cause: err}
	}

	r.to(StateAggregating)
	names := make([]string, len(req.ClientProfiles))
	for i, p := range req.ClientProfiles {
		names[i] = p.Nome
	}
	report := compose(verdict, profiles, names)
	r.to(StateDone)

	log.Info("reconciliation finished",
		zap.Int("clients", len(report.ClientChecks)),
		zap.Int("observations", len(report.Geral)),
		zap.Any("statuses", countStatuses(report)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (o *Orchestrator) instructions(ctx context.Context, log *zap.Logger) string {
	if o.prompts == nil {
		return ""
	}
	text, err := o.prompts.Get(ctx, config.PromptVerification)
	if err != nil {
		log.Warn("using built-in verification instructions", zap.Error(err))
		return ""
	}
	return text
}

func asInterpretationError(err error) error {
	var ext *model.ExternalInterpretationError
	if errors.As(err, &ext) {
		return err
	}
	return &model.ExternalInterpretationError{Cause: err}
}

func countStatuses(r *model.ReconciliationReport) map[string]int {
	counts := map[string]int{}
	for _, cc := range r.ClientChecks {
		for _, v := range cc.Verifications {
			counts[string(v.Status)]++
		}
	}
	return counts
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
