// Package app assembles the service from configuration. Both binaries use it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core"
	"github.com/agenthands/actnexus/internal/core/interpret"
	"github.com/agenthands/actnexus/internal/core/matcher"
	"github.com/agenthands/actnexus/internal/core/profile"
	"github.com/agenthands/actnexus/internal/core/qualification"
	"github.com/agenthands/actnexus/internal/core/reconcile"
	"github.com/agenthands/actnexus/internal/driver"
	"github.com/agenthands/actnexus/internal/llm"
	"github.com/agenthands/actnexus/internal/prompts"
	"github.com/agenthands/actnexus/internal/storage/sqlite"
	"github.com/agenthands/actnexus/internal/telemetry"
)

// Options adjust Build for the binary at hand.
type Options struct {
	// SkipGraph keeps profiles in memory even when Memgraph is configured.
	SkipGraph bool
	// NewLLM replaces llm.NewClient, mainly in tests.
	NewLLM func(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (llm.LLMClient, error)
}

type App struct {
	Service  *core.Service
	Prompts  *prompts.Store
	Registry *prometheus.Registry
	DB       *sqlite.Store
	Graph    driver.GraphDriver
	// LLM is the provider client shared by every flow. Nil when none could be built.
	LLM llm.LLMClient

	logger *zap.Logger
}

// Build wires every component described by cfg. The returned App must be
// closed by the caller.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.NewLLM == nil {
		opts.NewLLM = llm.NewClient
	}
	a := &App{logger: logger}

	db, err := sqlite.Open(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	a.DB = db

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := telemetry.Multi{
		telemetry.NewMetrics(a.Registry),
		&telemetry.UsageLog{Writer: db},
	}
	pricing := telemetry.PricingFromConfig(cfg.Usage)

	defaults := prompts.Defaults(cfg.Prompts)
	a.Prompts = prompts.NewStore(db, defaults, logger)

	var store profile.Store = profile.NewMemoryStore()
	if cfg.Memgraph.URI != "" && !opts.SkipGraph {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to connect to memgraph: %w", err)
		}
		if err := d.BuildIndices(ctx); err != nil {
			logger.Warn("failed to build indices", zap.Error(err))
		}
		a.Graph = d
		store = profile.NewGraphStore(d)
	} else {
		logger.Info("using in-memory profile registry")
	}

	base, llmErr := opts.NewLLM(ctx, cfg.LLM, logger)
	if llmErr == nil {
		a.LLM = base
	}

	var interpreter interpret.Interpreter
	switch cfg.Reconcile.Engine {
	case "rules":
		interpreter = matcher.New(logger)
	default:
		if llmErr != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to initialise llm client: %w", llmErr)
		}
		timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
		verifyLLM := telemetry.Instrument(base, recorder, config.PromptVerification, pricing, logger)
		interpreter = interpret.NewLLMAdapter(verifyLLM, timeout, logger)
	}

	var qualifier *qualification.Generator
	if llmErr == nil {
		qualLLM := telemetry.Instrument(base, recorder, config.PromptQualification, pricing, logger)
		qualifier = qualification.NewGenerator(qualLLM, a.Prompts, defaults[config.PromptQualification], logger)
	} else {
		logger.Warn("qualification disabled", zap.Error(llmErr))
	}

	orch := reconcile.NewOrchestrator(interpreter, logger,
		reconcile.WithPrompts(a.Prompts),
		reconcile.WithObserver(func(runID string, from, to reconcile.State) {
			logger.Debug("reconciliation state",
				zap.String("run_id", runID),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		}),
	)
	resolver := profile.NewResolver(store, cfg.Concurrency.ProfileLookups, logger)
	a.Service = core.NewService(orch, store, resolver, qualifier, logger)

	logger.Info("service assembled",
		zap.String("engine", cfg.Reconcile.Engine),
		zap.String("provider", cfg.LLM.Provider),
		zap.Bool("graph", a.Graph != nil),
	)
	return a, nil
}

// Health checks the stores the service depends on.
func (a *App) Health(ctx context.Context) error {
	if err := a.DB.Ping(ctx); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if a.Graph != nil {
		if _, err := a.Graph.ExecuteQuery(ctx, "RETURN 1", nil); err != nil {
			return fmt.Errorf("memgraph: %w", err)
		}
	}
	return nil
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if closer, ok := a.LLM.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.Graph != nil {
		errs = append(errs, a.Graph.Close(ctx))
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
