package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/app"
	"github.com/agenthands/actnexus/internal/config"
)

type globalOptions struct {
	configPath string
	engine     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "minutecheck",
		Short:        "Reconcile notarial minutes against client registry data",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.toml (default config/config.toml or $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.engine, "engine", "", "reconciliation engine: llm or rules")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(newVerifyCmd(opts), newQualifyCmd(opts))
	return root
}

// loadConfig resolves the configuration the same way the server does. A
// missing default file is not an error; a missing explicit one is.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	path := o.configPath
	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = "config/config.toml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if o.engine != "" {
		cfg.Reconcile.Engine = o.engine
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *globalOptions) logger(cfg *config.Config) (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return app.NewLogger(cfg.Log.Level)
}

// build assembles the service for a one-shot command. Profiles come from
// files, so the graph registry is never used.
func (o *globalOptions) build(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := o.logger(cfg)
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg, logger, app.Options{SkipGraph: true})
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
