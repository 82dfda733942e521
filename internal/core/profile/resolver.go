package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/actnexus/internal/core/model"
)

// Resolution is the outcome of resolving party names against the registry.
// Profiles keep the order of the requested names.
type Resolution struct {
	Profiles []model.ClientProfile
	Missing  []string
}

// Resolver looks up the profiles of the parties named in an act.
type Resolver struct {
	Store       Store
	Concurrency int
	logger      *zap.Logger
}

func NewResolver(store Store, concurrency int, logger *zap.Logger) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Store: store, Concurrency: concurrency, logger: logger}
}

// Resolve fetches every name in parallel. Unknown names are reported in
// Missing; any other store error aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, names []string) (*Resolution, error) {
	found := make([]*model.ClientProfile, len(names))
	missing := make([]bool, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		g.Go(func() error {
			p, err := r.Store.Get(gctx, name)
			if errors.Is(err, ErrNotFound) {
				missing[i] = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve %q: %w", name, err)
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Resolution{Profiles: []model.ClientProfile{}}
	for i, p := range found {
		switch {
		case p != nil:
			res.Profiles = append(res.Profiles, *p)
		case missing[i]:
			res.Missing = append(res.Missing, strings.TrimSpace(names[i]))
		}
	}
	r.logger.Debug("profiles resolved",
		zap.Int("requested", len(names)),
		zap.Int("found", len(res.Profiles)),
		zap.Int("missing", len(res.Missing)),
	)
	return res, nil
}
