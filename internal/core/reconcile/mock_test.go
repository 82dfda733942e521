package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/agenthands/actnexus/internal/core/interpret"
	"github.com/agenthands/actnexus/internal/core/model"
)

// stubInterpreter returns a fixed verdict and records the requests it got.
type stubInterpreter struct {
	mu       sync.Mutex
	Report   *model.ReconciliationReport
	Err      error
	Requests []interpret.Request
}

func (s *stubInterpreter) Reconcile(ctx context.Context, req interpret.Request) (*model.ReconciliationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Report, nil
}

func (s *stubInterpreter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// blockingInterpreter waits for the caller to give up.
type blockingInterpreter struct{}

func (blockingInterpreter) Reconcile(ctx context.Context, req interpret.Request) (*model.ReconciliationReport, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type stubPrompts struct {
	Text string
	Err  error
	Keys []string
}

func (s *stubPrompts) Get(ctx context.Context, key string) (string, error) {
	s.Keys = append(s.Keys, key)
	return s.Text, s.Err
}

var errUnavailable = errors.New("llm unavailable")
