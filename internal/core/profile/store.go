package profile

import (
	"context"
	"errors"
	"sync"

	"github.com/agenthands/actnexus/internal/core/common"
	"github.com/agenthands/actnexus/internal/core/model"
)

var ErrNotFound = errors.New("client profile not found")

// Store is the client registry as seen by reconciliation: lookups by name and
// upserts. Names are matched ignoring case, accents and punctuation.
type Store interface {
	Get(ctx context.Context, nome string) (*model.ClientProfile, error)
	Save(ctx context.Context, p model.ClientProfile) error
}

// MemoryStore keeps profiles in a map. It backs the CLI and the tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]model.ClientProfile
}

func NewMemoryStore(profiles ...model.ClientProfile) *MemoryStore {
	s := &MemoryStore{profiles: make(map[string]model.ClientProfile, len(profiles))}
	for _, p := range profiles {
		s.profiles[common.Canonical(p.Nome)] = p.Clone()
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, nome string) (*model.ClientProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[common.Canonical(nome)]
	if !ok {
		return nil, ErrNotFound
	}
	clone := p.Clone()
	return &clone, nil
}

func (s *MemoryStore) Save(ctx context.Context, p model.ClientProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[common.Canonical(p.Nome)] = p.Clone()
	return nil
}
