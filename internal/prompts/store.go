// Package prompts resolves the instruction text of each AI flow. Operators
// override the configured defaults at runtime; overrides are persisted and
// take effect on the next call without a restart.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core/interpret"
	"github.com/agenthands/actnexus/internal/core/qualification"
)

// ErrUnknownKey is returned for keys that name no flow.
var ErrUnknownKey = errors.New("unknown prompt key")

var (
	ErrEmptyText = errors.New("prompt text is empty")
	// ErrReadOnly is returned by Set when no backend persists overrides.
	ErrReadOnly = errors.New("prompt overrides are not persisted in this mode")
)

// Backend persists overrides. *sqlite.Store satisfies it.
type Backend interface {
	Prompt(ctx context.Context, key string) (string, bool, error)
	SavePrompt(ctx context.Context, key, text string, at time.Time) error
	DeletePrompt(ctx context.Context, key string) error
}

// Entry is the effective prompt of one key.
type Entry struct {
	Key        string `json:"key"`
	Text       string `json:"text"`
	Overridden bool   `json:"overridden"`
}

type cached struct {
	text       string
	overridden bool
}

// Store layers backend overrides over defaults and caches the effective text.
// A nil backend serves defaults only.
type Store struct {
	backend  Backend
	defaults map[string]string
	Now      func() time.Time

	mu    sync.RWMutex
	cache map[string]cached
	gen   uint64 // bumped on every write so stale loads are not cached

	logger *zap.Logger
}

// Defaults maps every prompt key to its configured text, falling back to the
// built-in text of the flow when the configuration leaves it blank.
func Defaults(cfg config.PromptsConfig) map[string]string {
	pick := func(configured, builtin string) string {
		if strings.TrimSpace(configured) != "" {
			return strings.TrimSpace(configured)
		}
		return builtin
	}
	return map[string]string{
		config.PromptVerification:  pick(cfg.Verification, interpret.DefaultInstructions),
		config.PromptQualification: pick(cfg.Qualification, qualification.DefaultTemplate),
	}
}

func NewStore(backend Backend, defaults map[string]string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := make(map[string]string, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	return &Store{
		backend:  backend,
		defaults: d,
		Now:      time.Now,
		cache:    make(map[string]cached),
		logger:   logger,
	}
}

// Keys lists the known prompt keys in order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.defaults))
	for k := range s.defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the effective text for key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	entry, err := s.Lookup(ctx, key)
	if err != nil {
		return "", err
	}
	return entry.Text, nil
}

// Lookup is Get plus whether the text is an override.
func (s *Store) Lookup(ctx context.Context, key string) (Entry, error) {
	def, ok := s.defaults[key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	s.mu.RLock()
	c, hit := s.cache[key]
	gen := s.gen
	s.mu.RUnlock()
	if hit {
		return Entry{Key: key, Text: c.text, Overridden: c.overridden}, nil
	}

	c = cached{text: def}
	if s.backend != nil {
		text, found, err := s.backend.Prompt(ctx, key)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to load prompt %s: %w", key, err)
		}
		if found {
			c = cached{text: text, overridden: true}
		}
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cache[key] = c
	}
	s.mu.Unlock()

	return Entry{Key: key, Text: c.text, Overridden: c.overridden}, nil
}

// Set stores an override for key.
func (s *Store) Set(ctx context.Context, key, text string) error {
	if _, ok := s.defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if s.backend == nil {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.SavePrompt(ctx, key, text, s.Now()); err != nil {
		return fmt.Errorf("failed to save prompt %s: %w", key, err)
	}
	delete(s.cache, key)
	s.gen++

	s.logger.Info("prompt overridden", zap.String("key", key), zap.Int("length", len(text)))
	return nil
}

// Reset drops the override so key falls back to its default.
func (s *Store) Reset(ctx context.Context, key string) error {
	if _, ok := s.defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if s.backend == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.DeletePrompt(ctx, key); err != nil {
		return fmt.Errorf("failed to reset prompt %s: %w", key, err)
	}
	delete(s.cache, key)
	s.gen++

	s.logger.Info("prompt reset", zap.String("key", key))
	return nil
}
