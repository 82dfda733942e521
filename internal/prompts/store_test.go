package prompts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core/interpret"
	"github.com/agenthands/actnexus/internal/core/qualification"
	"github.com/agenthands/actnexus/internal/storage/sqlite"
)

type countingBackend struct {
	Backend
	mu    sync.Mutex
	reads int
	err   error
}

func (b *countingBackend) Prompt(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	b.reads++
	err := b.err
	b.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return b.Backend.Prompt(ctx, key)
}

func newTestStore(t *testing.T) (*Store, *countingBackend) {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	backend := &countingBackend{Backend: db}
	store := NewStore(backend, map[string]string{
		config.PromptVerification:  "confira a minuta",
		config.PromptQualification: "qualifique %s %s",
	}, nil)
	return store, backend
}

func TestDefaults(t *testing.T) {
	d := Defaults(config.PromptsConfig{Verification: "  personalizado \n"})
	assert.Equal(t, "personalizado", d[config.PromptVerification])
	assert.Equal(t, qualification.DefaultTemplate, d[config.PromptQualification])

	d = Defaults(config.PromptsConfig{})
	assert.Equal(t, interpret.DefaultInstructions, d[config.PromptVerification])
}

func TestStore_GetDefaultAndCache(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, []string{config.PromptVerification, config.PromptQualification}, store.Keys())

	for i := 0; i < 3; i++ {
		text, err := store.Get(ctx, config.PromptVerification)
		require.NoError(t, err)
		assert.Equal(t, "confira a minuta", text)
	}
	assert.Equal(t, 1, backend.reads)

	entry, err := store.Lookup(ctx, config.PromptVerification)
	require.NoError(t, err)
	assert.False(t, entry.Overridden)
}

func TestStore_SetAndReset(t *testing.T) {
	store, backend := newTestStore(t)
	store.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := store.Get(ctx, config.PromptVerification)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, config.PromptVerification, "nova instrução"))
	entry, err := store.Lookup(ctx, config.PromptVerification)
	require.NoError(t, err)
	assert.Equal(t, Entry{Key: config.PromptVerification, Text: "nova instrução", Overridden: true}, entry)
	assert.Equal(t, 2, backend.reads)

	require.NoError(t, store.Reset(ctx, config.PromptVerification))
	text, err := store.Get(ctx, config.PromptVerification)
	require.NoError(t, err)
	assert.Equal(t, "confira a minuta", text)

	// The other key is untouched.
	text, err = store.Get(ctx, config.PromptQualification)
	require.NoError(t, err)
	assert.Equal(t, "qualifique %s %s", text)
}

func TestStore_Errors(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "desconhecido")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.ErrorIs(t, store.Set(ctx, "desconhecido", "x"), ErrUnknownKey)
	assert.ErrorIs(t, store.Reset(ctx, "desconhecido"), ErrUnknownKey)

	assert.ErrorIs(t, store.Set(ctx, config.PromptVerification, "   "), ErrEmptyText)

	backend.err = errors.New("disk I/O error")
	_, err = store.Get(ctx, config.PromptVerification)
	assert.ErrorContains(t, err, "disk I/O error")
}

func TestStore_WithoutBackend(t *testing.T) {
	store := NewStore(nil, Defaults(config.PromptsConfig{}), nil)
	ctx := context.Background()

	text, err := store.Get(ctx, config.PromptQualification)
	require.NoError(t, err)
	assert.Equal(t, qualification.DefaultTemplate, text)

	assert.ErrorIs(t, store.Set(ctx, config.PromptQualification, "x"), ErrReadOnly)
	assert.NoError(t, store.Reset(ctx, config.PromptQualification))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				assert.NoError(t, store.Set(ctx, config.PromptVerification, "override"))
				return
			}
			_, err := store.Get(ctx, config.PromptVerification)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	text, err := store.Get(ctx, config.PromptVerification)
	require.NoError(t, err)
	assert.Equal(t, "override", text)
}
