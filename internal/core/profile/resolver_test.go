package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/actnexus/internal/core/model"
)

func TestResolver_Resolve(t *testing.T) {
	store := NewMemoryStore(
		model.ClientProfile{Nome: "Maria Silva", DadosAdicionais: []model.LabeledField{{Label: "CPF", Value: "111.222.333-44"}}},
		model.ClientProfile{Nome: "João Souza"},
	)
	r := NewResolver(store, 2, nil)

	res, err := r.Resolve(context.Background(), []string{"joão souza", "Pedro Alves", "MARIA SILVA", " "})
	require.NoError(t, err)

	require.Len(t, res.Profiles, 2)
	assert.Equal(t, "João Souza", res.Profiles[0].Nome, "order follows the requested names")
	assert.Equal(t, "Maria Silva", res.Profiles[1].Nome)
	assert.Equal(t, []string{"Pedro Alves"}, res.Missing)
}

func TestResolver_RespectsConcurrencyLimit(t *testing.T) {
	store := &countingStore{
		MemoryStore: NewMemoryStore(
			model.ClientProfile{Nome: "A"}, model.ClientProfile{Nome: "B"},
			model.ClientProfile{Nome: "C"}, model.ClientProfile{Nome: "D"},
		),
		release: make(chan struct{}),
	}
	r := NewResolver(store, 2, nil)

	done := make(chan error, 1)
	go func() {
		_, err := r.Resolve(context.Background(), []string{"A", "B", "C", "D"})
		done <- err
	}()

	// Let the lookups pile up, then release them all.
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	require.NoError(t, <-done)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.LessOrEqual(t, store.peak, 2)
	assert.GreaterOrEqual(t, store.peak, 1)
}

func TestResolver_StoreError(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore(), err: errors.New("bolt: connection reset")}
	r := NewResolver(store, 4, nil)

	_, err := r.Resolve(context.Background(), []string{"Maria"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p := model.ClientProfile{Nome: "Ana Lima", DadosAdicionais: []model.LabeledField{{Label: "RG", Value: "1"}}}
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Get(ctx, "ana lima")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	got.DadosAdicionais[0].Value = "changed"
	again, err := s.Get(ctx, "Ana Lima")
	require.NoError(t, err)
	assert.Equal(t, "1", again.DadosAdicionais[0].Value, "returned profiles are copies")

	_, err = s.Get(ctx, "Outra")
	assert.ErrorIs(t, err, ErrNotFound)
}
