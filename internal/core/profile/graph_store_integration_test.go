//go:build integration

package profile

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/driver"
)

func TestGraphStore_Memgraph(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	ctx := context.Background()
	d, err := driver.NewMemgraphDriver(ctx, uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"), nil)
	require.NoError(t, err)
	defer d.Close(ctx)
	require.NoError(t, d.BuildIndices(ctx))

	s := NewGraphStore(d)
	nome := "Cliente Teste " + uuid.NewString()[:8]

	require.NoError(t, s.Save(ctx, model.ClientProfile{
		Nome: nome,
		DadosAdicionais: []model.LabeledField{
			{Label: "CPF", Value: "529.982.247-25"},
			{Label: "Profissão", Value: "engenheira"},
		},
	}))

	got, err := s.Get(ctx, "  "+nome+" ")
	require.NoError(t, err)
	assert.Equal(t, nome, got.Nome)
	assert.Equal(t, []model.LabeledField{
		{Label: "CPF", Value: "529.982.247-25"},
		{Label: "Profissão", Value: "engenheira"},
	}, got.DadosAdicionais)

	// Saving again replaces the field set.
	require.NoError(t, s.Save(ctx, model.ClientProfile{Nome: nome}))
	got, err = s.Get(ctx, nome)
	require.NoError(t, err)
	assert.Empty(t, got.DadosAdicionais)

	_, err = s.Get(ctx, "ninguém "+uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.ExecuteQuery(ctx, "MATCH (c:Client {nome: $nome}) DETACH DELETE c", map[string]any{"nome": nome})
	require.NoError(t, err)
}
