package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/llm"
	"github.com/agenthands/actnexus/internal/storage/sqlite"
)

func testConfig(engine string) *config.Config {
	cfg := config.Default()
	cfg.Storage.SQLitePath = sqlite.MemoryPath
	cfg.Reconcile.Engine = engine
	cfg.Usage = config.UsageConfig{PromptPricePer1K: 1, CompletionPricePer1K: 2}
	return cfg
}

func mockFactory(client llm.LLMClient, err error) func(context.Context, config.LLMConfig, *zap.Logger) (llm.LLMClient, error) {
	return func(context.Context, config.LLMConfig, *zap.Logger) (llm.LLMClient, error) {
		return client, err
	}
}

func TestBuild_LLMEngine(t *testing.T) {
	ctx := context.Background()
	mockLLM := &llm.MockLLMClient{
		ResponseQueue: []string{
			`{"geral": [], "clientChecks": [{"clientName": "Ana Lima", "verifications": [
				{"label": "CPF", "expectedValue": "529.982.247-25", "foundValue": "529.982.247-25", "status": "OK", "reasoning": "Idêntico."}
			]}]}`,
			`{"qualificacao": "ANA LIMA, brasileira."}`,
		},
		PromptTokens: 1000,
		OutTokens:    500,
	}

	a, err := Build(ctx, testConfig("llm"), nil, Options{NewLLM: mockFactory(mockLLM, nil)})
	require.NoError(t, err)
	defer a.Close(ctx)

	require.NoError(t, a.Health(ctx))
	assert.Nil(t, a.Graph)

	report, err := a.Service.Verify(ctx, model.ReconciliationRequest{
		MinuteText: "ANA LIMA, CPF 529.982.247-25",
		ClientProfiles: []model.ClientProfile{{
			Nome:            "Ana Lima",
			DadosAdicionais: []model.LabeledField{{Label: "CPF", Value: "529.982.247-25"}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, report.ClientChecks, 1)
	assert.Equal(t, model.StatusOK, report.ClientChecks[0].Verifications[0].Status)

	text, err := a.Service.Qualify(ctx, model.ClientProfile{Nome: "Ana Lima"})
	require.NoError(t, err)
	assert.Equal(t, "ANA LIMA, brasileira.", text)

	// Both flows went through the usage log with the minute redacted.
	entries, err := a.DB.ListUsage(ctx, config.PromptVerification, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 2.0, entries[0].Cost, 1e-9)
	assert.NotContains(t, entries[0].PromptExcerpt, "529.982.247-25")

	entries, err = a.DB.ListUsage(ctx, config.PromptQualification, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "actnexus_ai_requests_total")
}

func TestBuild_RulesEngineWithoutLLM(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, testConfig("rules"), nil, Options{NewLLM: mockFactory(nil, errors.New("missing api key"))})
	require.NoError(t, err)
	defer a.Close(ctx)

	report, err := a.Service.Verify(ctx, model.ReconciliationRequest{
		MinuteText: "OUTORGANTE: ANA LIMA, brasileira, inscrita no CPF sob nº 529.982.247-25.",
		ClientProfiles: []model.ClientProfile{{
			Nome:            "Ana Lima",
			DadosAdicionais: []model.LabeledField{{Label: "CPF", Value: "529.982.247-25"}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, report.ClientChecks, 1)

	_, err = a.Service.Qualify(ctx, model.ClientProfile{Nome: "Ana Lima"})
	assert.ErrorIs(t, err, core.ErrQualificationDisabled)
}

func TestBuild_LLMEngineRequiresClient(t *testing.T) {
	_, err := Build(context.Background(), testConfig("llm"), nil, Options{NewLLM: mockFactory(nil, errors.New("missing api key"))})
	assert.ErrorContains(t, err, "missing api key")
}

type closableLLM struct {
	llm.MockLLMClient
	closed int
}

func (c *closableLLM) Close() error {
	c.closed++
	return nil
}

func TestApp_CloseReleasesLLMClient(t *testing.T) {
	ctx := context.Background()
	client := &closableLLM{}

	a, err := Build(ctx, testConfig("rules"), nil, Options{NewLLM: mockFactory(client, nil)})
	require.NoError(t, err)
	assert.Same(t, client, a.LLM)

	require.NoError(t, a.Close(ctx))
	assert.Equal(t, 1, client.closed)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger("")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
