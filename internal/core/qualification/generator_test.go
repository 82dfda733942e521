package qualification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/llm"
)

type stubPrompts struct {
	text string
	err  error
	keys []string
}

func (s *stubPrompts) Get(ctx context.Context, key string) (string, error) {
	s.keys = append(s.keys, key)
	return s.text, s.err
}

var ana = model.ClientProfile{
	Nome: "Ana Lima",
	DadosAdicionais: []model.LabeledField{
		{Label: "Nacionalidade", Value: "brasileira"},
		{Label: "CPF", Value: "529.982.247-25"},
		{Label: "RG", Value: " "},
	},
}

func TestGenerate(t *testing.T) {
	mockLLM := &llm.MockLLMClient{
		Response: `{"qualificacao": "ANA LIMA, brasileira, inscrita no CPF sob nº 529.982.247-25."}`,
	}
	prompts := &stubPrompts{text: "Qualifique %s com os dados:\n%s"}
	g := NewGenerator(mockLLM, prompts, "unused %s %s", nil)

	text, err := g.Generate(context.Background(), ana)
	require.NoError(t, err)
	assert.Equal(t, "ANA LIMA, brasileira, inscrita no CPF sob nº 529.982.247-25.", text)

	assert.Equal(t, []string{config.PromptQualification}, prompts.keys)
	prompt := mockLLM.Prompts[0]
	assert.Contains(t, prompt, "Qualifique Ana Lima com os dados:")
	assert.Contains(t, prompt, "- CPF: 529.982.247-25")
	assert.NotContains(t, prompt, "- RG:")
}

func TestGenerate_TemplateFallbacks(t *testing.T) {
	mockLLM := &llm.MockLLMClient{Response: `{"qualificacao": "ok"}`}

	g := NewGenerator(mockLLM, &stubPrompts{err: errors.New("no such table")}, "Padrão %s / %s", nil)
	_, err := g.Generate(context.Background(), ana)
	require.NoError(t, err)
	assert.Contains(t, mockLLM.Prompts[0], "Padrão Ana Lima / ")

	// A template without the two verbs still gets the party data appended.
	g = NewGenerator(mockLLM, &stubPrompts{text: "Redija a qualificação com 100% de fidelidade."}, "", nil)
	_, err = g.Generate(context.Background(), ana)
	require.NoError(t, err)
	assert.Contains(t, mockLLM.Prompts[1], "100% de fidelidade")
	assert.Contains(t, mockLLM.Prompts[1], "Parte: Ana Lima")
}

func TestGenerate_PlainTextAnswer(t *testing.T) {
	g := NewGenerator(&llm.MockLLMClient{Response: "  ANA LIMA, brasileira.  "}, nil, "%s %s", nil)
	text, err := g.Generate(context.Background(), ana)
	require.NoError(t, err)
	assert.Equal(t, "ANA LIMA, brasileira.", text)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := NewGenerator(&llm.MockLLMClient{}, nil, "%s %s", nil).Generate(context.Background(), model.ClientProfile{Nome: " "})
	var invalid *model.InvalidInputError
	assert.ErrorAs(t, err, &invalid)

	upstream := errors.New("timeout")
	_, err = NewGenerator(&llm.MockLLMClient{Err: upstream}, nil, "%s %s", nil).Generate(context.Background(), ana)
	var ext *model.ExternalInterpretationError
	assert.ErrorAs(t, err, &ext)
	assert.ErrorIs(t, err, upstream)

	_, err = NewGenerator(&llm.MockLLMClient{Response: `{"qualificacao": ""}`}, nil, "%s %s", nil).Generate(context.Background(), ana)
	assert.ErrorAs(t, err, &ext)

	_, err = NewGenerator(&llm.MockLLMClient{Response: `{"qualificacao": `}, nil, "%s %s", nil).Generate(context.Background(), ana)
	assert.ErrorAs(t, err, &ext)
}
