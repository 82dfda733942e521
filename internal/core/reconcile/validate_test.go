package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/actnexus/internal/core/model"
)

func TestValidate_RepeatedLabelKeepsMatchingValue(t *testing.T) {
	profiles := []model.ClientProfile{{
		Nome: "Maria Silva",
		DadosAdicionais: []model.LabeledField{
			{Label: "Endereço", Value: "Rua A, 1"},
			{Label: "Endereço", Value: "Rua B, 2"},
		},
	}}
	verdict := &model.ReconciliationReport{
		Geral: []string{" ", "ok"},
		ClientChecks: []model.ClientVerification{{
			ClientName: "MARIA SILVA",
			Verifications: []model.VerificationResult{
				{Label: "endereco", ExpectedValue: "rua b 2", Status: model.StatusNotFound},
			},
		}},
	}

	out, err := Validate(verdict, profiles)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, out.Geral)
	assert.Equal(t, "Maria Silva", out.ClientChecks[0].ClientName)

	v := out.ClientChecks[0].Verifications[0]
	assert.Equal(t, "Endereço", v.Label)
	assert.Equal(t, "Rua B, 2", v.ExpectedValue)

	// The verdict itself is left untouched.
	assert.Equal(t, "endereco", verdict.ClientChecks[0].Verifications[0].Label)
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	profiles := []model.ClientProfile{{Nome: "Maria Silva", DadosAdicionais: []model.LabeledField{{Label: "CPF", Value: "1"}}}}
	verdict := &model.ReconciliationReport{ClientChecks: []model.ClientVerification{
		{ClientName: "Maria Silva", Verifications: []model.VerificationResult{
			{Label: "CPF", Status: model.StatusDivergent},
			{Label: "Profissão", Status: model.StatusNew},
		}},
		{ClientName: "Outro"},
	}}

	_, err := Validate(verdict, profiles)
	var schema *model.SchemaViolationError
	require.ErrorAs(t, err, &schema)
	assert.Len(t, schema.Violations, 4)
}

func TestValidate_DivergentNeedsReasoning(t *testing.T) {
	profiles := []model.ClientProfile{{Nome: "Maria Silva", DadosAdicionais: []model.LabeledField{{Label: "CPF", Value: "111.222.333-44"}}}}
	row := model.VerificationResult{Label: "CPF", FoundValue: "999.999.999-99", Status: model.StatusDivergent, Reasoning: "  "}
	verdict := &model.ReconciliationReport{ClientChecks: []model.ClientVerification{
		{ClientName: "Maria Silva", Verifications: []model.VerificationResult{row}},
	}}

	_, err := Validate(verdict, profiles)
	var schema *model.SchemaViolationError
	require.ErrorAs(t, err, &schema)
	assert.Contains(t, schema.Error(), "reasoning: required_for_status")

	verdict.ClientChecks[0].Verifications[0].Reasoning = "A minuta traz outro CPF."
	out, err := Validate(verdict, profiles)
	require.NoError(t, err)
	assert.Equal(t, "111.222.333-44", out.ClientChecks[0].Verifications[0].ExpectedValue)
}
