package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/core/common"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/llm"
)

// DefaultInstructions is used when no prompt text is supplied.
const DefaultInstructions = `Você é um assistente de conferência de minutas de um tabelionato de notas.
Compare a minuta com o perfil cadastral de cada cliente, campo a campo, e aponte divergências
e dados novos.`

// schemaContract is appended to every prompt. Operators can reword the
// instructions but not the output format.
const schemaContract = `Classifique cada campo de cada perfil com exatamente um destes status:
- "OK": o valor da minuta é idêntico ou semanticamente equivalente ao do perfil.
- "Divergente": a minuta traz um valor diferente; informe-o em foundValue e explique em reasoning.
- "Não Encontrado": a minuta não menciona o campo; não preencha foundValue.
- "Novo": a minuta traz um dado de qualificação (RG, profissão, estado civil, endereço etc.)
  que não existe no perfil; não preencha expectedValue e informe o valor em foundValue.
Observações que não pertencem a um campo específico vão em "geral".
Use em clientName exatamente o nome do perfil e em label exatamente o rótulo do perfil.

Responda apenas com um objeto JSON neste formato:
{
  "geral": ["..."],
  "clientChecks": [
    {
      "clientName": "...",
      "verifications": [
        {"label": "...", "expectedValue": "...", "foundValue": "...", "status": "OK|Divergente|Não Encontrado|Novo", "reasoning": "..."}
      ]
    }
  ]
}`

// LLMAdapter delegates reconciliation to a language model.
type LLMAdapter struct {
	LLM     llm.LLMClient
	Timeout time.Duration
	logger  *zap.Logger
}

func NewLLMAdapter(client llm.LLMClient, timeout time.Duration, logger *zap.Logger) *LLMAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMAdapter{LLM: client, Timeout: timeout, logger: logger}
}

// verdict mirrors the JSON the model is asked to produce. Status is kept as a
// plain string so near-miss spellings can be normalised before validation.
type verdict struct {
	Geral        []string `json:"geral"`
	ClientChecks []struct {
		ClientName    string `json:"clientName"`
		Verifications []struct {
			Label         string `json:"label"`
			ExpectedValue string `json:"expectedValue"`
			FoundValue    string `json:"foundValue"`
			Status        string `json:"status"`
			Reasoning     string `json:"reasoning"`
		} `json:"verifications"`
	} `json:"clientChecks"`
}

func (a *LLMAdapter) Reconcile(ctx context.Context, req Request) (*model.ReconciliationReport, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, &model.ExternalInterpretationError{Cause: err}
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	start := time.Now()
	completion, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("interpretation call failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, &model.ExternalInterpretationError{Cause: fmt.Errorf("failed to generate verdict: %w", err)}
	}

	v, err := common.ParseJSON[verdict](completion.Text)
	if err != nil {
		return nil, &model.ExternalInterpretationError{Cause: fmt.Errorf("failed to parse verdict: %w", err)}
	}

	a.logger.Debug("verdict received",
		zap.String("model", completion.Model),
		zap.Int("clients", len(v.ClientChecks)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return v.report(), nil
}

func (v verdict) report() *model.ReconciliationReport {
	r := &model.ReconciliationReport{
		Geral:        []string{},
		ClientChecks: make([]model.ClientVerification, 0, len(v.ClientChecks)),
	}
	for _, g := range v.Geral {
		if g = strings.TrimSpace(g); g != "" {
			r.Geral = append(r.Geral, g)
		}
	}
	for _, cc := range v.ClientChecks {
		out := model.ClientVerification{
			ClientName:    strings.TrimSpace(cc.ClientName),
			Verifications: make([]model.VerificationResult, 0, len(cc.Verifications)),
		}
		for _, vr := range cc.Verifications {
			out.Verifications = append(out.Verifications, model.VerificationResult{
				Label:         strings.TrimSpace(vr.Label),
				ExpectedValue: strings.TrimSpace(vr.ExpectedValue),
				FoundValue:    strings.TrimSpace(vr.FoundValue),
				Status:        normalizeStatus(vr.Status),
				Reasoning:     strings.TrimSpace(vr.Reasoning),
			})
		}
		r.ClientChecks = append(r.ClientChecks, out)
	}
	return r
}

// normalizeStatus maps spellings such as "nao encontrado" or "DIVERGENTE" to
// the canonical status. Anything else is returned verbatim and rejected later.
func normalizeStatus(s string) model.Status {
	key := common.Canonical(s)
	for _, st := range model.Statuses {
		if common.Canonical(string(st)) == key {
			return st
		}
	}
	return model.Status(s)
}

// BuildPrompt renders instructions, the output contract, the minute and the
// profiles into one prompt.
func BuildPrompt(req Request) (string, error) {
	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" {
		instructions = DefaultInstructions
	}

	profiles, err := json.MarshalIndent(req.Profiles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profiles: %w", err)
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n")
	b.WriteString(schemaContract)
	b.WriteString("\n\nMINUTA:\n<<<\n")
	b.WriteString(req.MinuteText)
	b.WriteString("\n>>>\n\nPERFIS DOS CLIENTES:\n")
	b.Write(profiles)
	b.WriteString("\n")
	return b.String(), nil
}
