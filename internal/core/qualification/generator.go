package qualification

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/config"
	"github.com/agenthands/actnexus/internal/core/common"
	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/llm"
)

// DefaultTemplate takes the party name and its "- Label: Value" lines.
const DefaultTemplate = `Você redige qualificações de partes para atos notariais.
Escreva, em um único parágrafo e no padrão de escrituras públicas brasileiras, a qualificação
completa da parte abaixo usando somente os dados fornecidos. Não invente dados ausentes.
Responda apenas com JSON no formato {"qualificacao": "<texto>"}.

Parte: %s
Dados:
%s`

// PromptSource resolves operator-editable prompt templates by key.
type PromptSource interface {
	Get(ctx context.Context, key string) (string, error)
}

// Generator writes the qualification paragraph of a party from its profile.
type Generator struct {
	LLM      llm.LLMClient
	Prompts  PromptSource
	Template string // used when Prompts is nil or fails; DefaultTemplate when empty
	logger   *zap.Logger
}

func NewGenerator(client llm.LLMClient, prompts PromptSource, template string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{LLM: client, Prompts: prompts, Template: template, logger: logger}
}

func (g *Generator) Generate(ctx context.Context, p model.ClientProfile) (string, error) {
	nome := strings.TrimSpace(p.Nome)
	if nome == "" {
		return "", &model.InvalidInputError{Reason: "perfil sem nome"}
	}

	var fields strings.Builder
	for _, f := range p.DadosAdicionais {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		fmt.Fprintf(&fields, "- %s: %s\n", strings.TrimSpace(f.Label), strings.TrimSpace(f.Value))
	}
	if fields.Len() == 0 {
		fields.WriteString("(nenhum dado cadastrado)\n")
	}

	prompt := fmt.Sprintf(g.template(ctx), nome, fields.String())

	completion, err := g.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", &model.ExternalInterpretationError{Cause: fmt.Errorf("failed to generate qualification: %w", err)}
	}

	result, err := common.ParseJSON[model.Qualification](completion.Text)
	if err == nil && strings.TrimSpace(result.Qualificacao) != "" {
		return strings.TrimSpace(result.Qualificacao), nil
	}

	// Some models answer with the bare paragraph.
	text := strings.TrimSpace(completion.Text)
	if text != "" && !strings.ContainsAny(text, "{}") {
		return text, nil
	}
	if err == nil {
		err = fmt.Errorf("empty qualification")
	}
	return "", &model.ExternalInterpretationError{Cause: fmt.Errorf("failed to parse qualification: %w", err)}
}

// template returns a prompt with exactly two %s verbs: name, then fields.
func (g *Generator) template(ctx context.Context) string {
	tmpl := g.Template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	if g.Prompts != nil {
		text, err := g.Prompts.Get(ctx, config.PromptQualification)
		if err != nil {
			g.logger.Warn("using default qualification prompt", zap.Error(err))
		} else if strings.TrimSpace(text) != "" {
			tmpl = text
		}
	}
	if strings.Count(tmpl, "%s") != 2 {
		tmpl = strings.ReplaceAll(tmpl, "%", "%%") + "\n\nParte: %s\nDados:\n%s\nResponda apenas com JSON no formato {\"qualificacao\": \"<texto>\"}."
	}
	return tmpl
}
