package profile

import (
	"fmt"
	"strings"

	"github.com/agenthands/actnexus/internal/core/common"
	"github.com/agenthands/actnexus/internal/core/model"
)

// Aggregate validates the profiles relevant to one minute and returns cleaned
// copies in the same order. The input slice is never modified.
//
// A profile must have a non-blank name; an empty field list is valid. Fields
// with a blank label or value carry nothing to compare and are dropped, and a
// field repeated with the same label and value is kept once.
func Aggregate(profiles []model.ClientProfile) ([]model.ClientProfile, error) {
	if len(profiles) == 0 {
		return nil, &model.InvalidInputError{Reason: "nenhum perfil de cliente informado"}
	}

	out := make([]model.ClientProfile, 0, len(profiles))
	seen := make(map[string]int, len(profiles))
	for i, p := range profiles {
		nome := strings.TrimSpace(p.Nome)
		if nome == "" {
			return nil, &model.InvalidInputError{Reason: fmt.Sprintf("perfil %d sem nome", i+1)}
		}
		key := common.Canonical(nome)
		if prev, dup := seen[key]; dup {
			return nil, &model.InvalidInputError{
				Reason: fmt.Sprintf("perfis %d e %d têm o mesmo nome %q", prev+1, i+1, nome),
			}
		}
		seen[key] = i

		out = append(out, model.ClientProfile{
			Nome:            nome,
			DadosAdicionais: dedupeFields(p.DadosAdicionais),
		})
	}
	return out, nil
}

func dedupeFields(fields []model.LabeledField) []model.LabeledField {
	out := make([]model.LabeledField, 0, len(fields))
	seen := make(map[[2]string]bool, len(fields))
	for _, f := range fields {
		label := strings.TrimSpace(f.Label)
		value := strings.TrimSpace(f.Value)
		if label == "" || value == "" {
			continue
		}
		key := [2]string{common.Canonical(label), common.Canonical(value)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.LabeledField{Label: label, Value: value})
	}
	return out
}

// FindField returns the field of p whose label matches label exactly, or
// failing that, after folding case, accents and punctuation.
func FindField(p model.ClientProfile, label string) (model.LabeledField, bool) {
	for _, f := range p.DadosAdicionais {
		if f.Label == label {
			return f, true
		}
	}
	for _, f := range p.DadosAdicionais {
		if common.SameName(f.Label, label) {
			return f, true
		}
	}
	return model.LabeledField{}, false
}
