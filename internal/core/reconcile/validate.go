package reconcile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agenthands/actnexus/internal/core/common"
	"github.com/agenthands/actnexus/internal/core/model"
)

var verdictValidator = newVerdictValidator()

func newVerdictValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return model.Status(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(statusRules, model.VerificationResult{})
	return v
}

// statusRules enforces which values each status must or must not carry.
func statusRules(sl validator.StructLevel) {
	v := sl.Current().Interface().(model.VerificationResult)
	require := func(value, name, field string) {
		if value == "" {
			sl.ReportError(value, name, field, "required_for_status", string(v.Status))
		}
	}
	exclude := func(value, name, field string) {
		if value != "" {
			sl.ReportError(value, name, field, "excluded_for_status", string(v.Status))
		}
	}

	switch v.Status {
	case model.StatusOK:
		require(v.ExpectedValue, "expectedValue", "ExpectedValue")
	case model.StatusDivergent:
		require(v.ExpectedValue, "expectedValue", "ExpectedValue")
		require(v.FoundValue, "foundValue", "FoundValue")
		// The discrepancy must be explained to the reviewer.
		require(strings.TrimSpace(v.Reasoning), "reasoning", "Reasoning")
		if v.FoundValue != "" && v.FoundValue == v.ExpectedValue {
			sl.ReportError(v.FoundValue, "foundValue", "FoundValue", "nefield", "expectedValue")
		}
	case model.StatusNotFound:
		require(v.ExpectedValue, "expectedValue", "ExpectedValue")
		exclude(v.FoundValue, "foundValue", "FoundValue")
	case model.StatusNew:
		exclude(v.ExpectedValue, "expectedValue", "ExpectedValue")
		require(v.FoundValue, "foundValue", "FoundValue")
	}
}

// Validate checks an interpreter verdict against the status contract and the
// profiles it was produced for. On success it returns a normalised copy where
// client names and labels are those of the profiles and every expected value
// comes from the matching profile field.
func Validate(verdict *model.ReconciliationReport, profiles []model.ClientProfile) (*model.ReconciliationReport, error) {
	if verdict == nil {
		return nil, &model.SchemaViolationError{Violations: []string{"verdict is empty"}}
	}

	var violations []string
	out := &model.ReconciliationReport{
		Geral:        cleanGeral(verdict.Geral),
		ClientChecks: make([]model.ClientVerification, 0, len(verdict.ClientChecks)),
	}
	for i, cc := range verdict.ClientChecks {
		norm := model.ClientVerification{
			ClientName:    cc.ClientName,
			Verifications: make([]model.VerificationResult, 0, len(cc.Verifications)),
		}
		p, ok := matchProfile(profiles, cc.ClientName)
		if !ok {
			violations = append(violations, fmt.Sprintf("clientChecks[%d]: unknown client %q", i, cc.ClientName))
		} else {
			norm.ClientName = p.Nome
		}
		for j, v := range cc.Verifications {
			if ok {
				var msg string
				if v, msg = normaliseRow(v, p); msg != "" {
					violations = append(violations, fmt.Sprintf("clientChecks[%d].verifications[%d]: %s", i, j, msg))
				}
			}
			norm.Verifications = append(norm.Verifications, v)
		}
		out.ClientChecks = append(out.ClientChecks, norm)
	}

	if err := verdictValidator.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			violations = append(violations, describe(verrs)...)
		} else {
			violations = append(violations, err.Error())
		}
	}

	if len(violations) > 0 {
		return nil, &model.SchemaViolationError{Violations: violations}
	}
	return out, nil
}

func normaliseRow(v model.VerificationResult, p model.ClientProfile) (model.VerificationResult, string) {
	v.Label = strings.TrimSpace(v.Label)
	if v.Label == "" || !v.Status.Valid() {
		return v, "" // reported by the struct rules
	}

	f, found := profileField(p, v.Label, v.ExpectedValue)
	if v.Status == model.StatusNew {
		if found {
			return v, fmt.Sprintf("label %q is reported as %s but exists in the profile of %q", v.Label, v.Status, p.Nome)
		}
		return v, ""
	}
	if !found {
		return v, fmt.Sprintf("label %q has no counterpart in the profile of %q", v.Label, p.Nome)
	}
	v.Label = f.Label
	v.ExpectedValue = f.Value
	return v, ""
}

// profileField finds the profile field for label, exact match first. When a
// label repeats, the field whose value matches expected is preferred.
func profileField(p model.ClientProfile, label, expected string) (model.LabeledField, bool) {
	var matches []model.LabeledField
	for _, f := range p.DadosAdicionais {
		if f.Label == label {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		for _, f := range p.DadosAdicionais {
			if common.SameName(f.Label, label) {
				matches = append(matches, f)
			}
		}
	}
	if len(matches) == 0 {
		return model.LabeledField{}, false
	}
	for _, f := range matches {
		if common.Canonical(f.Value) == common.Canonical(expected) {
			return f, true
		}
	}
	return matches[0], true
}

func matchProfile(profiles []model.ClientProfile, name string) (model.ClientProfile, bool) {
	name = strings.TrimSpace(name)
	for _, p := range profiles {
		if p.Nome == name {
			return p, true
		}
	}
	for _, p := range profiles {
		if common.SameName(p.Nome, name) {
			return p, true
		}
	}
	return model.ClientProfile{}, false
}

func cleanGeral(in []string) []string {
	out := make([]string, 0, len(in))
	for _, g := range in {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

func describe(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		msg := ns + ": " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out = append(out, msg)
	}
	return out
}
