package reconcile

import (
	"fmt"

	"github.com/agenthands/actnexus/internal/core/model"
)

const noteOmittedClient = "A conferência não retornou resultados para '%s'."

// compose builds the final report from a validated verdict: one entry per
// profile in input order, repeated entries for a client merged, and an empty
// entry for every client the interpreter left out. names are the client names
// exactly as the caller supplied them.
func compose(verdict *model.ReconciliationReport, profiles []model.ClientProfile, names []string) *model.ReconciliationReport {
	index := make(map[string]int, len(profiles))
	for i, p := range profiles {
		index[p.Nome] = i
	}

	rows := make([][]model.VerificationResult, len(profiles))
	seen := make([]bool, len(profiles))
	for _, cc := range verdict.ClientChecks {
		i, ok := index[cc.ClientName]
		if !ok {
			continue
		}
		seen[i] = true
		rows[i] = appendUnique(rows[i], cc.Verifications)
	}

	report := &model.ReconciliationReport{
		Geral:        append([]string{}, verdict.Geral...),
		ClientChecks: make([]model.ClientVerification, len(profiles)),
	}
	for i := range profiles {
		if !seen[i] {
			report.Geral = append(report.Geral, fmt.Sprintf(noteOmittedClient, names[i]))
		}
		v := rows[i]
		if v == nil {
			v = []model.VerificationResult{}
		}
		report.ClientChecks[i] = model.ClientVerification{ClientName: names[i], Verifications: v}
	}
	return report
}

func appendUnique(dst, src []model.VerificationResult) []model.VerificationResult {
	for _, v := range src {
		dup := false
		for _, d := range dst {
			if d == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
