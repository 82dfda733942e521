// Package matcher is a rule-based reconciliation engine. It locates
// qualification data in a minute with label and vocabulary rules and compares
// it with each client profile, without calling any external service.
package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/core/common"
	"github.com/agenthands/actnexus/internal/core/interpret"
	"github.com/agenthands/actnexus/internal/core/model"
)

const (
	reasonFound      = "Valor confere com o cadastro."
	reasonEquivalent = "Valor equivalente ao cadastro; a minuta grafa %q."
	reasonDivergent  = "A minuta informa %q, mas o cadastro registra %q."
	reasonNotFound   = "Campo não localizado na minuta."
	reasonNew        = "Dado presente na minuta e ausente do cadastro."
	noteCheckDigits  = "O número encontrado tem dígitos verificadores inválidos."
	noteAmbiguous    = "Atribuição ambígua: o dado está em trecho não vinculado a uma única parte e foi considerado para todas as partes sem esse dado."
	noteNotMentioned = "A parte '%s' não foi localizada no texto da minuta."
	noteSharedValue  = "O %s %s aparece na qualificação de mais de uma parte: %s."
)

// Matcher implements interpret.Interpreter with deterministic rules. It keeps
// no state between calls and is safe for concurrent use.
type Matcher struct {
	logger *zap.Logger
}

var _ interpret.Interpreter = (*Matcher)(nil)

func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// run holds the state of one reconciliation.
type run struct {
	x      *extractor
	layout *layout
	kinds  *kindSet
	multi  bool
	shared map[*kind]map[string]*sharedValue
}

type sharedValue struct {
	value   string
	clients []string
}

func (m *Matcher) Reconcile(ctx context.Context, req interpret.Request) (*model.ReconciliationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := make([]string, len(req.Profiles))
	var labels []string
	for i, p := range req.Profiles {
		names[i] = p.Nome
		for _, f := range p.DadosAdicionais {
			labels = append(labels, f.Label)
		}
	}

	t := newText(req.MinuteText)
	ks := newKindSet(labels)
	r := &run{
		x:      newExtractor(t, ks),
		layout: buildLayout(t, names),
		kinds:  ks,
		multi:  len(req.Profiles) > 1,
		shared: map[*kind]map[string]*sharedValue{},
	}

	report := &model.ReconciliationReport{
		Geral:        []string{},
		ClientChecks: make([]model.ClientVerification, 0, len(req.Profiles)),
	}
	for i, p := range req.Profiles {
		if !r.layout.mentioned[i] {
			report.Geral = append(report.Geral, fmt.Sprintf(noteNotMentioned, p.Nome))
		}
		report.ClientChecks = append(report.ClientChecks, model.ClientVerification{
			ClientName:    p.Nome,
			Verifications: r.verifyClient(i, p),
		})
	}
	report.Geral = append(report.Geral, r.sharedNotes()...)

	m.logger.Debug("minute matched",
		zap.Int("clients", len(req.Profiles)),
		zap.Int("labels", len(r.x.hits)),
		zap.Int("observations", len(report.Geral)),
	)
	return report, nil
}

func (r *run) verifyClient(client int, p model.ClientProfile) []model.VerificationResult {
	rows := make([]model.VerificationResult, 0, len(p.DadosAdicionais))
	present := map[*kind]bool{}

	for _, f := range p.DadosAdicionais {
		k := r.kinds.lookup(f.Label)
		if k == nil {
			continue
		}
		present[k] = true
		rows = append(rows, r.verifyField(client, p.Nome, f, k))
	}

	for _, k := range catalog {
		if present[k] {
			continue
		}
		cands, ambiguous := r.locate(client, k)
		if len(cands) == 0 {
			continue
		}
		row := model.VerificationResult{
			Label:      k.label,
			FoundValue: cands[0].value,
			Status:     model.StatusNew,
			Reasoning:  reasonNew,
		}
		row.Reasoning = r.annotate(row.Reasoning, k, p.Nome, row.FoundValue, ambiguous)
		rows = append(rows, row)
	}
	return rows
}

func (r *run) verifyField(client int, nome string, f model.LabeledField, k *kind) model.VerificationResult {
	row := model.VerificationResult{Label: f.Label, ExpectedValue: f.Value}

	cands, ambiguous := r.locate(client, k)
	if len(cands) == 0 {
		row.Status = model.StatusNotFound
		row.Reasoning = reasonNotFound
		return row
	}

	match := -1
	for i, c := range cands {
		if k.equal(c.value, f.Value) {
			match = i
			break
		}
	}
	switch {
	case match >= 0:
		row.Status = model.StatusOK
		row.FoundValue = cands[match].value
		row.Reasoning = reasonFound
		if row.FoundValue != f.Value {
			row.Reasoning = fmt.Sprintf(reasonEquivalent, row.FoundValue)
		}
	default:
		row.Status = model.StatusDivergent
		row.FoundValue = cands[0].value
		row.Reasoning = fmt.Sprintf(reasonDivergent, row.FoundValue, f.Value)
	}
	row.Reasoning = r.annotate(row.Reasoning, k, nome, row.FoundValue, ambiguous)
	return row
}

// locate searches the client's own text first and falls back to labelled
// values in the shared pool. Pool values are ambiguous when several parties
// could own them.
func (r *run) locate(client int, k *kind) ([]candidate, bool) {
	if cands := r.x.find(k, r.layout.regions[client], false); len(cands) > 0 {
		return cands, false
	}
	if len(r.layout.pool) == 0 {
		return nil, false
	}
	cands := r.x.find(k, r.layout.pool, true)
	return cands, len(cands) > 0 && r.multi
}

func (r *run) annotate(reasoning string, k *kind, nome, found string, ambiguous bool) string {
	var notes []string
	if k.valid != nil && found != "" && !k.valid(found) {
		notes = append(notes, noteCheckDigits)
	}
	if ambiguous {
		notes = append(notes, noteAmbiguous)
	}
	if k.unique && found != "" && !ambiguous {
		r.recordShared(k, nome, found)
	}
	if len(notes) == 0 {
		return reasoning
	}
	return reasoning + " " + strings.Join(notes, " ")
}

func (r *run) recordShared(k *kind, nome, found string) {
	key := common.Digits(found)
	if key == "" {
		key = common.Canonical(found)
	}
	byValue := r.shared[k]
	if byValue == nil {
		byValue = map[string]*sharedValue{}
		r.shared[k] = byValue
	}
	sv := byValue[key]
	if sv == nil {
		sv = &sharedValue{value: found}
		byValue[key] = sv
	}
	for _, c := range sv.clients {
		if c == nome {
			return
		}
	}
	sv.clients = append(sv.clients, nome)
}

// sharedNotes reports identity numbers attributed to more than one party.
func (r *run) sharedNotes() []string {
	var notes []string
	for _, k := range catalog {
		byValue := r.shared[k]
		keys := make([]string, 0, len(byValue))
		for key := range byValue {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			sv := byValue[key]
			if len(sv.clients) > 1 {
				notes = append(notes, fmt.Sprintf(noteSharedValue, k.label, sv.value, strings.Join(sv.clients, ", ")))
			}
		}
	}
	return notes
}
