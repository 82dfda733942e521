package interpret

import (
	"context"

	"github.com/agenthands/actnexus/internal/core/model"
)

// Request is everything an interpreter needs to reconcile one minute.
// Instructions is the operator-editable prompt text; interpreters that do not
// use natural-language instructions ignore it.
type Request struct {
	MinuteText   string
	Profiles     []model.ClientProfile
	Instructions string
}

// Interpreter compares a minute against client profiles and returns a verdict
// that should honour the status taxonomy. Callers validate the result.
type Interpreter interface {
	Reconcile(ctx context.Context, req Request) (*model.ReconciliationReport, error)
}
