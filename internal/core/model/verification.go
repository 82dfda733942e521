package model

// Status is the verification outcome of one field. The set is closed.
type Status string

const (
	StatusOK        Status = "OK"
	StatusDivergent Status = "Divergente"
	StatusNotFound  Status = "Não Encontrado"
	StatusNew       Status = "Novo"
)

// Statuses lists every permitted Status value.
var Statuses = []Status{StatusOK, StatusDivergent, StatusNotFound, StatusNew}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// VerificationResult is one reconciled field. An empty ExpectedValue or
// FoundValue means the value is absent.
type VerificationResult struct {
	Label         string `json:"label" validate:"required"`
	ExpectedValue string `json:"expectedValue,omitempty"`
	FoundValue    string `json:"foundValue,omitempty"`
	Status        Status `json:"status" validate:"status"`
	Reasoning     string `json:"reasoning"`
}

type ClientVerification struct {
	ClientName    string               `json:"clientName" validate:"required"`
	Verifications []VerificationResult `json:"verifications" validate:"dive"`
}

// ReconciliationReport is the final output handed back to the caller.
type ReconciliationReport struct {
	Geral        []string             `json:"geral"`
	ClientChecks []ClientVerification `json:"clientChecks" validate:"dive"`
}

// NewEmptyReport builds the soft-failure report: one explanatory observation
// and no client checks.
func NewEmptyReport(reason string) *ReconciliationReport {
	return &ReconciliationReport{
		Geral:        []string{reason},
		ClientChecks: []ClientVerification{},
	}
}
