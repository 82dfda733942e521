package model

// LabeledField is one atomic attribute of a client, e.g. "CPF" -> "111.222.333-44".
type LabeledField struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value"`
}

// ClientProfile is the registry data of one person or entity and the source of
// truth for its qualification fields.
type ClientProfile struct {
	Nome            string         `json:"nome" validate:"required"`
	DadosAdicionais []LabeledField `json:"dadosAdicionais"`
}

// Clone returns a deep copy so callers' profiles are never mutated.
func (p ClientProfile) Clone() ClientProfile {
	fields := make([]LabeledField, len(p.DadosAdicionais))
	copy(fields, p.DadosAdicionais)
	return ClientProfile{Nome: p.Nome, DadosAdicionais: fields}
}

// ReconciliationRequest is the input contract of the reconciliation endpoints.
type ReconciliationRequest struct {
	MinuteText     string          `json:"minuteText"`
	ClientProfiles []ClientProfile `json:"clientProfiles"`
}

// PartiesRequest asks for reconciliation against profiles resolved by name.
type PartiesRequest struct {
	MinuteText  string   `json:"minuteText"`
	ClientNames []string `json:"clientNames"`
}
