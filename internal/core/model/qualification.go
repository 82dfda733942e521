package model

// Qualification is the legal description block generated for one party.
type Qualification struct {
	Qualificacao string `json:"qualificacao"`
}
