package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEquivalence(t *testing.T) {
	tests := []struct {
		name     string
		equal    equalFunc
		found    string
		expected string
		want     bool
	}{
		{"city punctuation", sameText, "São Paulo, SP", "São Paulo - SP", true},
		{"address abbreviations", sameText, "Av. Paulista, nº 1000", "Avenida Paulista, 1000", true},
		{"different street", sameText, "Rua A, 1", "Rua B, 1", false},
		{"formatted digits", sameDigits, "111.222.333-44", "11122233344", true},
		{"different digits", sameDigits, "111.222.333-44", "111.222.333-45", false},
		{"dmy vs iso", sameDate, "12/03/1980", "1980-03-12", true},
		{"written date", sameDate, "12 de março de 1980", "12/03/1980", true},
		{"dashed date", sameDate, "12-03-1980", "12/03/1980", true},
		{"different day", sameDate, "12/03/1980", "13/03/1980", false},
		{"impossible date", sameDate, "31/02/1980", "28/02/1980", false},
		{"gender", sameGendered, "Brasileira", "brasileiro", true},
		{"other profession", sameGendered, "Engenheiro", "Advogado", false},
		{"marital with suffix", sameMaritalStatus, "casada", "Casado(a)", true},
		{"separated", sameMaritalStatus, "separada judicialmente", "Separado", true},
		{"stable union", sameMaritalStatus, "convivente", "União Estável", true},
		{"single vs married", sameMaritalStatus, "Solteira", "casada", false},
		{"phone with country code", samePhone, "+55 11 98765-4321", "(11) 98765-4321", true},
		{"phone without area code", samePhone, "98765-4321", "(11) 98765-4321", true},
		{"different phone", samePhone, "(11) 98765-4321", "(11) 91234-5678", false},
		{"property regime", samePropertyRegime, "comunhão parcial de bens", "Comunhão Parcial", true},
		{"other regime", samePropertyRegime, "separação total de bens", "Comunhão Parcial", false},
		{"email case", sameEmail, "Maria@Exemplo.com.br", "maria@exemplo.com.br", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.equal(tt.found, tt.expected))
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(1980, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"01/03/1980", "1/3/1980", "1980-03-01", "1º de março de 1980", "01.03.1980"} {
		got, ok := parseDate(s)
		if assert.True(t, ok, s) {
			assert.True(t, want.Equal(got), s)
		}
	}

	_, ok := parseDate("em março")
	assert.False(t, ok)
}

func TestCheckDigits(t *testing.T) {
	assert.True(t, validCPF("529.982.247-25"))
	assert.True(t, validCPF("11144477735"))
	assert.False(t, validCPF("111.222.333-44"))
	assert.False(t, validCPF("111.111.111-11"))
	assert.False(t, validCPF("123"))

	assert.True(t, validCNPJ("11.222.333/0001-81"))
	assert.False(t, validCNPJ("11.222.333/0001-82"))
	assert.False(t, validCNPJ("00.000.000/0000-00"))
}
