package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "sao paulo", Fold("São Paulo"))
	assert.Equal(t, "profissao: engenheiro", Fold("PROFISSÃO: Engenheiro"))
	assert.Equal(t, "joao conceicao", Fold("João Conceição"))
}

func TestFoldRunesKeepsLength(t *testing.T) {
	in := "Estado Civil: CASADA, residente à Rua São João"
	out := FoldRunes(in)
	assert.Len(t, out, len([]rune(in)))
	assert.Equal(t, "estado civil: casada, residente a rua sao joao", string(out))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, Canonical("São Paulo, SP"), Canonical("São Paulo - SP"))
	assert.Equal(t, "rua das flores 100", Canonical("  Rua das Flores,   100. "))
	assert.Equal(t, "", Canonical(" - , . "))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "11122233344", Digits("111.222.333-44"))
	assert.Equal(t, "", Digits("sem numero"))
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Maria da Conceição", "MARIA DA CONCEICAO"))
	assert.False(t, SameName("Maria Silva", "Maria Souza"))
}
