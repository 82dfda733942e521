package matcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spanTexts(t *text, spans []span) []string {
	var out []string
	for _, s := range spans {
		out = append(out, strings.TrimSpace(t.original(s.start, s.end)))
	}
	return out
}

func TestText_OriginalKeepsAccents(t *testing.T) {
	tx := newText("João Conceição, São Paulo")
	assert.Equal(t, "joao conceicao, sao paulo", tx.fold)

	i := strings.Index(tx.fold, "conceicao")
	assert.Equal(t, "Conceição", tx.original(i, i+len("conceicao")))
}

func TestBuildLayout(t *testing.T) {
	tx := newText(twoParties)
	l := buildLayout(tx, []string{"Maria Silva", "João Souza", "Pedro Alves"})

	assert.Equal(t, []bool{true, true, false}, l.mentioned)
	require.Len(t, l.regions[0], 1)
	assert.True(t, strings.HasPrefix(spanTexts(tx, l.regions[0])[0], ", brasileira, casada"))
	assert.Contains(t, spanTexts(tx, l.regions[1])[0], "111.444.777-35")
	assert.Empty(t, l.regions[2])

	pool := spanTexts(tx, l.pool)
	assert.Contains(t, pool, "ESCRITURA PÚBLICA DE COMPRA E VENDA")
	assert.Contains(t, pool, "Ambos residentes e domiciliados na Rua das Flores, 123, São Paulo - SP.")
}

func TestBuildLayout_SharedParagraph(t *testing.T) {
	tx := newText("MARIA SILVA, brasileira, casada com JOÃO SOUZA, brasileiro, advogado.")
	l := buildLayout(tx, []string{"Maria Silva", "João Souza"})

	assert.Equal(t, []string{", brasileira, casada com"}, spanTexts(tx, l.regions[0]))
	assert.Equal(t, []string{", brasileiro, advogado."}, spanTexts(tx, l.regions[1]))
}

func TestFindMentions(t *testing.T) {
	tx := newText("Compareceram MARIA DA SILVA SANTOS e Maria Silva.")
	ms := findMentions(tx, []string{"Maria Silva", "Maria da Silva Santos"})

	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].client, "the longer name claims the first mention")
	assert.Equal(t, 0, ms[1].client)
}
