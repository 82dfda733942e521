package telemetry

import (
	"regexp"
	"strings"
)

// Applied in order; document numbers go before the CEP pattern.
var redactions = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`), "[CPF]"},
	{regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`), "[CNPJ]"},
	{regexp.MustCompile(`\b\d{1,2}\.\d{3}\.\d{3}-[\dXx]\b`), "[RG]"},
	{regexp.MustCompile(`\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{4}\b`), "[CARTAO]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL]"},
	{regexp.MustCompile(`\b\d{5}-?\d{3}\b`), "[CEP]"},
}

// Sanitize replaces personal identifiers with placeholders.
func Sanitize(s string) string {
	for _, r := range redactions {
		s = r.re.ReplaceAllString(s, r.with)
	}
	return s
}

// Excerpt returns at most n runes of the redacted prompt.
func Excerpt(prompt string, n int) string {
	s := Sanitize(strings.TrimSpace(prompt))
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
