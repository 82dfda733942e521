package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics, so "São Paulo" and "sao paulo"
// compare equal. Positions are not preserved.
func Fold(s string) string {
	// transform.Chain keeps state, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// FoldRunes folds a string rune by rune and keeps a one-to-one mapping with
// the input runes. Every rune of the result corresponds to the rune at the
// same index of []rune(s), which lets callers map match offsets back to the
// original text.
func FoldRunes(s string) []rune {
	in := []rune(s)
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = foldRune(r)
	}
	return out
}

func foldRune(r rune) rune {
	if r < unicode.MaxASCII {
		return unicode.ToLower(r)
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(t, string(r))
	if err != nil || s == "" {
		return unicode.ToLower(r)
	}
	base := []rune(s)
	return unicode.ToLower(base[0])
}

// Canonical folds s and collapses every run of punctuation and whitespace
// into a single space. "São Paulo, SP" and "São Paulo - SP" both become
// "sao paulo sp".
func Canonical(s string) string {
	folded := Fold(s)
	var b strings.Builder
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Digits keeps only the decimal digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SameName compares two party or label names ignoring case, accents and
// punctuation.
func SameName(a, b string) bool {
	return Canonical(a) == Canonical(b)
}
