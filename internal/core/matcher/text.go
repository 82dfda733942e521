package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/actnexus/internal/core/common"
)

// span is a half-open byte range of the folded text.
type span struct {
	start, end int
}

func (s span) contains(pos int) bool {
	return pos >= s.start && pos < s.end
}

// text is a minute in two forms: the original runes and a folded string
// (lowercase, no diacritics) with exactly one folded rune per original rune.
// All matching happens on the folded form; values are reported from the
// original.
type text struct {
	orig   []rune
	fold   string
	runeAt []int // folded byte offset -> rune index
}

func newText(s string) *text {
	orig := []rune(s)
	folded := common.FoldRunes(s)
	fold := string(folded)

	runeAt := make([]int, len(fold)+1)
	b := 0
	for i, r := range folded {
		n := utf8.RuneLen(r)
		if n < 0 {
			n = utf8.RuneLen(utf8.RuneError)
		}
		for k := 0; k < n && b+k < len(fold); k++ {
			runeAt[b+k] = i
		}
		b += n
	}
	runeAt[len(fold)] = len(orig)
	return &text{orig: orig, fold: fold, runeAt: runeAt}
}

// original returns the source text behind a folded byte range.
func (t *text) original(start, end int) string {
	return string(t.orig[t.runeAt[start]:t.runeAt[end]])
}

// paragraphs splits the text on line breaks.
func (t *text) paragraphs() []span {
	var out []span
	start := 0
	for i := 0; i <= len(t.fold); i++ {
		if i == len(t.fold) || t.fold[i] == '\n' {
			if strings.TrimSpace(t.fold[start:i]) != "" {
				out = append(out, span{start, i})
			}
			start = i + 1
		}
	}
	return out
}

// abbreviations never end a sentence when followed by a period.
var abbreviations = map[string]bool{
	"av": true, "r": true, "n": true, "no": true, "dr": true, "dra": true,
	"sr": true, "sra": true, "apto": true, "ap": true, "bl": true, "cj": true,
	"qd": true, "lt": true, "km": true, "al": true, "tv": true, "rod": true,
	"estr": true, "pca": true, "jd": true, "vl": true, "sta": true, "sto": true,
	"prof": true, "eng": true, "exmo": true, "exma": true,
}

// sentenceEnd reports whether the period at pos closes a sentence.
func (t *text) sentenceEnd(pos int) bool {
	next := pos + 1
	if next < len(t.fold) && !isSpace(t.fold[next]) {
		return false
	}
	start := pos
	for start > 0 && isWordByte(t.fold[start-1]) {
		start--
	}
	word := t.fold[start:pos]
	if len(word) <= 1 {
		return false
	}
	return !abbreviations[word]
}

// wordAt returns the ASCII word starting at pos in the folded text.
func (t *text) wordAt(pos int) string {
	end := pos
	for end < len(t.fold) && isWordByte(t.fold[end]) {
		end++
	}
	return t.fold[pos:end]
}

// skipBlank advances over whitespace and light punctuation.
func (t *text) skipBlank(pos, limit int) int {
	for pos < limit {
		r, n := utf8.DecodeRuneInString(t.fold[pos:])
		if !unicode.IsSpace(r) && !strings.ContainsRune(":.-–—º°ª", r) {
			break
		}
		pos += n
	}
	return pos
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
