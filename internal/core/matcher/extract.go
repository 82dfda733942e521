package matcher

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxValueRunes = 200

// candidate is a value located in the minute.
type candidate struct {
	value string
	start int
}

// hit is a field label written in the minute.
type hit struct {
	start, end int
	kind       *kind
}

// findHits locates the labels of every kind. When two labels overlap the
// longer one wins, so "endereço eletrônico" is an e-mail and not an address.
func findHits(t *text, kinds []*kind) []hit {
	var all []hit
	for _, k := range kinds {
		for _, loc := range k.alias.FindAllStringIndex(t.fold, -1) {
			all = append(all, hit{start: loc[0], end: loc[1], kind: k})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		li, lj := all[i].end-all[i].start, all[j].end-all[j].start
		if li != lj {
			return li > lj
		}
		return all[i].start < all[j].start
	})

	var kept []hit
	for _, h := range all {
		overlap := false
		for _, k := range kept {
			if h.start < k.end && k.start < h.end {
				overlap = true
				break
			}
		}
		if !overlap {
			kept = append(kept, h)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	return kept
}

type extractor struct {
	t    *text
	hits []hit
}

func newExtractor(t *text, ks *kindSet) *extractor {
	return &extractor{t: t, hits: findHits(t, ks.all)}
}

// find returns the values of k inside spans, labelled ones first. Unlabelled
// detection only runs when labelledOnly is false.
func (x *extractor) find(k *kind, spans []span, labelledOnly bool) []candidate {
	var out []candidate
	for _, s := range spans {
		for i, h := range x.hits {
			if h.kind != k || !s.contains(h.start) {
				continue
			}
			limit := s.end
			if i+1 < len(x.hits) && x.hits[i+1].start < limit {
				limit = x.hits[i+1].start
			}
			if c, ok := x.valueAfter(k, h.end, limit); ok {
				out = append(out, c)
			}
		}
	}
	if labelledOnly || k.bare == nil {
		return out
	}

	labelled := len(out)
	for _, s := range spans {
		for _, c := range k.bare(x.t, s) {
			dup := false
			for _, l := range out[:labelled] {
				if l.start == c.start {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, c)
			}
		}
	}
	return out
}

func (x *extractor) valueAfter(k *kind, from, limit int) (candidate, bool) {
	if from >= limit {
		return candidate{}, false
	}
	if k.shape == shapePattern {
		end := limit
		if k.window > 0 && from+k.window < end {
			end = from + k.window
		}
		loc := k.pattern.FindStringIndex(x.t.fold[from:end])
		if loc == nil {
			return candidate{}, false
		}
		return candidate{value: x.t.original(from+loc[0], from+loc[1]), start: from + loc[0]}, true
	}

	start := x.skipConnectors(from, limit)
	end := x.textEnd(k, start, limit)
	if end <= start {
		return candidate{}, false
	}
	value := cleanValue(x.t.original(start, end))
	if value == "" {
		return candidate{}, false
	}
	return candidate{value: value, start: start}, true
}

// connectors sit between a label and its value: "inscrito no CPF sob o nº",
// "residente à Rua", "natural de".
var connectors = map[string]bool{
	"sob": true, "o": true, "a": true, "os": true, "as": true, "ao": true, "aos": true,
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"na": true, "no": true, "nas": true, "nos": true, "em": true,
	"n": true, "numero": true, "num": true,
}

func (x *extractor) skipConnectors(pos, limit int) int {
	for {
		pos = x.t.skipBlank(pos, limit)
		w := x.t.wordAt(pos)
		if w == "" || !connectors[w] || pos+len(w) >= limit {
			return pos
		}
		pos += len(w)
	}
}

func (x *extractor) textEnd(k *kind, start, limit int) int {
	f := x.t.fold
	for i := start; i < limit; i++ {
		switch f[i] {
		case '\n', ';':
			return i
		case '.':
			if x.t.sentenceEnd(i) {
				return i
			}
		case ',':
			if k.shape == shapeAddress {
				if x.addressContinues(i+1, limit) {
					continue
				}
				return i
			}
			if x.ufFollows(i+1, limit) {
				continue
			}
			return i
		}
	}
	return limit
}

var ufs = map[string]bool{
	"ac": true, "al": true, "ap": true, "am": true, "ba": true, "ce": true, "df": true,
	"es": true, "go": true, "ma": true, "mt": true, "ms": true, "mg": true, "pa": true,
	"pb": true, "pr": true, "pe": true, "pi": true, "rj": true, "rn": true, "rs": true,
	"ro": true, "rr": true, "sc": true, "sp": true, "se": true, "to": true,
}

// ufFollows reports whether a state abbreviation follows a comma, as in
// "São Paulo, SP".
func (x *extractor) ufFollows(pos, limit int) bool {
	pos = x.t.skipBlank(pos, limit)
	w := x.t.wordAt(pos)
	return ufs[w] && pos+len(w) <= limit
}

// addressStops are words that open the next qualification item after an
// address.
var addressStops = []string{
	"portador", "inscrit", "titular", "maior", "menor", "capaz", "nascid",
	"filh", "natural", "e", "com", "neste ato", "doravante", "onde", "ora",
}

func (x *extractor) addressContinues(pos, limit int) bool {
	pos = x.t.skipBlank(pos, limit)
	if pos >= limit {
		return false
	}
	rest := x.t.fold[pos:limit]
	w := x.t.wordAt(pos)
	for _, stop := range addressStops {
		if strings.Contains(stop, " ") {
			if strings.HasPrefix(rest, stop) {
				return false
			}
			continue
		}
		if w == stop || (len(stop) > 3 && strings.HasPrefix(w, stop)) {
			return false
		}
	}
	if loc := maritalVocab.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return false
	}
	if loc := nationalityVocab.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		return false
	}
	return true
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, " \t,;:-–")
	v = strings.TrimSpace(v)
	if utf8.RuneCountInString(v) > maxValueRunes {
		v = strings.TrimSpace(string([]rune(v)[:maxValueRunes]))
	}
	return v
}

func bareMatches(re *regexp.Regexp) func(t *text, s span) []candidate {
	return func(t *text, s span) []candidate {
		var out []candidate
		for _, loc := range re.FindAllStringIndex(t.fold[s.start:s.end], -1) {
			start, end := s.start+loc[0], s.start+loc[1]
			out = append(out, candidate{value: t.original(start, end), start: start})
		}
		return out
	}
}

var (
	professionSkip = []string{"maior", "menor", "capaz", "emancipad", "plenamente"}
	professionStop = []string{
		"portador", "inscrit", "residente", "domiciliad", "nascid", "filh", "natural",
		"sob", "com", "titular", "neste", "nesta", "cpf", "rg", "cnpj", "regime",
		"endereco", "email", "e", "telefone", "cep", "profissao", "estado", "nacionalidade",
		"doravante", "representad", "conforme",
	}
)

// bareProfession finds an unlabelled profession in the usual qualification
// sequence "NOME, brasileira, casada, engenheira, portadora ...": the first
// short comma item after the nationality or marital status.
func bareProfession(t *text, s span) []candidate {
	items := commaItems(t, s)
	for i, it := range items {
		if !startsVocab(t.fold[it.start:it.end]) {
			continue
		}
		for j := i + 1; j < len(items) && j <= i+3; j++ {
			next := items[j]
			f := t.fold[next.start:next.end]
			if startsVocab(f) {
				continue
			}
			first := t.wordAt(next.start)
			if hasPrefixAny(first, professionSkip) {
				continue
			}
			if first == "" || hasPrefixAny(first, professionStop) || strings.ContainsAny(f, "0123456789@") || len(strings.Fields(f)) > 4 {
				break
			}
			return []candidate{{value: cleanValue(t.original(next.start, next.end)), start: next.start}}
		}
	}
	return nil
}

func startsVocab(f string) bool {
	for _, re := range []*regexp.Regexp{nationalityVocab, maritalVocab} {
		if loc := re.FindStringIndex(f); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return false
}

func hasPrefixAny(w string, prefixes []string) bool {
	for _, p := range prefixes {
		if w == p || (len(p) > 3 && strings.HasPrefix(w, p)) {
			return true
		}
	}
	return false
}

// commaItems splits a span on commas and semicolons, trimming blanks.
func commaItems(t *text, s span) []span {
	var out []span
	start := s.start
	for i := s.start; i <= s.end; i++ {
		if i < s.end && t.fold[i] != ',' && t.fold[i] != ';' && t.fold[i] != '\n' {
			continue
		}
		a, b := start, i
		for a < b && isSpace(t.fold[a]) {
			a++
		}
		for b > a && (isSpace(t.fold[b-1]) || t.fold[b-1] == '.') {
			b--
		}
		if a < b {
			out = append(out, span{a, b})
		}
		start = i + 1
	}
	return out
}
