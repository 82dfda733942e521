package matcher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agenthands/actnexus/internal/core/common"
)

// mention is an occurrence of a party's name in the minute.
type mention struct {
	start, end int
	client     int
}

// layout assigns the minute's text to parties. A party owns the text from
// each mention of its name up to the next mention of another party within
// the same paragraph. Text owned by no party is the shared pool.
type layout struct {
	regions   [][]span
	pool      []span
	mentioned []bool
}

var nameConnectors = map[string]bool{"da": true, "de": true, "do": true, "das": true, "dos": true, "e": true}

// namePattern matches a name in folded text. Connectors ("da", "dos") are
// optional on both sides so "Maria Silva" also finds "MARIA DA SILVA".
func namePattern(name string) *regexp.Regexp {
	var toks []string
	for _, tok := range strings.Fields(common.Canonical(name)) {
		if !nameConnectors[tok] {
			toks = append(toks, regexp.QuoteMeta(tok))
		}
	}
	if len(toks) == 0 {
		return nil
	}
	sep := `[^a-z0-9]+(?:(?:da|de|do|das|dos|e)[^a-z0-9]+)?`
	return regexp.MustCompile(`\b` + strings.Join(toks, sep) + `\b`)
}

func findMentions(t *text, names []string) []mention {
	var all []mention
	for i, name := range names {
		re := namePattern(name)
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(t.fold, -1) {
			all = append(all, mention{start: loc[0], end: loc[1], client: i})
		}
	}
	// A name contained in a longer name belongs to the longer one.
	sort.SliceStable(all, func(i, j int) bool {
		li, lj := all[i].end-all[i].start, all[j].end-all[j].start
		if li != lj {
			return li > lj
		}
		return all[i].start < all[j].start
	})
	var kept []mention
	for _, m := range all {
		overlap := false
		for _, k := range kept {
			if m.start < k.end && k.start < m.end {
				overlap = true
				break
			}
		}
		if !overlap {
			kept = append(kept, m)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	return kept
}

func buildLayout(t *text, names []string) *layout {
	l := &layout{
		regions:   make([][]span, len(names)),
		mentioned: make([]bool, len(names)),
	}
	mentions := findMentions(t, names)
	for _, m := range mentions {
		l.mentioned[m.client] = true
	}

	// With a single party there is nothing to attribute.
	if len(names) == 1 {
		l.regions[0] = []span{{0, len(t.fold)}}
		return l
	}

	for _, p := range t.paragraphs() {
		var ms []mention
		for _, m := range mentions {
			if m.start >= p.start && m.end <= p.end {
				ms = append(ms, m)
			}
		}
		if len(ms) == 0 {
			l.pool = append(l.pool, p)
			continue
		}
		if ms[0].start > p.start {
			l.pool = append(l.pool, span{p.start, ms[0].start})
		}
		for k := 0; k < len(ms); {
			c := ms[k].client
			j := k + 1
			for j < len(ms) && ms[j].client == c {
				j++
			}
			end := p.end
			if j < len(ms) {
				end = ms[j].start
			}
			l.regions[c] = append(l.regions[c], span{ms[k].end, end})
			k = j
		}
	}
	return l
}
