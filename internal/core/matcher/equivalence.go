package matcher

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agenthands/actnexus/internal/core/common"
)

// equalFunc decides whether a value found in the minute is equivalent to the
// registered one. Every implementation accepts values whose canonical forms
// are equal, so literally equal strings are always equivalent.
type equalFunc func(found, expected string) bool

func sameCanonical(a, b string) bool {
	return common.Canonical(a) == common.Canonical(b)
}

func sameDigits(a, b string) bool {
	if sameCanonical(a, b) {
		return true
	}
	da, db := common.Digits(a), common.Digits(b)
	return da != "" && da == db
}

// samePhone tolerates a missing country or area code on one side.
func samePhone(a, b string) bool {
	if sameDigits(a, b) {
		return true
	}
	da, db := common.Digits(a), common.Digits(b)
	if len(da) > len(db) {
		da, db = db, da
	}
	return len(da) >= 8 && strings.HasSuffix(db, da)
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func sameDate(a, b string) bool {
	if sameCanonical(a, b) {
		return true
	}
	da, okA := parseDate(a)
	db, okB := parseDate(b)
	return okA && okB && da.Equal(db)
}

// sameText compares free text token by token, ignoring connectors and
// expanding common address abbreviations.
func sameText(a, b string) bool {
	if sameCanonical(a, b) {
		return true
	}
	return slicesEqual(textTokens(a, false), textTokens(b, false))
}

// sameGendered also ignores grammatical gender, so "brasileira" matches
// "brasileiro" and "engenheira" matches "engenheiro".
func sameGendered(a, b string) bool {
	if sameCanonical(a, b) {
		return true
	}
	return slicesEqual(textTokens(a, true), textTokens(b, true))
}

func sameMaritalStatus(a, b string) bool {
	if sameGendered(a, b) {
		return true
	}
	ca, cb := maritalClass(a), maritalClass(b)
	return ca != "" && ca == cb
}

// samePropertyRegime ignores the trailing "de bens" that registries and
// deeds add inconsistently.
func samePropertyRegime(a, b string) bool {
	if sameText(a, b) {
		return true
	}
	strip := func(s string) []string {
		var out []string
		for _, tok := range textTokens(s, false) {
			if tok != "bens" && tok != "regime" {
				out = append(out, tok)
			}
		}
		return out
	}
	return slicesEqual(strip(a), strip(b))
}

var stopwords = map[string]bool{
	"a": true, "o": true, "e": true, "as": true, "os": true,
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"em": true, "na": true, "no": true, "nas": true, "nos": true,
	"n": true, "nº": true, "numero": true, "num": true,
}

var expansions = map[string]string{
	"r":    "rua",
	"av":   "avenida",
	"avda": "avenida",
	"al":   "alameda",
	"pca":  "praca",
	"tv":   "travessa",
	"trav": "travessa",
	"rod":  "rodovia",
	"estr": "estrada",
	"ap":   "apartamento",
	"apto": "apartamento",
	"apt":  "apartamento",
	"cj":   "conjunto",
	"bl":   "bloco",
	"jd":   "jardim",
	"vl":   "vila",
	"sta":  "santa",
	"sto":  "santo",
	"dr":   "doutor",
	"prof": "professor",
}

func textTokens(s string, gendered bool) []string {
	var out []string
	for _, tok := range strings.Fields(common.Canonical(s)) {
		if stopwords[tok] {
			continue
		}
		if full, ok := expansions[tok]; ok {
			tok = full
		}
		if gendered {
			tok = genderStem(tok)
		}
		out = append(out, tok)
	}
	return out
}

func genderStem(tok string) string {
	if len(tok) <= 3 {
		return tok
	}
	switch {
	case strings.HasSuffix(tok, "ao"):
		return tok[:len(tok)-2]
	case strings.HasSuffix(tok, "as"), strings.HasSuffix(tok, "os"):
		return tok[:len(tok)-2]
	case strings.HasSuffix(tok, "a"), strings.HasSuffix(tok, "o"):
		return tok[:len(tok)-1]
	}
	return tok
}

var maritalClasses = []struct {
	re    *regexp.Regexp
	class string
}{
	{regexp.MustCompile(`\bsolteir`), "solteiro"},
	{regexp.MustCompile(`\bdivorciad`), "divorciado"},
	{regexp.MustCompile(`\bseparad`), "separado"},
	{regexp.MustCompile(`\bviuv`), "viuvo"},
	{regexp.MustCompile(`\buniao estavel\b|\bconvivente`), "uniao estavel"},
	{regexp.MustCompile(`\bcasad`), "casado"},
}

func maritalClass(s string) string {
	c := common.Canonical(s)
	for _, m := range maritalClasses {
		if m.re.MatchString(c) {
			return m.class
		}
	}
	return ""
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var months = map[string]time.Month{
	"janeiro": time.January, "fevereiro": time.February, "marco": time.March,
	"abril": time.April, "maio": time.May, "junho": time.June,
	"julho": time.July, "agosto": time.August, "setembro": time.September,
	"outubro": time.October, "novembro": time.November, "dezembro": time.December,
}

const monthNames = `janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro`

var (
	dmyDate     = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})\b`)
	isoDate     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	writtenDate = regexp.MustCompile(`\b(\d{1,2})(?:º|°|o)?\s+de\s+(` + monthNames + `)\s+de\s+(\d{4})\b`)

	// datePattern finds any supported date in folded text.
	datePattern = regexp.MustCompile(isoDate.String() + `|` + dmyDate.String() + `|` + writtenDate.String())
)

// parseDate understands dd/mm/yyyy (also with - or .), yyyy-mm-dd and
// "12 de março de 1980". Two-digit years are read as 19xx when above the
// current two-digit year.
func parseDate(s string) (time.Time, bool) {
	f := common.Fold(strings.TrimSpace(s))

	var y, m, d int
	switch {
	case isoDate.MatchString(f):
		p := isoDate.FindStringSubmatch(f)
		y, m, d = atoi(p[1]), atoi(p[2]), atoi(p[3])
	case dmyDate.MatchString(f):
		p := dmyDate.FindStringSubmatch(f)
		d, m, y = atoi(p[1]), atoi(p[2]), atoi(p[3])
		if len(p[3]) == 2 {
			y += 2000
			if y > time.Now().Year() {
				y -= 100
			}
		}
	case writtenDate.MatchString(f):
		p := writtenDate.FindStringSubmatch(f)
		d, m, y = atoi(p[1]), int(months[p[2]]), atoi(p[3])
	default:
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
