package matcher

import (
	"regexp"
	"strings"

	"github.com/agenthands/actnexus/internal/core/common"
)

type valueShape int

const (
	// shapeText ends at the first comma, semicolon, line break or sentence end.
	shapeText valueShape = iota
	// shapeAddress spans commas until the next qualification item.
	shapeAddress
	// shapePattern is the first match of kind.pattern shortly after the label.
	shapePattern
)

// kind is one qualification field the matcher knows how to find and compare.
type kind struct {
	label   string   // label used on Novo rows
	names   []string // canonical profile labels that map to this kind
	alias   *regexp.Regexp
	shape   valueShape
	pattern *regexp.Regexp
	window  int
	bare    func(t *text, s span) []candidate
	equal   equalFunc
	valid   func(string) bool
	unique  bool // one value per person; repeats across parties are reported
}

const (
	cpfShape   = `\d{3}\.?\d{3}\.?\d{3}\s?[-.]?\s?\d{2}`
	cnpjShape  = `\d{2}\.?\d{3}\.?\d{3}\s?/?\s?\d{4}\s?-?\s?\d{2}`
	emailShape = `[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)+`
)

var (
	nationalityVocab = regexp.MustCompile(`\b(?:brasileir[oa]|portugues[a]?|italian[oa]|espanhol[a]?|argentin[oa]|alema[o]?|frances[a]?|japones[a]?|norte-american[oa]|american[oa]|chines[a]?|uruguai[oa]|paraguai[oa]|chilen[oa]|bolivian[oa]|peruan[oa]|colombian[oa]|venezuelan[oa]|angolan[oa]|mocambican[oa]|libanes[a]?|coreana|coreano|holandes[a]?|ingles[a]?|belga|suic[oa]|ucranian[oa]|haitian[oa]|cuban[oa]|mexican[oa]|canadense|estrangeir[oa])\b`)
	maritalVocab     = regexp.MustCompile(`\b(?:solteir[oa]|casad[oa]|divorciad[oa]|viuv[oa]|separad[oa](?: judicialmente)?|convivente|em uniao estavel)\b`)
)

var catalog = []*kind{
	{
		label:   "CPF",
		names:   []string{"cpf", "cpf mf", "c p f", "cadastro de pessoa fisica", "cadastro de pessoas fisicas"},
		alias:   regexp.MustCompile(`\bc\.?\s?p\.?\s?f\b(?:\s*/\s*m\.?\s?f\b)?`),
		shape:   shapePattern,
		pattern: regexp.MustCompile(`\b` + cpfShape + `\b`),
		window:  48,
		bare:    bareMatches(regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`)),
		equal:   sameDigits,
		valid:   validCPF,
		unique:  true,
	},
	{
		label:   "CNPJ",
		names:   []string{"cnpj", "cnpj mf", "cadastro nacional da pessoa juridica"},
		alias:   regexp.MustCompile(`\bcnpj\b(?:\s*/\s*m\.?\s?f\b)?`),
		shape:   shapePattern,
		pattern: regexp.MustCompile(`\b` + cnpjShape + `\b`),
		window:  48,
		bare:    bareMatches(regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)),
		equal:   sameDigits,
		valid:   validCNPJ,
		unique:  true,
	},
	{
		label:   "RG",
		names:   []string{"rg", "identidade", "carteira de identidade", "cedula de identidade", "registro geral", "documento de identidade", "rg orgao emissor"},
		alias:   regexp.MustCompile(`\bcarteira de identidade\b|\bcedula de identidade\b|\bregistro geral\b|\br\.?\s?g\b`),
		shape:   shapePattern,
		pattern: regexp.MustCompile(`\b\d[\d.]*\d(?:\s?-\s?[\dx])?\b`),
		window:  48,
		equal:   sameDigits,
		unique:  true,
	},
	{
		label: "Nacionalidade",
		names: []string{"nacionalidade"},
		alias: regexp.MustCompile(`\bnacionalidade\b`),
		shape: shapeText,
		bare:  bareMatches(nationalityVocab),
		equal: sameGendered,
	},
	{
		label: "Estado Civil",
		names: []string{"estado civil"},
		alias: regexp.MustCompile(`\bestado civil\b`),
		shape: shapeText,
		bare:  bareMatches(maritalVocab),
		equal: sameMaritalStatus,
	},
	{
		label: "Regime de Bens",
		names: []string{"regime de bens", "regime", "regime de casamento", "regime matrimonial"},
		alias: regexp.MustCompile(`\bregime de bens\b|\bregime\b`),
		shape: shapeText,
		equal: samePropertyRegime,
	},
	{
		label: "Profissão",
		names: []string{"profissao", "ocupacao", "atividade profissional"},
		alias: regexp.MustCompile(`\bprofissao\b|\bocupacao\b`),
		shape: shapeText,
		bare:  bareProfession,
		equal: sameGendered,
	},
	{
		label:   "Data de Nascimento",
		names:   []string{"data de nascimento", "nascimento", "data nascimento", "dt nascimento", "nascido em", "nascida em"},
		alias:   regexp.MustCompile(`\bdata de nascimento\b|\bnascid[oa] (?:em|aos|a|no dia)\b|\bnascimento\b`),
		shape:   shapePattern,
		pattern: datePattern,
		window:  64,
		equal:   sameDate,
	},
	{
		label: "Naturalidade",
		names: []string{"naturalidade", "local de nascimento", "natural de"},
		alias: regexp.MustCompile(`\bnaturalidade\b|\bnatural d[aeo]\b`),
		shape: shapeText,
		equal: sameText,
	},
	{
		label: "Filiação",
		names: []string{"filiacao", "nome dos pais", "nome da mae", "nome do pai"},
		alias: regexp.MustCompile(`\bfiliacao\b|\bfilh[oa] de\b`),
		shape: shapeText,
		equal: sameText,
	},
	{
		label: "Endereço",
		names: []string{"endereco", "endereco residencial", "residencia", "domicilio", "logradouro"},
		alias: regexp.MustCompile(`\bresidentes? e domiciliad[oa]s?\b|\bendereco residencial\b|\bendereco\b|\bresidentes?\b|\bdomiciliad[oa]s?\b|\bdomicilio\b`),
		shape: shapeAddress,
		equal: sameText,
	},
	{
		label:   "CEP",
		names:   []string{"cep", "codigo postal"},
		alias:   regexp.MustCompile(`\bcep\b`),
		shape:   shapePattern,
		pattern: regexp.MustCompile(`\b(?:\d{5}\s?-?\s?\d{3}|\d{2}\.\d{3}-\d{3})\b`),
		window:  24,
		equal:   sameDigits,
	},
	{
		label:   "E-mail",
		names:   []string{"e mail", "email", "endereco eletronico", "correio eletronico"},
		alias:   regexp.MustCompile(`\be-?mail\b|\bendereco eletronico\b|\bcorreio eletronico\b`),
		shape:   shapePattern,
		pattern: regexp.MustCompile(emailShape),
		window:  80,
		bare:    bareMatches(regexp.MustCompile(emailShape)),
		equal:   sameEmail,
	},
	{
		label:   "Telefone",
		names:   []string{"telefone", "celular", "fone", "tel", "telefone celular"},
		alias:   regexp.MustCompile(`\btelefones?\b|\bcelular\b|\bfone\b|\btel\b`),
		shape:   shapePattern,
		pattern: regexp.MustCompile(`(?:\+?55\s?)?\(?\b\d{2}\)?\s?9?\d{4}[-\s]?\d{4}\b`),
		window:  40,
		equal:   samePhone,
	},
}

// kindSet maps profile labels to kinds for one request. Labels the catalog
// does not know become free-text kinds found by their own label.
type kindSet struct {
	all     []*kind
	generic map[string]*kind
}

func newKindSet(labels []string) *kindSet {
	ks := &kindSet{all: append([]*kind(nil), catalog...), generic: map[string]*kind{}}
	for _, label := range labels {
		key := common.Canonical(label)
		if key == "" || catalogKind(key) != nil || ks.generic[key] != nil {
			continue
		}
		k := &kind{
			label: label,
			names: []string{key},
			alias: labelPattern(key),
			shape: shapeText,
			equal: sameText,
		}
		ks.generic[key] = k
		ks.all = append(ks.all, k)
	}
	return ks
}

func (ks *kindSet) lookup(label string) *kind {
	key := common.Canonical(label)
	if k := catalogKind(key); k != nil {
		return k
	}
	return ks.generic[key]
}

func catalogKind(key string) *kind {
	for _, k := range catalog {
		for _, n := range k.names {
			if n == key {
				return k
			}
		}
	}
	return nil
}

// labelPattern matches a canonical label in folded text with any punctuation
// between its words.
func labelPattern(key string) *regexp.Regexp {
	toks := strings.Fields(key)
	for i, tok := range toks {
		toks[i] = regexp.QuoteMeta(tok)
	}
	return regexp.MustCompile(`\b` + strings.Join(toks, `[^a-z0-9]+`) + `\b`)
}
