package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText strips accents and lowercases, so label matching works the
// same across templates that write "Classificação" or "CLASSIFICACAO".
func NormalizeText(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ParseNumber converts a pt-BR numeric literal (e.g. "R$ 1.234,56") to a
// float64. The currency marker, spaces and thousands dots are stripped and
// the decimal comma becomes a dot.
func ParseNumber(numStr string) (float64, error) {
	cleaned := strings.NewReplacer(
		"R$", "",
		" ", "",
		"\u00a0", "",
		".", "",
	).Replace(numStr)
	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), ",", ".")

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pt-BR number %q: %w", numStr, err)
	}
	return val, nil
}

// FormatCurrency renders a value back into the "R$ 1.234,56" shape used on
// the bills. Parsing a currency literal and formatting the result round-trips
// exactly.
func FormatCurrency(val float64) string {
	neg := val < 0
	if neg {
		val = -val
	}

	cents := int64(val*100 + 0.5)
	intPart := cents / 100
	fracPart := cents % 100

	digits := strconv.FormatInt(intPart, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, strings.Join(groups, "."), fracPart)
}
