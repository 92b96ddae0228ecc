package extract

import (
	"fmt"
	"strconv"
	"strings"
)

type yearMonth struct {
	year  int
	month int
}

// formatPeriod renders a billing period as a 3-letter pt-BR month
// abbreviation plus 2-digit year, e.g. "ABR/25".
func formatPeriod(month, year int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("%s/%02d", monthAbbrPT[month], year%100)
}

// numericMonthYearPairs finds MM/YYYY tokens. RE2 has no lookaround, so the
// adjacent-digit exclusion ("11/20245", meter readings) is checked by hand.
func numericMonthYearPairs(text string) []yearMonth {
	var pairs []yearMonth
	for _, loc := range mmYYYYRegex.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isASCIIDigit(text[start-1]) {
			continue
		}
		if end < len(text) && isASCIIDigit(text[end]) {
			continue
		}
		mm, _ := strconv.Atoi(text[loc[2]:loc[3]])
		yyyy, _ := strconv.Atoi(text[loc[4]:loc[5]])
		pairs = append(pairs, yearMonth{year: yyyy, month: mm})
	}
	return pairs
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

// spelledMonthYearPairs finds spelled-out month+year tokens ("Outubro / 2024").
func spelledMonthYearPairs(text string) []yearMonth {
	var pairs []yearMonth
	for _, m := range fullMonthYearRegex.FindAllStringSubmatch(text, -1) {
		mm, ok := monthNameToNum[NormalizeText(m[1])]
		if !ok {
			continue
		}
		yyyy, _ := strconv.Atoi(m[2])
		pairs = append(pairs, yearMonth{year: yyyy, month: mm})
	}
	return pairs
}

// latestPeriod picks the chronologically latest pair.
func latestPeriod(pairs []yearMonth) string {
	if len(pairs) == 0 {
		return ""
	}
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.year > best.year || (p.year == best.year && p.month > best.month) {
			best = p
		}
	}
	return formatPeriod(best.month, best.year)
}

// ExtractBillingPeriod resolves the billing competence, most to least
// reliable:
//
//  1. cycle marker -YYYY-MM- on the enrollment line;
//  2. first spelled-out month+year anywhere in the document;
//  3. spelled-out month+year within the window of a discount label line;
//  4. MM/YYYY within the window of a discount label line, latest pair wins;
//  5. latest month+year (spelled or numeric) anywhere.
func ExtractBillingPeriod(lines []string, mucLabel, oucLabel Label, window int) string {
	joined := strings.Join(lines, "\n")

	if m := cycleRegex.FindStringSubmatch(joined); len(m) > 2 {
		yyyy, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		return formatPeriod(mm, yyyy)
	}

	if spelled := spelledMonthYearPairs(joined); len(spelled) > 0 {
		return formatPeriod(spelled[0].month, spelled[0].year)
	}

	labelIdxs := discountLabelIndices(lines, mucLabel, oucLabel)

	for _, i := range labelIdxs {
		for j := max(0, i-window); j < min(len(lines), i+window+1); j++ {
			if spelled := spelledMonthYearPairs(lines[j]); len(spelled) > 0 {
				return formatPeriod(spelled[0].month, spelled[0].year)
			}
		}
	}

	var nearPairs []yearMonth
	for _, i := range labelIdxs {
		for j := max(0, i-window); j < min(len(lines), i+window+1); j++ {
			nearPairs = append(nearPairs, numericMonthYearPairs(lines[j])...)
		}
	}
	if period := latestPeriod(nearPairs); period != "" {
		return period
	}

	all := append(spelledMonthYearPairs(joined), numericMonthYearPairs(joined)...)
	return latestPeriod(all)
}

func discountLabelIndices(lines []string, mucLabel, oucLabel Label) []int {
	var idxs []int
	for i, line := range lines {
		norm := NormalizeText(line)
		if ContainsTokenGroups(norm, mucLabel) || ContainsTokenGroups(norm, oucLabel) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
