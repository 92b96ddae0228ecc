package extract

import "strings"

// ContainsTokenGroups reports whether every token group has at least one
// alternative present in textNorm. Pure co-occurrence: no ordering or
// adjacency between groups. textNorm must already be accent-stripped and
// lowercased.
//
// This is deliberately permissive — label vocabulary varies by template — and
// relies on the strict numeric-format cascade downstream to reject false
// positives.
func ContainsTokenGroups(textNorm string, groups []TokenGroup) bool {
	for _, group := range groups {
		found := false
		for _, alt := range group {
			if strings.Contains(textNorm, alt) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SplitLines turns linear extracted text into the trimmed, non-empty line
// sequence every text-mode strategy operates on.
func SplitLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
