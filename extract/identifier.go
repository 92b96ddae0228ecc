package extract

import "strings"

// ExtractIdentifier resolves the consumer unit (UC) code. Strategies run in
// decreasing-confidence order and the first hit wins:
//
//  1. explicit "unidade consumidora"/"UC" label followed by 8+ digits,
//     matched on the full text;
//  2. the same patterns per line;
//  3. a "código do cliente" label line, scanning up to 4 lines below for a
//     formatted token like 10/108132-2 (kept as-is) or any alphanumeric run
//     of 7+ characters, whose digits are joined;
//  4. same as 3 for "código da instalação" (may contain letters, e.g.
//     00000R29733);
//  5. the last formatted token anywhere in the text.
func ExtractIdentifier(text string, lines []string) string {
	for _, re := range ucExplicitRegexes {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}

	for _, line := range lines {
		for _, re := range ucLineRegexes {
			if m := re.FindStringSubmatch(line); len(m) > 1 {
				return m[1]
			}
		}
	}

	if uc := identifierNearLabel(lines, func(ln string) bool {
		return (strings.Contains(ln, "codigo") || strings.Contains(ln, "cod.") || strings.Contains(ln, "cod ")) &&
			strings.Contains(ln, "cliente")
	}); uc != "" {
		return uc
	}

	if uc := identifierNearLabel(lines, func(ln string) bool {
		return strings.Contains(ln, "codigo") &&
			(strings.Contains(ln, "instalacao") || strings.Contains(ln, "instala"))
	}); uc != "" {
		return uc
	}

	if all := ucFormattedRegex.FindAllString(text, -1); len(all) > 0 {
		return all[len(all)-1]
	}

	// Loose label + 4 digit fallback from the earliest extractor version.
	if m := ucRegex.FindStringSubmatch(text); len(m) > 2 {
		return m[2]
	}
	return ""
}

// identifierNearLabel scans up to 4 lines below a matching label line. The
// formatted NN/NNNNNNN-N token is preferred because it preserves the original
// formatting; otherwise digits of the first long alphanumeric run are joined.
func identifierNearLabel(lines []string, labelMatch func(string) bool) string {
	for i, line := range lines {
		if !labelMatch(NormalizeText(line)) {
			continue
		}
		for j := i; j < min(len(lines), i+4); j++ {
			if m := ucFormattedRegex.FindString(lines[j]); m != "" {
				return m
			}
			if m := ucAlnumRunRegex.FindString(lines[j]); m != "" {
				digits := strings.Join(digitRegex.FindAllString(m, -1), "")
				if len(digits) >= 7 {
					return digits
				}
			}
		}
	}
	return ""
}
