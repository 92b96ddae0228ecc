package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// ExtractClassification pulls the tariff classification, e.g.
// "MTA-MOD.TARIFARIA AZUL" out of "Classificação: MTA-MOD.TARIFARIA AZUL / A4 SERVIÇO ...".
func ExtractClassification(text string) string {
	for _, re := range classificationRegexes {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ExtractServiceType pulls the service subgroup after the classification
// slash, e.g. "A4" or "B3".
func ExtractServiceType(text string) string {
	for _, re := range serviceTypeRegexes {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ExtractVoltageMin reads the contracted minimum voltage limit.
func ExtractVoltageMin(text string) *float64 {
	return firstFloat(voltageMinRegexes, text)
}

// ExtractVoltageMax reads the contracted maximum voltage limit.
func ExtractVoltageMax(text string) *float64 {
	return firstFloat(voltageMaxRegexes, text)
}

func firstFloat(regexes []*regexp.Regexp, text string) *float64 {
	for _, re := range regexes {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &v
			}
		}
	}
	return nil
}
