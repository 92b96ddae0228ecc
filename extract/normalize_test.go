package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "classificacao", NormalizeText("Classificação"))
	assert.Equal(t, "energia ativa injetada m-uc", NormalizeText("ENERGIA ATIVA INJETADA M-UC"))
	assert.Equal(t, "codigo da instalacao", NormalizeText("Código da Instalação"))
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"R$ 1.234,56":  1234.56,
		"R$ 40,00":     40.0,
		"40,00":        40.0,
		"1.234":        1234.0,
		"-12,5":        -12.5,
		"R$ -  300,10": -300.10,
		"287,00":       287.0,
	}
	for in, want := range cases {
		got, err := ParseNumber(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseNumberInvalid(t *testing.T) {
	_, err := ParseNumber("kWh")
	assert.Error(t, err)

	_, err = ParseNumber("")
	assert.Error(t, err)
}

func TestCurrencyRoundTrip(t *testing.T) {
	literals := []string{
		"R$ 0,99",
		"R$ 40,00",
		"R$ 1.234,56",
		"R$ 123.456.789,01",
	}
	for _, lit := range literals {
		val, err := ParseNumber(lit)
		assert.NoError(t, err, lit)
		assert.Equal(t, lit, FormatCurrency(val), lit)
	}
}

func TestFormatCurrencyNegative(t *testing.T) {
	assert.Equal(t, "R$ -1.500,25", FormatCurrency(-1500.25))
}
