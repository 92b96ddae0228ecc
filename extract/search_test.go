package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discountDoc() []string {
	return []string{
		"DISTRIBUIDORA DE ENERGIA S.A.",
		"Fatura de energia elétrica",
		"Itens da fatura",
		"Consumo em kWh 350,00",
		"Subtotal",
		"Energia Ativa Injetada mUC 09/2024 R$ 40,00",
		"Energia Ativa Injetada oUC 09/2024 R$ 25,50",
		"Total da fatura",
	}
}

func TestFindValueNearCurrency(t *testing.T) {
	val, ok := FindValueNear(discountDoc(), 5, 2, true)
	assert.True(t, ok)
	assert.Equal(t, 40.0, val)
}

func TestFindValueNearPrefersLastMatchOnLine(t *testing.T) {
	lines := []string{"Tarifa R$ 0,65 Total R$ 123,45"}
	val, ok := FindValueNear(lines, 0, 2, true)
	assert.True(t, ok)
	assert.Equal(t, 123.45, val)
}

func TestFindValueNearRespectsWindow(t *testing.T) {
	lines := []string{
		"Energia Ativa Injetada mUC",
		"linha sem valor",
		"linha sem valor",
		"linha sem valor",
		"40,00",
	}
	_, ok := FindValueNear(lines, 0, 2, false)
	assert.False(t, ok)

	// Larger window reaches it.
	val, ok := FindValueNear(lines, 0, 4, false)
	assert.True(t, ok)
	assert.Equal(t, 40.0, val)
}

func TestFindValueNearExtendedScanMoneyOnly(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "linha sem valor"
	}
	lines[0] = "Energia Ativa Injetada mUC"
	lines[9] = "R$ 77,10"

	// Outside the window, but the money-only extended scan looks ahead.
	val, ok := FindValueNear(lines, 0, 2, true)
	assert.True(t, ok)
	assert.Equal(t, 77.10, val)

	// The extended scan only applies to currency literals.
	lines[9] = "77,10"
	_, ok = FindValueNear(lines, 0, 2, true)
	assert.False(t, ok)
}

func TestFindValueNearKwhQuantity(t *testing.T) {
	lines := []string{"Energia Atv Injetada mUC 1.234,5 kWh"}
	val, ok := FindValueNear(lines, 0, 2, false)
	assert.True(t, ok)
	assert.Equal(t, 1234.5, val)
}

func TestExtractLabelValueSum(t *testing.T) {
	vocab := DefaultVocabulary()
	lines := []string{
		"Energia Ativa Injetada mUC 08/2024 R$ 40,00",
		"outras linhas",
		"Energia Ativa Injetada mUC 09/2024 R$ 50,00",
	}
	total, ok := ExtractLabelValueSum(lines, vocab.MUC, 2, true)
	assert.True(t, ok)
	assert.Equal(t, 90.0, total)
}

func TestExtractLabelValueSumOrderIndependent(t *testing.T) {
	vocab := DefaultVocabulary()
	lines := []string{
		"Energia Ativa Injetada mUC R$ 40,00",
		"Energia Ativa Injetada mUC R$ 50,00",
		"Energia Ativa Injetada mUC R$ 10,00",
	}
	forward, okF := ExtractLabelValueSum(lines, vocab.MUC, 0, true)

	reversed := []string{lines[2], lines[1], lines[0]}
	backward, okB := ExtractLabelValueSum(reversed, vocab.MUC, 0, true)

	assert.True(t, okF)
	assert.True(t, okB)
	assert.Equal(t, forward, backward)
	assert.Equal(t, 100.0, forward)
}

func TestFindLabelLines(t *testing.T) {
	vocab := DefaultVocabulary()
	found := FindLabelLines(discountDoc(), vocab.MUC)
	assert.Len(t, found, 1)
	assert.Equal(t, 5, found[0].Index)
}

func TestColumnAlignedExtraction(t *testing.T) {
	header := "Itens da Fatura                         Quant.      Valor (R$)"
	col := FindColumnIndex([]string{header}, "valor (r$)")
	assert.Equal(t, strings.Index(strings.ToLower(header), "valor (r$)"), col)

	row := "Energia Atv Injetada mUC                350,00" + strings.Repeat(" ", col-46) + "40,00"
	lines := []string{header, row}

	colIdx := FindColumnIndex(lines, "valor (r$)")
	val, ok := ExtractValueAtColumn(lines, 1, colIdx, 2, true)
	assert.True(t, ok)
	assert.Equal(t, 40.0, val)
}

func TestExtractValueAtColumnSearchesDown(t *testing.T) {
	lines := []string{
		"Energia Atv Injetada mUC",
		strings.Repeat(" ", 40) + "55,25",
	}
	val, ok := ExtractValueAtColumn(lines, 0, 40, 2, true)
	assert.True(t, ok)
	assert.Equal(t, 55.25, val)

	// Short lines are padded, not skipped.
	_, ok = ExtractValueAtColumn(lines[:1], 0, 40, 2, true)
	assert.False(t, ok)
}

func TestSumKnownTaxValues(t *testing.T) {
	lines := []string{
		"PIS/PASEP 12,50",
		"ICMS 40,00",
		"COFINS 150,00",
		"Outros tributos 287,00",
	}
	total, ok := SumKnownTaxValues(lines, []float64{40.0, 150.0, 287.0})
	assert.True(t, ok)
	assert.Equal(t, 477.0, total)
}

func TestSumKnownTaxValuesRequiresAll(t *testing.T) {
	lines := []string{
		"ICMS 40,00",
		"COFINS 150,00",
	}
	_, ok := SumKnownTaxValues(lines, []float64{40.0, 150.0, 287.0})
	assert.False(t, ok)
}
