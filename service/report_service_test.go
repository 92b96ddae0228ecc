package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/OtavioDayrots/Energy-Bill-Parser/dto"
)

func reportRecords() []dto.InvoiceRecord {
	muc := 40.0
	ouc := 25.5
	vmin := 116.0
	return []dto.InvoiceRecord{
		{
			Path:         "faturas/a.pdf",
			Period:       "SET/24",
			ConsumerUnit: "12345678",
			Injected:     true,
			InjectedMUC:  &muc,
			InjectedOUC:  &ouc,
			VoltageMin:   &vmin,
		},
		{Path: "faturas/b.pdf"},
	}
}

func TestReportBuild(t *testing.T) {
	f, err := NewReportService().Build(reportRecords())
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(reportSheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Caminho do PDF", get("A1"))
	assert.Equal(t, "Energia Atv Injetada mUC", get("F1"))
	assert.Equal(t, "Lim. Max.", get("K1"))

	assert.Equal(t, "faturas/a.pdf", get("A2"))
	assert.Equal(t, "SET/24", get("B2"))
	assert.Equal(t, "12345678", get("C2"))
	assert.Equal(t, "40", get("F2"))
	assert.Equal(t, "25.5", get("G2"))
	assert.Equal(t, "SIM", get("I2"))
	assert.Equal(t, "116", get("J2"))

	// Unresolved fields leave the cell empty instead of writing a zero.
	assert.Equal(t, "", get("H2"))
	assert.Equal(t, "", get("F3"))
	assert.Equal(t, "NÃO", get("I3"))

	// Totals land right below the last record, formatted as currency.
	assert.Equal(t, "Total", get("E4"))
	assert.Equal(t, "R$ 40,00", get("F4"))
	assert.Equal(t, "R$ 25,50", get("G4"))
	assert.Equal(t, "R$ 0,00", get("H4"))
}

func TestReportWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReportService().Write(reportRecords(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(reportSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "faturas/a.pdf", v)
}

func TestReportBuildEmpty(t *testing.T) {
	f, err := NewReportService().Build(nil)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(reportSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "Total", v)
}
