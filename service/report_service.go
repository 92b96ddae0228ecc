package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/OtavioDayrots/Energy-Bill-Parser/dto"
	"github.com/OtavioDayrots/Energy-Bill-Parser/extract"
)

const reportSheet = "Faturas"

// Column order matches the spreadsheet the accounting side already consumes.
var reportHeaders = []string{
	"Caminho do PDF",
	"Data",
	"Unidade Consumidora",
	"Classificação",
	"Tipo de Serviço",
	"Energia Atv Injetada mUC",
	"Energia Atv Injetada oUC",
	"Energia Atv Injetada - Fora Ponta",
	"Injetada?",
	"Lim. Min.",
	"Lim. Max.",
}

// ReportService turns resolved records into the output workbook.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// Build creates the workbook: one row per record, a totals row for the
// monetary columns, and readable column widths.
func (r *ReportService) Build(records []dto.InvoiceRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), reportSheet)

	for col, header := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	var totalMUC, totalOUC, totalOffPeak float64
	for i, rec := range records {
		row := i + 2
		injected := "NÃO"
		if rec.Injected {
			injected = "SIM"
		}
		values := []interface{}{
			rec.Path,
			rec.Period,
			rec.ConsumerUnit,
			rec.Classification,
			rec.ServiceType,
			floatCell(rec.InjectedMUC),
			floatCell(rec.InjectedOUC),
			floatCell(rec.InjectedOffPeak),
			injected,
			floatCell(rec.VoltageMin),
			floatCell(rec.VoltageMax),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, err
			}
		}

		if rec.InjectedMUC != nil {
			totalMUC += *rec.InjectedMUC
		}
		if rec.InjectedOUC != nil {
			totalOUC += *rec.InjectedOUC
		}
		if rec.InjectedOffPeak != nil {
			totalOffPeak += *rec.InjectedOffPeak
		}
	}

	totalsRow := len(records) + 2
	totals := map[int]string{
		5: "Total",
		6: extract.FormatCurrency(totalMUC),
		7: extract.FormatCurrency(totalOUC),
		8: extract.FormatCurrency(totalOffPeak),
	}
	for col, v := range totals {
		cell, err := excelize.CoordinatesToCellName(col, totalsRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, cell, v); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(reportSheet, "A", "A", 48); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "B", "K", 22); err != nil {
		return nil, err
	}
	return f, nil
}

// Save writes the workbook to disk.
func (r *ReportService) Save(records []dto.InvoiceRecord, path string) error {
	f, err := r.Build(records)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	defer f.Close()
	return f.SaveAs(path)
}

// Write streams the workbook, used by the HTTP download endpoint.
func (r *ReportService) Write(records []dto.InvoiceRecord, w io.Writer) error {
	f, err := r.Build(records)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	defer f.Close()
	return f.Write(w)
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
