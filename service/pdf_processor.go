package service

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/OtavioDayrots/Energy-Bill-Parser/extract"
)

// PDFProcessor is the decoding collaborator: linear text per document and the
// per-page glyph structure the layout fallback works from.
type PDFProcessor interface {
	ExtractText(pdfData []byte) (string, error)
	ExtractGlyphs(pdfData []byte) ([][]extract.Glyph, error)
	Validate(pdfData []byte) error
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractText renders the document as linear text. Both the row-ordered view
// and a glyph-reconstructed view are built and the richer (longer) one wins;
// some templates lose whole table sections in row mode.
func (p *pdfProcessor) ExtractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", err
	}

	var rowText strings.Builder
	var glyphText strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err == nil {
			for _, row := range rows {
				for _, word := range row.Content {
					rowText.WriteString(word.S)
					rowText.WriteString(" ")
				}
				rowText.WriteString("\n")
			}
		}

		for _, ln := range extract.BuildLayoutLines(pageGlyphs(page)) {
			glyphText.WriteString(ln.Text)
			glyphText.WriteString("\n")
		}
	}

	if glyphText.Len() > rowText.Len() {
		return glyphText.String(), nil
	}
	return rowText.String(), nil
}

// ExtractGlyphs returns the raw positioned text fragments per page.
func (p *pdfProcessor) ExtractGlyphs(pdfData []byte) ([][]extract.Glyph, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, err
	}

	var pages [][]extract.Glyph
	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, pageGlyphs(page))
	}
	return pages, nil
}

func pageGlyphs(page pdf.Page) []extract.Glyph {
	content := page.Content()
	glyphs := make([]extract.Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, extract.Glyph{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return glyphs
}

// Validate runs a pdfcpu structural validation so corrupt files fail fast at
// the batch boundary instead of panicking mid-extraction. pdfcpu's API wants
// a file, so the bytes go through a temp file.
func (p *pdfProcessor) Validate(pdfData []byte) error {
	tempFile, err := os.CreateTemp("", "bill-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(tempFile.Name(), conf); err != nil {
		return fmt.Errorf("pdf validation failed: %w", err)
	}
	return nil
}
