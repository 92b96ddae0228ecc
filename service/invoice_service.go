package service

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OtavioDayrots/Energy-Bill-Parser/dto"
	"github.com/OtavioDayrots/Energy-Bill-Parser/extract"
)

// InvoiceService drives the extraction engine over single documents and
// whole batches. One bad document never takes the batch down.
type InvoiceService struct {
	processor PDFProcessor
	engine    *extract.Engine
}

func NewInvoiceService(processor PDFProcessor, engine *extract.Engine) *InvoiceService {
	return &InvoiceService{
		processor: processor,
		engine:    engine,
	}
}

// lazyLayout defers glyph decoding until the engine actually needs the
// layout fallback.
type lazyLayout struct {
	processor PDFProcessor
	data      []byte
}

func (l *lazyLayout) Pages() ([][]extract.Glyph, error) {
	return l.processor.ExtractGlyphs(l.data)
}

// ProcessBytes runs validation and extraction over one in-memory document.
// Returns (nil, dto.ErrNoText) for documents with no extractable text.
func (s *InvoiceService) ProcessBytes(name string, data []byte) (*dto.InvoiceRecord, error) {
	if err := s.processor.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid pdf %s: %w", name, err)
	}

	text, err := s.processor.ExtractText(data)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed for %s: %w", name, err)
	}

	return s.engine.Extract(extract.Document{
		Path:   name,
		Text:   text,
		Layout: &lazyLayout{processor: s.processor, data: data},
	})
}

// ProcessFile reads and processes a single PDF from disk.
func (s *InvoiceService) ProcessFile(path string) (*dto.InvoiceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.ProcessBytes(path, data)
}

// ProcessBatch processes every path, keeping going on failures: documents
// with no text land in Skipped, unexpected faults (including panics inside
// the heuristics) land in Failed and are logged.
func (s *InvoiceService) ProcessBatch(paths []string) dto.ExtractionResponse {
	response := dto.ExtractionResponse{
		ProcessedAt: time.Now().Format(time.RFC3339),
	}

	for _, path := range paths {
		record, err := s.processOne(path)
		switch {
		case errors.Is(err, dto.ErrNoText):
			log.Printf("Skipping %s: no text extracted (scanned pdf?)", path)
			response.Skipped = append(response.Skipped, path)
		case err != nil:
			log.Printf("Failed to process %s: %v", path, err)
			response.Failed = append(response.Failed, path)
		case record != nil:
			response.Records = append(response.Records, *record)
		}
	}
	return response
}

// processOne wraps ProcessFile with panic recovery so a single malformed
// document cannot abort the batch.
func (s *InvoiceService) processOne(path string) (record *dto.InvoiceRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("panic while processing %s: %v", path, r)
		}
	}()
	return s.ProcessFile(path)
}

// ListPDFs expands a file or directory path into the PDF files underneath.
func ListPDFs(inputPath string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if strings.HasSuffix(strings.ToLower(inputPath), ".pdf") {
			return []string{inputPath}, nil
		}
		return nil, fmt.Errorf("not a pdf file: %s", inputPath)
	}

	var collected []string
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".pdf") {
			collected = append(collected, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collected, nil
}
