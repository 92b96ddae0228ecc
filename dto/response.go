package dto

import "errors"

// ErrNoText marks a document whose decoder returned empty text (likely a
// scanned image PDF). The document is skipped, not failed.
var ErrNoText = errors.New("no text extracted from document")

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractionResponse is the final response structure
type ExtractionResponse struct {
	Records     []InvoiceRecord `json:"records"`
	Skipped     []string        `json:"skipped,omitempty"`
	Failed      []string        `json:"failed,omitempty"`
	ProcessedAt string          `json:"processed_at"`
}
