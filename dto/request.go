package dto

import (
	"errors"
	"mime/multipart"
	"strings"
)

// ExtractionRequest represents the incoming multipart request
type ExtractionRequest struct {
	Files []*multipart.FileHeader `form:"files[]" binding:"required"`
}

// Validate performs basic validation on the request
func (r *ExtractionRequest) Validate() error {
	if len(r.Files) == 0 {
		return errors.New("at least one PDF file is required")
	}
	for _, f := range r.Files {
		if !strings.HasSuffix(strings.ToLower(f.Filename), ".pdf") {
			return errors.New("only PDF files are supported: " + f.Filename)
		}
	}
	return nil
}
