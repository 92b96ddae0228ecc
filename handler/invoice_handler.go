package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OtavioDayrots/Energy-Bill-Parser/dto"
	"github.com/OtavioDayrots/Energy-Bill-Parser/service"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	reportService  *service.ReportService
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, reportService *service.ReportService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		reportService:  reportService,
	}
}

// Extract handles POST /invoices/extract: uploaded PDFs in, resolved field
// records out as JSON.
func (h *InvoiceHandler) Extract(c *gin.Context) {
	records, skipped, failed, ok := h.processUpload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ExtractionResponse{
		Records:     records,
		Skipped:     skipped,
		Failed:      failed,
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// Report handles POST /invoices/report: same input, xlsx attachment out.
func (h *InvoiceHandler) Report(c *gin.Context) {
	records, _, _, ok := h.processUpload(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="faturas.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.reportService.Write(records, c.Writer); err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to write report", err)
	}
}

func (h *InvoiceHandler) processUpload(c *gin.Context) ([]dto.InvoiceRecord, []string, []string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return nil, nil, nil, false
	}

	request := &dto.ExtractionRequest{Files: form.File["files[]"]}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return nil, nil, nil, false
	}

	log.Printf("Processing %d uploaded files", len(request.Files))

	var records []dto.InvoiceRecord
	var skipped, failed []string
	for _, fileHeader := range request.Files {
		f, err := fileHeader.Open()
		if err != nil {
			failed = append(failed, fileHeader.Filename)
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			failed = append(failed, fileHeader.Filename)
			continue
		}

		record, err := h.invoiceService.ProcessBytes(fileHeader.Filename, data)
		switch {
		case record != nil:
			records = append(records, *record)
		case err != nil:
			log.Printf("Upload %s not processed: %v", fileHeader.Filename, err)
			if errors.Is(err, dto.ErrNoText) {
				skipped = append(skipped, fileHeader.Filename)
			} else {
				failed = append(failed, fileHeader.Filename)
			}
		}
	}
	return records, skipped, failed, true
}

func (h *InvoiceHandler) sendError(c *gin.Context, code int, message string, err error) {
	resp := dto.ErrorResponse{
		Error:   message,
		Message: message,
		Code:    code,
	}
	if err != nil {
		resp.Message = fmt.Sprintf("%s: %v", message, err)
	}
	c.JSON(code, resp)
}
