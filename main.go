package main

import (
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/OtavioDayrots/Energy-Bill-Parser/config"
	"github.com/OtavioDayrots/Energy-Bill-Parser/extract"
	"github.com/OtavioDayrots/Energy-Bill-Parser/handler"
	"github.com/OtavioDayrots/Energy-Bill-Parser/service"
)

func main() {
	inputPath := flag.String("input", "", "PDF file or directory to process in batch mode")
	outputPath := flag.String("output", "faturas.xlsx", "Excel output path for batch mode")
	window := flag.Int("window", 0, "Proximity search window in lines (overrides SEARCH_WINDOW)")
	debug := flag.Bool("debug", false, "Enable diagnostic output")
	flag.Parse()

	cfg := config.LoadConfig()
	if *window > 0 {
		cfg.SearchWindow = *window
	}
	if *debug {
		cfg.Debug = true
	}

	engine := extract.NewEngine(extract.Config{
		Window: cfg.SearchWindow,
		Debug:  cfg.Debug,
	})
	processor := service.NewPDFProcessor()
	invoiceService := service.NewInvoiceService(processor, engine)
	reportService := service.NewReportService()

	if *inputPath != "" {
		os.Exit(runBatch(invoiceService, reportService, *inputPath, *outputPath))
	}

	runServer(cfg, invoiceService, reportService)
}

// runBatch walks a directory of bills, extracts every field set and writes
// one spreadsheet.
func runBatch(invoiceService *service.InvoiceService, reportService *service.ReportService, inputPath, outputPath string) int {
	pdfs, err := service.ListPDFs(inputPath)
	if err != nil {
		log.Printf("Cannot read input path %s: %v", inputPath, err)
		return 2
	}
	if len(pdfs) == 0 {
		log.Printf("No PDF files found in %s", inputPath)
		return 0
	}

	result := invoiceService.ProcessBatch(pdfs)
	if len(result.Records) == 0 {
		log.Println("No bills produced records")
		return 0
	}

	if err := reportService.Save(result.Records, outputPath); err != nil {
		log.Printf("Failed to write report: %v", err)
		return 1
	}

	log.Printf("Wrote %d record(s) to %s (%d skipped, %d failed)",
		len(result.Records), outputPath, len(result.Skipped), len(result.Failed))
	return 0
}

func runServer(cfg *config.Config, invoiceService *service.InvoiceService, reportService *service.ReportService) {
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, reportService)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Energy Bill Parser",
		})
	})

	api := router.Group("/api/v1")
	{
		invoices := api.Group("/invoices")
		{
			invoices.POST("/extract", invoiceHandler.Extract)
			invoices.POST("/report", invoiceHandler.Report)
		}
	}

	log.Printf("Starting Energy Bill Parser on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
