package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"oncodash/adapters/api"
	"oncodash/adapters/excel"
	"oncodash/internal/config"
)

// export fetches the evaluation report from the backend and writes it as an
// Excel workbook, for sharing outside the dashboard.
func main() {
	out := flag.String("out", "evaluation.xlsx", "output workbook path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	defer cancel()

	report, err := client.FetchEvaluationReport(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch evaluation report: %v", err)
	}
	if err := excel.SaveEvaluationWorkbook(report, *out); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}
	log.Printf("Wrote %s (%d models)", *out, len(report.Rows))
}
