package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"finance-import/internal/client"
	"finance-import/internal/config"
	"finance-import/internal/models"
	"finance-import/internal/service"
)

func main() {
	reportPath := flag.String("report", "", "write an xlsx error report to this path")
	interval := flag.Duration("interval", 0, "poll interval (overrides IMPORT_POLL_INTERVAL)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-report out.xlsx] [-interval 2s] file.csv\n", os.Args[0])
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *interval > 0 {
		cfg.PollInterval = *interval
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", filePath, err)
	}

	// Ctrl-C stops the poll loop before the next fetch
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewImportClient(cfg.ImportAPIURL, cfg.HTTPTimeout)
	importService := service.NewImportService(api, cfg.PollInterval, cfg.MaxWait)

	result, err := importService.Run(ctx, string(content), func(job *models.ImportJob) {
		p := job.Progress
		fmt.Printf("[%s] %s %d/%d (%d%%)\n", job.State, p.Stage, p.Current, p.Total, p.Percentage)
	})
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Imported: %d, skipped: %d, errors: %d\n", result.Imported, result.Skipped, len(result.Errors))
	for _, msg := range result.Errors {
		fmt.Printf("  %s\n", msg)
	}

	if *reportPath != "" {
		if err := service.WriteErrorReport(result, *reportPath); err != nil {
			log.Printf("Failed to write report: %v", err)
		} else {
			fmt.Printf("Report written to %s\n", *reportPath)
		}
	}
}
