package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"property-analytics/analytics"
	"property-analytics/config"
	"property-analytics/scraper/rightmove"
	"property-analytics/server"
	"property-analytics/services"
	"property-analytics/storage"
	"property-analytics/utils"
)

const usage = `usage:
  property-analytics [serve]          run the HTTP API
  property-analytics scrape <url>     scrape one search and print insights`

func main() {
	cfg := config.Load()

	logger, err := utils.NewLoggerFor(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	code := run(os.Args[1:], cfg, logger)
	// os.Exit skips deferred calls, so flush here.
	_ = logger.Sync()
	os.Exit(code)
}

// run dispatches the subcommand and returns the process exit code.
func run(args []string, cfg *config.Config, logger *utils.Logger) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(cfg, logger)
	case "scrape":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, usage)
			return 2
		}
		err = scrape(cfg, logger, args[1])
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

func serve(cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== Property Analytics API starting ===")
	logger.Info("Config: port %d | query limit %d | max stored %d | concurrency %d | rate %dms",
		cfg.HTTPPort, cfg.QueryLimit, cfg.MaxStoredEntries, cfg.MaxConcurrency, cfg.RateLimitMs)

	view, err := config.LoadView(cfg.ViewConfigPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewPostgresStore(ctx, cfg.DSN())
	if err != nil {
		logger.Error("Make sure Docker is running: docker compose up -d")
		return fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	defer store.Close()

	props := services.NewPropertyService(store, rightmove.New(cfg, logger), logger, services.PropertyOptions{
		QueryLimit:       cfg.QueryLimit,
		MaxStoredEntries: cfg.MaxStoredEntries,
		PruneOrigins:     cfg.PruneOrigins,
	})

	srv := server.New(server.Config{
		Port:        cfg.HTTPPort,
		CORSOrigins: cfg.CORSOrigins,
		View:        view,
	}, props, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// scrape runs one search end to end: raw CSV dump, cleaning, storage and
// the terminal report.
func scrape(cfg *config.Config, logger *utils.Logger, searchURL string) error {
	logger.Info("=== Rightmove scrape starting ===")
	logger.Info("Config: pages %d | concurrency %d | rate %dms", cfg.PagesToScrape, cfg.MaxConcurrency, cfg.RateLimitMs)

	view, err := config.LoadView(cfg.ViewConfigPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		return fmt.Errorf("create CSV writer: %w", err)
	}
	defer csvWriter.Close()

	rawListings, err := rightmove.New(cfg, logger).Scrape(ctx, searchURL)
	if err != nil {
		logger.Error("Rightmove scrape failed: %v", err)
	}
	if len(rawListings) == 0 {
		return fmt.Errorf("no listings were scraped")
	}
	for _, r := range rawListings {
		r.SearchOrigin = searchURL
	}

	logger.Info("Scraped %d raw listings, writing to CSV...", len(rawListings))
	if err := csvWriter.WriteRaw(rawListings); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Raw listings saved to %s", cfg.CSVOutputPath)
	}

	cleanListings := services.NewCleaner(logger).Clean(rawListings)
	if len(cleanListings) == 0 {
		return fmt.Errorf("all listings were dropped during cleaning")
	}

	listings := cleanListings
	store, err := storage.NewPostgresStore(ctx, cfg.DSN())
	if err != nil {
		logger.Warn("PostgreSQL unavailable, reporting on scraped data only: %v", err)
	} else {
		defer store.Close()
		if err := store.Write(ctx, cleanListings); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else if stored, err := store.FetchBySearchOrigin(ctx, searchURL, cfg.QueryLimit); err != nil {
			logger.Error("Failed to fetch listings from DB for insights: %v", err)
		} else if len(stored) > 0 {
			listings = stored
		}
	}

	report, err := analytics.Run(listings, view)
	if err != nil {
		return fmt.Errorf("analytics: %w", err)
	}

	insights := services.NewInsightService(logger)
	insights.Print(report, insights.Summarize(listings))

	fmt.Printf("  Done. Raw CSV → %s | Clean data → PostgreSQL (properties table)\n\n", cfg.CSVOutputPath)
	return nil
}
