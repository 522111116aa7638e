package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/sitegrep/internal/config"
	"github.com/nao1215/sitegrep/internal/crawler"
	"github.com/nao1215/sitegrep/internal/database"
	"github.com/nao1215/sitegrep/internal/log"
	"github.com/nao1215/sitegrep/internal/model"
	"github.com/nao1215/sitegrep/internal/report"
	"github.com/spf13/cobra"
)

// runSearchCmd executes the search from the root command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	// Bare invocation shows help instead of a missing-argument error.
	if len(args) == 0 {
		return cmd.Help()
	}

	// Build config from flags and positional arguments
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runSearch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and positional
// arguments. args[0] is the start URL and args[1] the query.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) > 0 {
		cfg.Seed = args[0]
	}
	if len(args) > 1 {
		cfg.Query = args[1]
	}

	// Get flag values
	var err error

	cfg.Workers, err = cmd.Flags().GetInt("threads")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Rate, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.CSVFile, err = cmd.Flags().GetString("csv")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save to the history database using the XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Attribute values are trimmed so page text never floods the log.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewCrawlLogger(os.Stderr, verbose)
}

// runSearch executes the crawl and writes every artifact the config asks
// for: the CSV match list, the report, and the history database row.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting search",
		"seed", cfg.Seed,
		"query", cfg.Query,
		"workers", cfg.Workers,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.SearchDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Apply site-specific configuration for the seed's host
	siteConfig := getSiteConfig(cfg)

	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}
	rate := cfg.Rate
	if siteConfig.Rate > 0 {
		rate = siteConfig.Rate
	}
	maxPages := cfg.MaxPages
	if siteConfig.MaxPages > 0 {
		maxPages = siteConfig.MaxPages
	}

	opts := []crawler.SchedulerOption{
		crawler.WithWorkers(cfg.Workers),
		crawler.WithUserAgent(userAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithLogger(logger),
	}
	if maxPages > 0 {
		opts = append(opts, crawler.WithMaxPages(maxPages))
	}
	if rate > 0 {
		opts = append(opts, crawler.WithRateLimit(rate))
	}
	if len(siteConfig.Headers) > 0 {
		opts = append(opts, crawler.WithHeaders(siteConfig.Headers))
	}

	client := &http.Client{Timeout: cfg.Timeout}
	scheduler := crawler.NewScheduler(client, opts...)

	// The report carries the same normalized seed and lowered query the
	// crawler works with, so stored runs match what was actually searched.
	runReport := model.NewRunReport(
		crawler.NormalizeURL(cfg.Seed),
		crawler.NewMatcher(cfg.Query).Query(),
		cfg.Workers,
	)

	fmt.Printf("Searching %s for %q...\n", cfg.Seed, cfg.Query)

	matches, err := scheduler.Run(ctx, cfg.Seed, cfg.Query)
	if err != nil {
		// An interrupted crawl still produced results worth reporting.
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		logger.Warn("crawl interrupted, writing partial results", "error", err)
	}

	elapsed := time.Since(runReport.StartedAt)
	fmt.Printf("Search completed in %s\n\n", elapsed.Round(time.Millisecond))

	runReport.Duration = elapsed
	runReport.Stats = scheduler.Stats()
	runReport.Matches = matches
	runReport.Failures = scheduler.Failures()

	// The CSV match list is always written, even with zero matches, so
	// downstream tooling can rely on the file existing.
	if err := writeCSV(cfg, runReport); err != nil {
		return err
	}

	// Generate and output report
	if err := outputReport(cfg, runReport); err != nil {
		return err
	}

	// Save to database if enabled
	if err := saveRunReport(ctx, db, runReport, logger); err != nil {
		logger.Error("failed to save run report", "seed", runReport.Seed, "error", err)
	}

	return nil
}

// getSiteConfig returns the site-specific configuration for the seed's
// host. Falls back to defaults when the host has no entry.
func getSiteConfig(cfg *config.Config) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	u, err := url.Parse(cfg.Seed)
	if err != nil {
		return cfg.SiteConfigs.Defaults
	}

	return cfg.SiteConfigs.GetSiteConfig(u.Hostname())
}

// writeCSV writes the match list to the configured CSV file.
func writeCSV(cfg *config.Config, runReport *model.RunReport) error {
	// Create directories if they don't exist
	dir := filepath.Dir(cfg.CSVFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create CSV directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.CSVFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	if _, err := report.NewCSVWriter(f).Write(runReport); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}

	fmt.Printf("Match list written to %s\n", cfg.CSVFile)
	return nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full report wrapped with the tool version)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(runReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(runReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(runReport)
	return err
}

// saveRunReport saves the run report to the database.
// If db is nil, this function is a no-op.
//
// The save ignores the crawl context's cancellation: an interrupted run
// still produced partial results worth keeping, and the insert is quick.
func saveRunReport(ctx context.Context, db *database.SearchDB, runReport *model.RunReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRunReport(context.WithoutCancel(ctx), runReport)
	if err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	logger.Info("run report saved to database", "id", id, "seed", runReport.Seed)
	return nil
}
