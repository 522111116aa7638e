package main

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sitegrep/internal/config"
	"github.com/nao1215/sitegrep/internal/crawler"
	"github.com/nao1215/sitegrep/internal/database"
)

// newTestSite starts an in-process site with a small page graph:
//
//	/        -> links to /menu, /about, /broken; no query match
//	/menu    -> matches (uppercase); links back to /
//	/about   -> matches (lowercase); links to /menu
//	/broken  -> responds 500
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
			<h1>Welcome to the cafe</h1>
			<a href="/menu">Menu</a>
			<a href="/about">About</a>
			<a href="/broken">Broken</a>
		</body></html>`))
	})
	mux.HandleFunc("/menu", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
			<p>Fresh COFFEE and pastries every morning.</p>
			<a href="/">Home</a>
		</body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
			<p>We roast our coffee beans daily.</p>
			<a href="/menu">Menu</a>
		</body></html>`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestRunSearchIntegration runs a full search against an in-process site
// and verifies every artifact: the CSV match list, the report file, and
// the history database.
func TestRunSearchIntegration(t *testing.T) {
	// Note: Not using t.Parallel() because runSearch prints progress to stdout

	server := newTestSite(t)
	tmpDir := t.TempDir()

	cfg := config.NewConfig()
	cfg.Seed = server.URL
	cfg.Query = "Coffee" // mixed case; matching must be case-insensitive
	cfg.Workers = 4
	cfg.Timeout = 5 * time.Second
	cfg.CSVFile = filepath.Join(tmpDir, "out", "matches.csv")
	cfg.ReportFile = filepath.Join(tmpDir, "report.txt")
	cfg.SaveToDB = true
	cfg.DBDir = filepath.Join(tmpDir, "db")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx := context.Background()

	if err := runSearch(ctx, cfg, logger); err != nil {
		t.Fatalf("runSearch() error = %v", err)
	}

	seed := crawler.NormalizeURL(server.URL)
	wantMatches := map[string]bool{
		seed + "menu":  true,
		seed + "about": true,
	}

	t.Run("CSV match list", func(t *testing.T) {
		f, err := os.Open(cfg.CSVFile)
		if err != nil {
			t.Fatalf("failed to open CSV: %v", err)
		}
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected header + 2 match rows, got %d records", len(records))
		}
		if records[0][0] != "Text" || records[0][1] != "URL" {
			t.Errorf("unexpected header: %v", records[0])
		}
		for _, record := range records[1:] {
			if record[0] != "coffee" {
				t.Errorf("expected lowered query 'coffee', got %q", record[0])
			}
			if !wantMatches[record[1]] {
				t.Errorf("unexpected match URL %q", record[1])
			}
		}
	})

	t.Run("report file", func(t *testing.T) {
		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		content := string(data)
		if !strings.Contains(content, "SITEGREP REPORT") {
			t.Error("expected report header")
		}
		if !strings.Contains(content, "Query:      \"coffee\"") {
			t.Error("expected lowered query in report")
		}
		if !strings.Contains(content, "Pages fetched:    3") {
			t.Errorf("expected 3 fetched pages, report was:\n%s", content)
		}
		if !strings.Contains(content, "Pages failed:     1") {
			t.Errorf("expected 1 failed page, report was:\n%s", content)
		}
		if !strings.Contains(content, "MATCHES:          2") {
			t.Errorf("expected 2 matches, report was:\n%s", content)
		}
		if !strings.Contains(content, "[status] "+seed+"broken") {
			t.Error("expected broken page in failure section")
		}
	})

	t.Run("history database", func(t *testing.T) {
		db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(ctx, "", 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 stored run, got %d", len(runs))
		}

		run := runs[0]
		if run.Seed != seed {
			t.Errorf("expected seed %q, got %q", seed, run.Seed)
		}
		if run.Query != "coffee" {
			t.Errorf("expected query 'coffee', got %q", run.Query)
		}
		if run.MatchCount != 2 {
			t.Errorf("expected 2 matches, got %d", run.MatchCount)
		}
		if run.PagesFetched != 3 {
			t.Errorf("expected 3 fetched pages, got %d", run.PagesFetched)
		}
		if run.PagesFailed != 1 {
			t.Errorf("expected 1 failed page, got %d", run.PagesFailed)
		}

		matches, err := db.GetMatchesByRunID(ctx, run.ID)
		if err != nil {
			t.Fatalf("failed to get matches: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("expected 2 stored matches, got %d", len(matches))
		}
		for _, m := range matches {
			if !wantMatches[m.URL] {
				t.Errorf("unexpected stored match URL %q", m.URL)
			}
		}
	})
}

// TestRunSearchIntegrationCancelled verifies an interrupted run still
// writes its artifacts and records the partial run in the database.
func TestRunSearchIntegrationCancelled(t *testing.T) {
	// Note: Not using t.Parallel() because runSearch prints progress to stdout

	tmpDir := t.TempDir()

	cfg := config.NewConfig()
	// Nothing listens here; the cancelled context stops the run before
	// retries matter.
	cfg.Seed = "http://127.0.0.1:1/"
	cfg.Query = "coffee"
	cfg.Workers = 2
	cfg.Timeout = time.Second
	cfg.CSVFile = filepath.Join(tmpDir, "matches.csv")
	cfg.ReportFile = filepath.Join(tmpDir, "report.txt")
	cfg.SaveToDB = true
	cfg.DBDir = filepath.Join(tmpDir, "db")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runSearch(ctx, cfg, logger); err != nil {
		t.Fatalf("expected partial results without error, got %v", err)
	}

	data, err := os.ReadFile(cfg.CSVFile)
	if err != nil {
		t.Fatalf("expected CSV file: %v", err)
	}
	if !strings.HasPrefix(string(data), "Text,URL") {
		t.Errorf("expected CSV header, got %q", string(data))
	}

	if _, err := os.Stat(cfg.ReportFile); err != nil {
		t.Errorf("expected report file: %v", err)
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected the interrupted run to be stored, got %d runs", len(runs))
	}
	if runs[0].MatchCount != 0 {
		t.Errorf("expected 0 matches, got %d", runs[0].MatchCount)
	}
}

// TestRunSearchIntegrationMaxPages verifies the page budget stops the
// crawl before the whole site is visited.
func TestRunSearchIntegrationMaxPages(t *testing.T) {
	// Note: Not using t.Parallel() because runSearch prints progress to stdout

	server := newTestSite(t)
	tmpDir := t.TempDir()

	cfg := config.NewConfig()
	cfg.Seed = server.URL
	cfg.Query = "coffee"
	cfg.Workers = 1
	cfg.MaxPages = 1
	cfg.Timeout = 5 * time.Second
	cfg.CSVFile = filepath.Join(tmpDir, "matches.csv")
	cfg.ReportFile = filepath.Join(tmpDir, "report.txt")
	cfg.SaveToDB = true
	cfg.DBDir = filepath.Join(tmpDir, "db")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx := context.Background()

	if err := runSearch(ctx, cfg, logger); err != nil {
		t.Fatalf("runSearch() error = %v", err)
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(ctx, "", 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 stored run, got %d", len(runs))
	}

	// Only the homepage fits the budget, and it has no match.
	if runs[0].PagesFetched != 1 {
		t.Errorf("expected 1 fetched page, got %d", runs[0].PagesFetched)
	}
	if runs[0].MatchCount != 0 {
		t.Errorf("expected 0 matches, got %d", runs[0].MatchCount)
	}
}

// Note: Tests that drive the root command end to end (cobra parsing plus
// runSearch) are not included because buildConfig resolves the database
// location through the XDG data directory. The xdg library (adrg/xdg)
// caches XDG_DATA_HOME at package initialization time, so
// t.Setenv("XDG_DATA_HOME", tmpDir) has no effect by the time a test
// runs, and exercising the command for real would write to the user's
// actual data directory. The command path is covered instead by:
// - TestBuildConfig for flag parsing and config-file handling
// - TestRunSearchIntegration and friends, which call runSearch with an
//   explicit DBDir the way runSearchCmd does after buildConfig
