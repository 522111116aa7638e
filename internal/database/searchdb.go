package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitegrep/internal/model"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "sitegrep.db"

// SearchDB provides SQLite-based storage for run history.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We store the full report JSON alongside the summary
// columns rather than normalizing everything because the report is read
// back as one unit, while the summary columns serve listing queries
// without touching the JSON.
type SearchDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SearchDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SearchDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*SearchDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		// Check if database file exists
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SearchDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SearchDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SearchDB) createTables() error {
	schema := `
	-- Runs store one row per completed crawl with the full report as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		query TEXT NOT NULL,
		workers INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		urls_claimed INTEGER NOT NULL,
		pages_fetched INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		links_discovered INTEGER NOT NULL,
		match_count INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Matches store one row per hit so past results stay queryable by URL
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		query TEXT NOT NULL,
		url TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_matches_run ON matches(run_id);
	CREATE INDEX IF NOT EXISTS idx_matches_url ON matches(url);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRunReport saves a completed run and its matches.
// The run row and its match rows are written in one transaction.
// Returns the database ID of the stored run.
func (sdb *SearchDB) SaveRunReport(ctx context.Context, report *model.RunReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (seed, query, workers, started_at, duration_ms,
		urls_claimed, pages_fetched, pages_failed, links_discovered,
		match_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Seed,
		report.Query,
		report.Workers,
		report.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		report.Duration.Milliseconds(),
		report.Stats.URLsClaimed,
		report.Stats.PagesFetched,
		report.Stats.PagesFailed,
		report.Stats.LinksDiscovered,
		report.MatchCount(),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, match := range report.Matches {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO matches (run_id, query, url) VALUES (?, ?, ?)",
			runID, match.Query, match.URL,
		); err != nil {
			return 0, fmt.Errorf("failed to insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns summaries of stored runs, newest first.
// If seed is non-empty, only runs started from that URL are returned.
// If limit is zero or negative, all runs are returned.
func (sdb *SearchDB) ListRuns(ctx context.Context, seed string, limit int) ([]model.RunSummary, error) {
	query := `
	SELECT id, seed, query, started_at, duration_ms, pages_fetched, pages_failed, match_count
	FROM runs
	`
	args := make([]interface{}, 0, 2)

	if seed != "" {
		query += " WHERE seed = ?"
		args = append(args, seed)
	}

	query += " ORDER BY started_at DESC, id DESC LIMIT ?"
	if limit <= 0 {
		limit = -1 // SQLite: negative limit means no limit
	}
	args = append(args, limit)

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []model.RunSummary
	for rows.Next() {
		var summary model.RunSummary
		var startedAt string
		var durationMs int64

		err := rows.Scan(
			&summary.ID,
			&summary.Seed,
			&summary.Query,
			&startedAt,
			&durationMs,
			&summary.PagesFetched,
			&summary.PagesFailed,
			&summary.MatchCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}

		summary.StartedAt = parseTimestamp(startedAt)
		summary.Duration = time.Duration(durationMs) * time.Millisecond
		results = append(results, summary)
	}

	return results, rows.Err()
}

// GetRunReport retrieves a stored run report by its database ID.
// Returns nil without error when no run has that ID.
func (sdb *SearchDB) GetRunReport(ctx context.Context, id int64) (*model.RunReport, error) {
	var reportJSON string
	err := sdb.db.QueryRowContext(ctx,
		"SELECT report_json FROM runs WHERE id = ?", id,
	).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetMatchesByRunID retrieves the stored matches of one run in insert order.
func (sdb *SearchDB) GetMatchesByRunID(ctx context.Context, runID int64) ([]model.Match, error) {
	rows, err := sdb.db.QueryContext(ctx,
		"SELECT query, url FROM matches WHERE run_id = ? ORDER BY id", runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var match model.Match
		if err := rows.Scan(&match.Query, &match.URL); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// ListSeeds returns every distinct start URL that has stored runs.
func (sdb *SearchDB) ListSeeds(ctx context.Context) ([]string, error) {
	rows, err := sdb.db.QueryContext(ctx,
		"SELECT DISTINCT seed FROM runs ORDER BY seed",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds: %w", err)
	}
	defer rows.Close()

	var seeds []string
	for rows.Next() {
		var seed string
		if err := rows.Scan(&seed); err != nil {
			return nil, fmt.Errorf("failed to scan seed: %w", err)
		}
		seeds = append(seeds, seed)
	}

	return seeds, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	// This is a fallback to avoid breaking functionality for edge cases
	return time.Time{}
}
