package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen for ordinary public websites; everything can be
// overridden via CLI flags or the .sitegrep configuration file.
const (
	// DefaultWorkers is the size of the crawl worker pool. Eight concurrent
	// requests is enough to keep a crawl moving without looking like a flood
	// to a small site.
	DefaultWorkers = 8

	// DefaultTimeout is the per-request timeout. Ten seconds is generous for
	// a healthy public site; anything slower is treated as a failed fetch
	// rather than allowed to stall a worker indefinitely.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxPages of 0 means unbounded: the crawl visits every in-scope
	// page it can reach. Users crawling very large sites can cap the run via
	// the --max-pages CLI flag.
	DefaultMaxPages = 0

	// DefaultRate of 0 disables request-rate limiting. When set via --rate,
	// the value is requests per second shared across all workers.
	DefaultRate = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "sitegrep"

	// DefaultUserAgent identifies sitegrep in HTTP requests.
	// A descriptive User-Agent lets operators identify crawler traffic
	// in their logs.
	DefaultUserAgent = "sitegrep/1.0 (site text search)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultCSVFile is the results artifact written after every run.
	DefaultCSVFile = "search_results.csv"
)

// Config holds all configuration options for one sitegrep run.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
// It is read-only once the run starts.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Seed is the homepage URL the crawl starts from.
	Seed string

	// Query is the text to search every page for. Matching is
	// case-insensitive; the stored results carry the lower-cased form.
	Query string

	// Workers is the fixed size of the worker pool for the whole run.
	// The pool is shared; discovered links feed back into one queue
	// rather than spawning further pools.
	Workers int

	// Timeout is the timeout for each HTTP request.
	// This applies to individual requests, not the overall run duration.
	Timeout time.Duration

	// MaxPages is the maximum number of pages to fetch.
	// Zero means unbounded.
	MaxPages int

	// Rate is the maximum number of requests per second across all workers.
	// Zero disables rate limiting. This is a global politeness setting,
	// not a per-host budget.
	Rate float64

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitegrep in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the config file.
	// This is populated by LoadConfigFile and consulted for the seed's host.
	SiteConfigs *File

	// CSVFile is the path of the CSV results artifact.
	// The file is written after every run, even when there are no matches.
	CSVFile string

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the run report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite history database.
	// Defaults to the XDG data directory (~/.local/share/sitegrep on Linux).
	DBDir string

	// SaveToDB indicates whether to record the run in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (timeout, worker count).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Workers:     DefaultWorkers,
		Timeout:     DefaultTimeout,
		MaxPages:    DefaultMaxPages,
		Rate:        DefaultRate,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		CSVFile:     DefaultCSVFile,
	}
}

// XDGDataDir returns the XDG data directory for sitegrep.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitegrep
// On macOS: ~/Library/Application Support/sitegrep
// On Windows: %LOCALAPPDATA%\sitegrep
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitegrep.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/sitegrep
// On macOS: ~/Library/Application Support/sitegrep
// On Windows: %APPDATA%\sitegrep
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The seed URL and query are the two mandatory positional inputs
	if c.Seed == "" {
		return ErrNoSeed
	}
	if c.Query == "" {
		return ErrNoQuery
	}

	// Workers must be positive; zero workers would mean no crawling
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// MaxPages must be non-negative; zero means unbounded
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	// Rate must be non-negative; zero means unlimited
	if c.Rate < 0 {
		return ErrInvalidRate
	}

	// MaxBodySize must be non-negative; zero means use the default limit
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
