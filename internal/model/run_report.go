package model

import "time"

// RunReport is the full result of one crawl run.
// It contains everything the report writers and the history database need.
//
// Design decision: We use a single flat struct rather than nesting the crawl
// output inside the configuration because report writers and the database
// consume the run as one unit, and a flat shape serializes cleanly.
type RunReport struct {
	// Seed is the normalized start URL the crawl began from.
	Seed string `json:"seed"`

	// Query is the lower-cased search term tested against every page.
	Query string `json:"query"`

	// Workers is the size of the worker pool used for the run.
	Workers int `json:"workers"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock time the run took.
	Duration time.Duration `json:"duration_ns"`

	// Stats holds the run counters.
	Stats CrawlStats `json:"stats"`

	// Matches contains every (query, URL) hit, in no particular order.
	Matches []Match `json:"matches,omitempty"`

	// Failures lists URLs that could not be fetched or parsed.
	Failures []FetchFailure `json:"failures,omitempty"`
}

// CrawlStats holds the counters accumulated over one run.
type CrawlStats struct {
	// URLsClaimed is the number of distinct URLs claimed for processing.
	URLsClaimed int `json:"urls_claimed"`

	// PagesFetched is the number of pages retrieved successfully.
	PagesFetched int `json:"pages_fetched"`

	// PagesFailed is the number of tasks that ended in a fetch or parse error.
	PagesFailed int `json:"pages_failed"`

	// LinksDiscovered is the number of in-scope links found across all pages,
	// counted after per-page deduplication but before frontier deduplication.
	LinksDiscovered int `json:"links_discovered"`
}

// RunSummary is a compact view of one stored run, used by history listings.
type RunSummary struct {
	// ID is the database identifier of the run.
	ID int64 `json:"id"`

	// Seed is the start URL of the run.
	Seed string `json:"seed"`

	// Query is the search term of the run.
	Query string `json:"query"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock time the run took.
	Duration time.Duration `json:"duration_ns"`

	// PagesFetched is the number of pages retrieved successfully.
	PagesFetched int `json:"pages_fetched"`

	// PagesFailed is the number of failed tasks.
	PagesFailed int `json:"pages_failed"`

	// MatchCount is the number of matches the run produced.
	MatchCount int `json:"match_count"`
}

// NewRunReport creates a report for a run that is about to start.
// Matches, failures, statistics, and duration are filled in on completion.
func NewRunReport(seed, query string, workers int) *RunReport {
	return &RunReport{
		Seed:      seed,
		Query:     query,
		Workers:   workers,
		StartedAt: time.Now(),
	}
}

// MatchCount returns the number of matches in the report.
func (r *RunReport) MatchCount() int {
	return len(r.Matches)
}
