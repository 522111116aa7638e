package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sitegrep/internal/model"
)

// defaultWorkers is the worker pool size when none is configured.
const defaultWorkers = 8

// Scheduler coordinates a concurrent crawl: a fixed pool of workers pulls
// URLs from a shared queue, claims each against the frontier, fetches and
// searches the page, and feeds discovered links back into the queue. The
// crawl ends when the queue drains or the context is canceled.
//
// A Scheduler is reusable across sequential runs but must not execute two
// Runs concurrently.
type Scheduler struct {
	// client performs HTTP requests for the whole run.
	client *http.Client

	// workers is the fixed number of crawl goroutines.
	workers int

	// maxPages caps how many pages are processed. Zero or negative means
	// unbounded.
	maxPages int

	// userAgent, headers, ratePerSec, and maxBodySize configure the Fetcher.
	userAgent   string
	headers     map[string]string
	ratePerSec  float64
	maxBodySize int64

	// logger receives structured crawl progress output.
	logger *slog.Logger

	// fetcher retrieves pages; built once in NewScheduler.
	fetcher *Fetcher

	// Per-run state, reset at the top of Run.
	frontier *Frontier
	queue    *taskQueue
	agg      *Aggregator
	matcher  *Matcher

	// Counters for CrawlStats, reset per run.
	claimed atomic.Int64
	fetched atomic.Int64
	failed  atomic.Int64
	links   atomic.Int64
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWorkers sets the worker pool size. Values below one are ignored.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxPages caps the number of pages processed in one run.
// Zero means unbounded.
func WithMaxPages(n int) SchedulerOption {
	return func(s *Scheduler) {
		s.maxPages = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) SchedulerOption {
	return func(s *Scheduler) {
		s.userAgent = ua
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) SchedulerOption {
	return func(s *Scheduler) {
		s.headers = headers
	}
}

// WithRateLimit paces requests to at most perSec per second across all
// workers. Zero disables pacing.
func WithRateLimit(perSec float64) SchedulerOption {
	return func(s *Scheduler) {
		s.ratePerSec = perSec
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) SchedulerOption {
	return func(s *Scheduler) {
		s.maxBodySize = size
	}
}

// WithLogger sets a custom logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler creates a Scheduler that crawls through the given HTTP
// client. The client's timeout and redirect policy apply to every fetch.
func NewScheduler(client *http.Client, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		client:  client,
		workers: defaultWorkers,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	fetchOpts := make([]FetcherOption, 0, 4)
	if s.userAgent != "" {
		fetchOpts = append(fetchOpts, WithFetchUserAgent(s.userAgent))
	}
	if len(s.headers) > 0 {
		fetchOpts = append(fetchOpts, WithFetchHeaders(s.headers))
	}
	if s.ratePerSec > 0 {
		fetchOpts = append(fetchOpts, WithFetchRateLimit(s.ratePerSec))
	}
	if s.maxBodySize > 0 {
		fetchOpts = append(fetchOpts, WithFetchMaxBodySize(s.maxBodySize))
	}
	s.fetcher = NewFetcher(client, fetchOpts...)

	return s
}

// Run crawls from seedURL and returns every (query, URL) match found.
//
// The seed must be an absolute http or https URL; anything else fails
// before the crawl starts. Once crawling begins, individual page failures
// never abort the run: they are recorded and reachable via Failures. A
// seed that parses but cannot be fetched therefore yields an empty result
// and a nil error.
//
// On cancellation Run returns the matches collected so far together with
// the context's error.
func (s *Scheduler) Run(ctx context.Context, seedURL, query string) ([]model.Match, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return nil, fmt.Errorf("start URL %q must use http or https", seedURL)
	}
	if seed.Host == "" {
		return nil, fmt.Errorf("start URL %q has no host", seedURL)
	}

	// Fresh per-run state so a Scheduler can be reused.
	s.frontier = NewFrontier()
	s.queue = newTaskQueue()
	s.agg = NewAggregator()
	s.matcher = NewMatcher(query)
	s.claimed.Store(0)
	s.fetched.Store(0)
	s.failed.Store(0)
	s.links.Store(0)

	s.logger.Info("starting crawl",
		"seed", seedURL,
		"query", s.matcher.Query(),
		"workers", s.workers,
	)

	s.queue.Push(NormalizeURL(seed.String()))

	g, gctx := errgroup.WithContext(ctx)

	// Cancellation must release workers blocked in Pop; closing the queue
	// wakes them and drops any links still being pushed.
	stop := context.AfterFunc(gctx, s.queue.Close)
	defer stop()

	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			return s.work(gctx)
		})
	}

	err = g.Wait()

	s.logger.Info("crawl finished",
		"claimed", s.claimed.Load(),
		"fetched", s.fetched.Load(),
		"failed", s.failed.Load(),
		"matches", len(s.agg.Matches()),
	)

	return s.agg.Matches(), err
}

// work is one worker's loop: pop, process, repeat until the queue drains
// or the context is canceled.
func (s *Scheduler) work(ctx context.Context) error {
	for {
		pageURL, ok := s.queue.Pop()
		if !ok {
			// Drained or canceled; ctx.Err() is nil on a normal drain.
			return ctx.Err()
		}

		s.process(ctx, pageURL)
		s.queue.Done()
	}
}

// process handles a single popped URL: claim, fetch, search, and push the
// page's links. Page-level failures are recorded, never returned.
func (s *Scheduler) process(ctx context.Context, pageURL string) {
	if !s.frontier.Claim(pageURL) {
		return
	}

	claims := s.claimed.Add(1)
	if s.maxPages > 0 && claims > int64(s.maxPages) {
		return
	}

	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		// A canceled run aborts in-flight fetches; those are shutdown
		// noise, not page failures.
		if ctx.Err() != nil {
			return
		}
		s.failed.Add(1)
		s.recordFetchFailure(pageURL, err)
		return
	}
	s.fetched.Add(1)

	extractor, err := NewExtractor(pageURL)
	if err != nil {
		s.failed.Add(1)
		s.agg.AddFailure(model.FetchFailure{URL: pageURL, Kind: model.FailureKindParse, Message: err.Error()})
		return
	}

	content, err := extractor.Extract(bytes.NewReader(page.Body))
	if err != nil {
		s.failed.Add(1)
		s.agg.AddFailure(model.FetchFailure{URL: pageURL, Kind: model.FailureKindParse, Message: err.Error()})
		s.logger.Warn("parse failed", "url", pageURL, "error", err)
		return
	}

	if s.matcher.Match(content.Text) {
		s.agg.AddMatch(model.Match{Query: s.matcher.Query(), URL: pageURL})
		s.logger.Debug("query matched", "url", pageURL)
	}

	for _, link := range content.Links {
		s.links.Add(1)
		normalized := NormalizeURL(link)
		if s.frontier.Seen(normalized) {
			continue
		}
		s.queue.Push(normalized)
	}

	s.logger.Debug("page processed",
		"url", pageURL,
		"status", page.StatusCode,
		"links", len(content.Links),
	)
}

// recordFetchFailure stores a fetch error in the aggregator, classifying
// it by the FetchError kind when available.
func (s *Scheduler) recordFetchFailure(pageURL string, err error) {
	kind := model.FailureKindNetwork
	message := err.Error()

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		kind = string(fetchErr.Kind)
		if fetchErr.Kind == FetchErrorStatus {
			message = fmt.Sprintf("unexpected status %d", fetchErr.StatusCode)
		} else if fetchErr.Err != nil {
			message = fetchErr.Err.Error()
		}
	}

	s.agg.AddFailure(model.FetchFailure{URL: pageURL, Kind: kind, Message: message})
	s.logger.Warn("fetch failed", "url", pageURL, "error", err)
}

// Stats returns counters from the most recent Run.
func (s *Scheduler) Stats() model.CrawlStats {
	return model.CrawlStats{
		URLsClaimed:     int(s.claimed.Load()),
		PagesFetched:    int(s.fetched.Load()),
		PagesFailed:     int(s.failed.Load()),
		LinksDiscovered: int(s.links.Load()),
	}
}

// Failures returns the page failures recorded by the most recent Run.
func (s *Scheduler) Failures() []model.FetchFailure {
	if s.agg == nil {
		return nil
	}
	return s.agg.Failures()
}
