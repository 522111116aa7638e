package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/sitegrep/internal/model"
)

// defaultUserAgent identifies the crawler to site operators.
const defaultUserAgent = "sitegrep/1.0 (site text search)"

// FetchErrorKind classifies why a page fetch failed.
type FetchErrorKind string

const (
	// FetchErrorNetwork covers transport failures: DNS errors, refused
	// connections, timeouts, canceled contexts.
	FetchErrorNetwork FetchErrorKind = "network"

	// FetchErrorStatus covers responses that arrived with a non-2xx status.
	FetchErrorStatus FetchErrorKind = "status"
)

// FetchError describes a failed page fetch. Fetch failures are expected
// during a crawl; callers record them and move on rather than aborting.
type FetchError struct {
	// URL is the page that failed.
	URL string

	// Kind classifies the failure.
	Kind FetchErrorKind

	// StatusCode is set when Kind is FetchErrorStatus.
	StatusCode int

	// Err is the underlying transport error when Kind is FetchErrorNetwork.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == FetchErrorStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves pages over HTTP.
//
// Design decision: We require an external *http.Client because:
//  1. Timeout and transport policy belong to the caller
//  2. Consistent with how the scheduler is wired from the CLI
//  3. Tests can pass an httptest server's client directly
type Fetcher struct {
	// client performs the HTTP requests.
	client *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// headers are extra headers applied to every request.
	headers map[string]string

	// maxBodySize limits how many body bytes are read per response.
	maxBodySize int64

	// limiter, when non-nil, paces requests across all callers.
	limiter *rate.Limiter
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchUserAgent sets a custom User-Agent header.
func WithFetchUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithFetchHeaders sets extra headers sent with every request.
func WithFetchHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithFetchMaxBodySize sets the maximum response body size in bytes.
func WithFetchMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithFetchRateLimit paces requests to at most perSec per second, shared
// by every goroutine using this Fetcher. Zero or negative disables pacing.
func WithFetchRateLimit(perSec float64) FetcherOption {
	return func(f *Fetcher) {
		if perSec > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   defaultUserAgent,
		maxBodySize: model.MaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves a single page.
//
// Any failure returns a *FetchError: transport problems report Kind
// FetchErrorNetwork, non-2xx responses report Kind FetchErrorStatus.
// Redirects are followed by the client, so the status seen here is the
// final one. The body is read up to the configured size limit.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: pageURL, Kind: FetchErrorNetwork, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: FetchErrorNetwork, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: FetchErrorNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: pageURL, Kind: FetchErrorStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: FetchErrorNetwork, Err: err}
	}

	return &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}, nil
}
