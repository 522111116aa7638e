package crawler

import (
	"net/url"
	"strings"
	"sync"
)

// Frontier tracks which URLs have been claimed for processing.
// All lookups go through NormalizeURL, so two spellings of the same page
// count as one entry.
//
// Design decision: Workers claim URLs when they pop them rather than when
// they discover them because:
//  1. Claim is the single atomic check-and-mark, so the same URL can sit
//     on the queue twice without being fetched twice
//  2. Discovery-side filtering stays a cheap best-effort Seen check
//  3. The claim count is an exact measure of pages processed
type Frontier struct {
	// mu protects claimed.
	mu sync.Mutex

	// claimed holds normalized URLs that a worker has taken ownership of.
	claimed map[string]bool
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{claimed: make(map[string]bool)}
}

// Claim atomically marks pageURL as taken. It returns true if the caller
// is the first to claim it, false if some worker already did.
func (f *Frontier) Claim(pageURL string) bool {
	key := NormalizeURL(pageURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed[key] {
		return false
	}
	f.claimed[key] = true
	return true
}

// Seen reports whether pageURL has already been claimed. It is a
// best-effort filter for the discovery path; only Claim decides ownership.
func (f *Frontier) Seen(pageURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claimed[NormalizeURL(pageURL)]
}

// Len returns the number of distinct URLs claimed so far.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.claimed)
}

// NormalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. http://example.com and http://example.com/ are the same page
//
// Unparseable input is returned unchanged; it still dedups against itself.
func NormalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	// Remove fragment
	u.Fragment = ""

	// Normalize scheme and host to lowercase
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// Normalize root path (empty path and "/" are equivalent)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
