package crawler

import (
	"sync"

	"github.com/nao1215/sitegrep/internal/model"
)

// Aggregator collects matches and fetch failures from concurrent workers.
// All methods are safe for concurrent use; the accessors return snapshot
// copies so callers never observe a slice mid-append.
type Aggregator struct {
	mu       sync.Mutex
	matches  []model.Match
	failures []model.FetchFailure
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		matches:  make([]model.Match, 0),
		failures: make([]model.FetchFailure, 0),
	}
}

// AddMatch records a query hit.
func (a *Aggregator) AddMatch(m model.Match) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.matches = append(a.matches, m)
}

// AddFailure records a page that could not be fetched or parsed.
func (a *Aggregator) AddFailure(f model.FetchFailure) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = append(a.failures, f)
}

// Matches returns a copy of the matches recorded so far.
func (a *Aggregator) Matches() []model.Match {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Match, len(a.matches))
	copy(out, a.matches)
	return out
}

// Failures returns a copy of the failures recorded so far.
func (a *Aggregator) Failures() []model.FetchFailure {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.FetchFailure, len(a.failures))
	copy(out, a.failures)
	return out
}
