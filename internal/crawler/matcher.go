package crawler

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Matcher tests page text for a case-insensitive query term.
//
// Design decision: We lower-case with x/text cases rather than
// strings.ToLower because:
//  1. It applies full Unicode case mappings, not just the simple ones
//  2. language.Und keeps the mapping locale-neutral and deterministic
//  3. Page text on real sites is not limited to ASCII
//
// A cases.Caser carries internal state and is not safe for concurrent use,
// so Match builds a fresh one per call instead of sharing one across
// workers. The query itself is lowered once at construction.
type Matcher struct {
	// query is the lower-cased search term.
	query string
}

// NewMatcher creates a Matcher for the given query term.
func NewMatcher(query string) *Matcher {
	return &Matcher{query: cases.Lower(language.Und).String(query)}
}

// Match reports whether text contains the query, ignoring case.
func (m *Matcher) Match(text string) bool {
	return strings.Contains(cases.Lower(language.Und).String(text), m.query)
}

// Query returns the lower-cased form of the query term. Matches are
// recorded under this form.
func (m *Matcher) Query() string {
	return m.query
}
