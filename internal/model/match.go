package model

// Match is one search hit: the query term found on a page and the URL of
// that page. The query is stored lower-cased, exactly as it was tested
// against the page text. A page produces at most one Match per run; the
// match test is boolean, so repeated occurrences on the same page do not
// multiply results, and no surrounding snippet is captured.
type Match struct {
	// Query is the lower-cased query term that matched.
	Query string `json:"query"`

	// URL is the page the query was found on.
	URL string `json:"url"`
}

// Failure kind values for FetchFailure.Kind.
const (
	// FailureKindNetwork marks transport failures: DNS, refused
	// connections, timeouts.
	FailureKindNetwork = "network"

	// FailureKindStatus marks responses with a non-2xx status code.
	FailureKindStatus = "status"

	// FailureKindParse marks pages fetched but not parseable as HTML.
	FailureKindParse = "parse"
)

// FetchFailure records one URL that could not be processed. Failures are
// diagnostic only: they never abort a run and never affect the exit code.
type FetchFailure struct {
	// URL is the task URL that failed.
	URL string `json:"url"`

	// Kind classifies the failure; see the FailureKind constants.
	Kind string `json:"kind"`

	// Message is the human-readable error text.
	Message string `json:"message"`
}
