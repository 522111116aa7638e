package model

import "time"

// MaxBodySize is the maximum number of raw body bytes retained per page.
// Larger responses are truncated at fetch time to bound memory use.
const MaxBodySize = 5 * 1024 * 1024 // 5 MB

// Page represents one fetched web page.
//
// Design decision: We keep the raw body rather than pre-parsed content
// because:
//  1. Extraction (text, links) is a separate concern with its own rules
//  2. The same body feeds both the text matcher and the link discovery
//  3. Non-HTML bodies are still searched, so no parse happens at fetch time
type Page struct {
	// URL is the normalized URL the page was fetched from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type of the response.
	// Extracted from the Content-Type header for convenience.
	ContentType string `json:"content_type"`

	// Body contains the raw response body, truncated to MaxBodySize.
	Body []byte `json:"-"` // Excluded from JSON to keep reports small

	// FetchedAt is when the response was received.
	FetchedAt time.Time `json:"fetched_at"`
}
