// Package model defines the core data structures used throughout sitegrep.
//
// This package contains the following main types:
//   - Page: a fetched web page (raw body plus response metadata)
//   - Match: one (query, URL) search hit
//   - RunReport: the full result of a crawl run, including statistics
//   - RunSummary: a compact view of a stored run for history listings
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
