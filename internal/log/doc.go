// Package log provides crawl-friendly logging built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Truncation of oversized attribute values (page text, long link lists)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// A crawler's debug output naturally carries page-sized values. The
// TrimHandler caps every string attribute at a fixed length so that verbose
// runs stay scannable and a single page cannot flood the terminal or a log
// aggregator.
//
// # Usage
//
//	// Create a crawl logger
//	logger := log.NewCrawlLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("page processed",
//	    "url", "http://example.com/docs",
//	    "text", pageText, // Trimmed to MaxValueLen
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
