// Package config provides configuration structures and utilities for sitegrep.
// It defines the crawl options (worker count, timeouts, page budget, request
// rate), the optional .sitegrep YAML file with per-site overrides, and the
// XDG directory helpers used to locate the history database.
package config
