// Package database provides SQLite-based storage for sitegrep run history.
//
// This package implements the SearchDB, which stores:
//   - One row per completed run with its counters and full report JSON
//   - One row per match so past results stay queryable by URL
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Only results are persisted. Crawl state (the frontier, the task queue)
// never touches the database, so runs cannot resume; they only leave a
// record behind.
package database
