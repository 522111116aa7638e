package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nao1215/sitegrep/internal/config"
	"github.com/nao1215/sitegrep/internal/crawler"
	"github.com/nao1215/sitegrep/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit bounds the history listing when --limit is not given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past search runs stored in the local database",
		Long: `History lists search runs saved by previous invocations.

Every completed search is stored in a local SQLite database under the
XDG data directory. History can list recent runs, filter them by start
URL, show the full stored report of one run, or list the start URLs
searched so far.

Examples:
  # List the 20 most recent runs
  sitegrep history

  # List runs for one site
  sitegrep history --seed http://cafe.example.com/

  # Show the full report of run 3
  sitegrep history --run-id 3

  # Show run 3 as JSON
  sitegrep history --run-id 3 --json

  # List every start URL with stored runs
  sitegrep history --seeds`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("seed", "s", "",
		"Only list runs whose start URL matches")
	cmd.Flags().Int64P("run-id", "i", 0,
		"Show the stored report of a single run")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list")
	cmd.Flags().Bool("seeds", false,
		"List the start URLs that have stored runs")
	cmd.Flags().BoolP("json", "j", false,
		"Output as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	seed, err := cmd.Flags().GetString("seed")
	if err != nil {
		return err
	}

	runID, err := cmd.Flags().GetInt64("run-id")
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	seedsOnly, err := cmd.Flags().GetBool("seeds")
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Create the database if it does not exist yet so history degrades to
	// an empty listing instead of an error before the first search.
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch {
	case seedsOnly:
		return printSeeds(ctx, db)
	case runID > 0:
		return printRun(ctx, db, runID, asJSON)
	default:
		return printRuns(ctx, db, seed, limit, asJSON)
	}
}

// printSeeds lists every start URL that has at least one stored run.
func printSeeds(ctx context.Context, db *database.SearchDB) error {
	seeds, err := db.ListSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seeds: %w", err)
	}

	if len(seeds) == 0 {
		fmt.Println("No searched sites found in the database.")
		fmt.Println("\nUse 'sitegrep <start-url> <query>' to run a search.")
		return nil
	}

	fmt.Printf("Searched sites (%d):\n\n", len(seeds))
	for _, seed := range seeds {
		fmt.Printf("  • %s\n", seed)
	}
	fmt.Println("\nUse 'sitegrep history --seed <start-url>' to list runs for a site.")

	return nil
}

// printRuns lists stored runs, newest first.
func printRuns(ctx context.Context, db *database.SearchDB, seed string, limit int, asJSON bool) error {
	// The filter must be normalized the same way seeds were stored.
	if seed != "" {
		seed = crawler.NormalizeURL(seed)
	}

	runs, err := db.ListRuns(ctx, seed, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		if seed != "" {
			fmt.Printf("No search runs found for %s\n", seed)
		} else {
			fmt.Println("No search runs found in the database.")
		}
		fmt.Println("\nUse 'sitegrep <start-url> <query>' to run a search.")
		return nil
	}

	if seed != "" {
		fmt.Printf("Search history for %s (%d runs):\n\n", seed, len(runs))
	} else {
		fmt.Printf("Search history (%d runs):\n\n", len(runs))
	}

	fmt.Printf("  %-6s  %-20s  %-8s  %-7s  %s\n", "ID", "Date", "Matches", "Pages", "Search")
	fmt.Println("  " + strings.Repeat("-", 76))
	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-8d  %-7d  %q @ %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.MatchCount,
			run.PagesFetched,
			run.Query,
			run.Seed,
		)
	}

	fmt.Println("\nUse 'sitegrep history --run-id <id>' to show one run in full.")

	return nil
}

// printRun shows the stored report of a single run.
func printRun(ctx context.Context, db *database.SearchDB, runID int64, asJSON bool) error {
	runReport, err := db.GetRunReport(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get run report: %w", err)
	}
	if runReport == nil {
		return fmt.Errorf("run with ID %d not found", runID)
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runReport)
	}

	// The match list comes from the matches table rather than the stored
	// report so the two never drift apart unnoticed.
	matches, err := db.GetMatchesByRunID(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get matches: %w", err)
	}

	fmt.Printf("Run %d: %s\n", runID, runReport.Seed)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nQuery:     %q\n", runReport.Query)
	fmt.Printf("Date:      %s\n", runReport.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration:  %s\n", runReport.Duration.Round(time.Millisecond))
	fmt.Printf("Workers:   %d\n", runReport.Workers)
	fmt.Printf("Fetched:   %d page(s), %d failed\n",
		runReport.Stats.PagesFetched, runReport.Stats.PagesFailed)

	if len(matches) == 0 {
		fmt.Println("\nNo pages matched the query.")
		return nil
	}

	fmt.Printf("\nMatched pages (%d):\n", len(matches))
	for _, m := range matches {
		fmt.Printf("  • %s\n", m.URL)
	}

	return nil
}
