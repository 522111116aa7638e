// Package main provides the entry point for the sitegrep CLI.
package main

import (
	"fmt"
	"os"

	"github.com/nao1215/sitegrep/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitegrep.
//
// The root command itself runs the search: there is no separate "search"
// subcommand because crawling and searching is the only reason to invoke
// the tool.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitegrep <start-url> <query>",
		Short: "Search every page of a site for a text query",
		Long: `sitegrep recursively crawls a site starting from its homepage and reports
every page whose text contains the query. The comparison is case insensitive
and only pages under the start URL are visited.

Examples:
  # Search a site for the word "coffee"
  sitegrep http://cafe.example.com/ coffee

  # Crawl with 16 workers and stop after 200 pages
  sitegrep -t 16 -p 200 http://cafe.example.com/ coffee

  # Throttle requests and write a Markdown report
  sitegrep --rate 2 -m -o report.md http://cafe.example.com/ coffee

  # Use a custom configuration file
  sitegrep -c myconfig.yaml http://cafe.example.com/ coffee`,
		Args:          cobra.MaximumNArgs(2),
		RunE:          runSearchCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("threads", "t", config.DefaultWorkers,
		"Number of concurrent crawl workers")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch (0 means unlimited)")
	cmd.Flags().Float64("rate", config.DefaultRate,
		"Maximum requests per second (0 disables throttling)")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitegrep in current or home directory)")

	// Report flags
	cmd.Flags().String("csv", config.DefaultCSVFile,
		"CSV file the match list is written to")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
