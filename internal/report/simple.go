package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitegrep/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	// Header
	w.writeHeader(&sb, report)

	// Crawl summary
	w.writeSummary(&sb, report)

	// Matches
	w.writeMatches(&sb, report)

	// Fetch failures
	w.writeFailures(&sb, report)

	// Footer
	w.writeFooter(&sb)

	// Write to output
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          SITEGREP REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Start URL:  %s\n", report.Seed))
	sb.WriteString(fmt.Sprintf("Query:      %q\n", report.Query))
	sb.WriteString(fmt.Sprintf("Run Date:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", report.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Workers:    %d\n", report.Workers))

	sb.WriteString("\n")
}

// writeSummary writes the crawl counters section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  URLs claimed:     %d\n", report.Stats.URLsClaimed))
	sb.WriteString(fmt.Sprintf("  Pages fetched:    %d\n", report.Stats.PagesFetched))
	sb.WriteString(fmt.Sprintf("  Pages failed:     %d\n", report.Stats.PagesFailed))
	sb.WriteString(fmt.Sprintf("  Links discovered: %d\n", report.Stats.LinksDiscovered))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  MATCHES:          %d\n", report.MatchCount()))
	sb.WriteString("\n")
}

// writeMatches writes the matched pages section.
// The section is always written; the match list is what the run is for.
func (w *SimpleWriter) writeMatches(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("MATCHES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Matches) == 0 {
		sb.WriteString("  No pages matched the query\n\n")
		return
	}

	for _, match := range report.Matches {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", match.URL))
	}
	sb.WriteString("\n")
}

// writeFailures writes the fetch failure section.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.RunReport) {
	if len(report.Failures) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FETCH FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Failures) == 0 {
		sb.WriteString("  No failures\n\n")
		return
	}

	for _, failure := range report.Failures {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", failure.Kind, failure.URL))
		if w.verbose && failure.Message != "" {
			sb.WriteString(fmt.Sprintf("      Detail: %s\n", failure.Message))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sitegrep\n")
	sb.WriteString("https://github.com/nao1215/sitegrep\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
