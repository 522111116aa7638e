package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitegrep/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, report)

	// Crawl summary
	w.writeSummary(md, report)

	// Matches
	w.writeMatches(md, report)

	// Fetch failures
	w.writeFailures(md, report)

	// Footer
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Sitegrep Report")
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + report.Seed + "`"},
			{"Query", "`" + report.Query + "`"},
			{"Run Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.Round(time.Millisecond).String()},
			{"Workers", strconv.Itoa(report.Workers)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the crawl counters section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Crawl Summary")
	md.PlainText("")

	// Summary table
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"URLs claimed", strconv.Itoa(report.Stats.URLsClaimed)},
			{"Pages fetched", strconv.Itoa(report.Stats.PagesFetched)},
			{"Pages failed", strconv.Itoa(report.Stats.PagesFailed)},
			{"Links discovered", strconv.Itoa(report.Stats.LinksDiscovered)},
			{"**Matches**", "**" + strconv.Itoa(report.MatchCount()) + "**"},
		},
	})
	md.PlainText("")

	// Add pie chart if any pages were processed
	if report.Stats.PagesFetched+report.Stats.PagesFailed > 0 {
		w.writePieChart(md, report)
	}

	// Add alert based on the run outcome
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of page outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Outcomes"),
		piechart.WithShowData(true),
	)

	matched := report.MatchCount()
	unmatched := report.Stats.PagesFetched - matched

	if matched > 0 {
		chart.LabelAndIntValue("Matched", uint64(matched))
	}
	if unmatched > 0 {
		chart.LabelAndIntValue("No match", uint64(unmatched))
	}
	if report.Stats.PagesFailed > 0 {
		chart.LabelAndIntValue("Failed", uint64(report.Stats.PagesFailed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	switch {
	case report.MatchCount() > 0:
		md.Importantf(
			"%d page(s) matched the query `%s`.",
			report.MatchCount(), report.Query,
		)
	case report.Stats.PagesFailed > 0:
		md.Warningf(
			"No matches found, and %d page(s) failed to fetch and were not searched.",
			report.Stats.PagesFailed,
		)
	default:
		md.Note("No pages matched the query.")
	}
	md.PlainText("")
}

// writeMatches writes the matched pages section.
func (w *MarkdownWriter) writeMatches(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Matches")
	md.PlainText("")

	if len(report.Matches) == 0 {
		md.PlainText("No pages matched the query.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Matches))
	for i, match := range report.Matches {
		rows[i] = []string{
			"`" + match.Query + "`",
			match.URL,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Query", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the fetch failure section.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.RunReport) {
	if len(report.Failures) == 0 {
		return
	}

	md.H2("Fetch Failures")
	md.PlainText("")

	rows := make([][]string, len(report.Failures))
	for i, failure := range report.Failures {
		rows[i] = []string{
			truncateString(failure.URL, 60),
			failure.Kind,
			truncateString(failure.Message, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Kind", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitegrep](https://github.com/nao1215/sitegrep)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
