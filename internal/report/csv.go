package report

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/sitegrep/internal/model"
)

// csvHeader is the header row of the search_results.csv artifact.
// The column names are part of the output contract; downstream
// spreadsheets and scripts key on them.
var csvHeader = []string{"Text", "URL"}

// CSVWriter outputs the match list in CSV format.
// This is the primary machine-readable artifact of a run: one row per
// match, quoted per RFC 4180 so URLs and queries containing commas,
// quotes, or newlines survive a round trip through spreadsheet tools.
//
// Design decision: We use standard encoding/csv rather than writing rows
// with fmt because:
// 1. It handles quoting and escaping correctly for all inputs
// 2. Its output is readable by every CSV consumer
// 3. No third-party CSV codec offers anything we need beyond it
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report's matches as CSV rows.
// The header row is always written, so a run with no matches still
// produces a valid, header-only file.
func (w *CSVWriter) Write(report *model.RunReport) (int, error) {
	counter := &countingWriter{dest: w.output}
	encoder := csv.NewWriter(counter)

	if err := encoder.Write(csvHeader); err != nil {
		return counter.written, err
	}

	for _, match := range report.Matches {
		if err := encoder.Write([]string{match.Query, match.URL}); err != nil {
			return counter.written, err
		}
	}

	encoder.Flush()
	return counter.written, encoder.Error()
}

// countingWriter counts bytes passing through to the destination.
// csv.Writer does not report how much it wrote, so we count below it
// to keep the Writer interface contract.
type countingWriter struct {
	dest    io.Writer
	written int
}

// Write passes data through and accumulates the byte count.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.dest.Write(p)
	c.written += n
	return n, err
}
