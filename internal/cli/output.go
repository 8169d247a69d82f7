package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// RowOutput is the JSON form of one course row.
type RowOutput struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
	Text  string   `json:"text"`
	Link  string   `json:"link,omitempty"`
}

func newRowOutput(r schedule.Row) RowOutput {
	return RowOutput{
		ID:    r.ID(),
		Cells: r.Cells,
		Text:  r.Summary(),
		Link:  r.Link,
	}
}

// CheckResult contains data to be output by check
type CheckResult struct {
	CheckedAt    time.Time   `json:"checked_at"`
	Snapshot     string      `json:"snapshot"`
	NewRows      []RowOutput `json:"new_rows"`
	RowCount     int         `json:"row_count"`
	RemovedCount int         `json:"removed_count"`
	TotalRows    int         `json:"total_rows"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *CheckResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *CheckResult, verbose bool) error {
	if result.RowCount == 0 {
		fmt.Fprintln(w, "No new courses found.")
		if verbose && result.RemovedCount > 0 {
			fmt.Fprintf(w, "%d courses were removed since the last check.\n", result.RemovedCount)
		}
		return nil
	}

	for _, r := range result.NewRows {
		fmt.Fprintf(w, "NEW: %s\n", r.Text)
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", r.ID)
			if r.Link != "" {
				fmt.Fprintf(w, "     Link: %s\n", r.Link)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d new of %d courses\n", result.RowCount, result.TotalRows)
	if verbose && result.RemovedCount > 0 {
		fmt.Fprintf(w, "Removed: %d\n", result.RemovedCount)
	}
	return nil
}
