package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/filter"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

var (
	searchFilters filterFlags
	searchPage    int
	searchAll     bool
	searchFormat  string
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [keywords...]",
		Short: "Search the course schedule",
		Long: `Fetches the course table and prints one page of matching rows.

Examples:
  cc-courses search calculus
  cc-courses search --term fall2024 --block 1 --program Physics
  cc-courses search -f "intro term:spring2025 block:h" --sort block`,
		RunE: runSearch,
	}

	searchFilters = filterFlags{}
	searchFilters.register(cmd)
	cmd.Flags().IntVar(&searchPage, "page", 1, "Page of 20 rows to show")
	cmd.Flags().BoolVar(&searchAll, "all", false, "Show every matching row instead of one page")
	cmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(searchFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", searchFormat)
	}
	if len(args) > 0 && searchFilters.query == "" {
		searchFilters.query = strings.Join(args, " ")
	}

	c, err := searchFilters.criteria()
	if err != nil {
		return err
	}
	key, err := searchFilters.sortKey()
	if err != nil {
		return err
	}

	rows, err := fetchRows(cmd.Context())
	if err != nil {
		return err
	}

	state := schedule.NewState(rows).WithCriteria(c).WithSort(key).GoTo(searchPage)
	view := state.View()
	if searchAll {
		view.Rows = state.Matched().Data()
		view.Page, view.TotalPages = 1, 1
		view.From, view.To = min(1, view.Matched), view.Matched
	}

	result := newSearchResult(view, state.Criteria, key)
	out := cmd.OutOrStdout()
	if format == FormatJSON {
		return writeJSON(out, result)
	}
	return writeSearchText(out, view, state.Criteria)
}

// SearchResult is the JSON form of one page of search results.
type SearchResult struct {
	Criteria   filter.Criteria  `json:"criteria"`
	Sort       schedule.SortKey `json:"sort"`
	Header     []string         `json:"header,omitempty"`
	Rows       []RowOutput      `json:"rows"`
	Matched    int              `json:"matched"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

func newSearchResult(v schedule.View, c filter.Criteria, key schedule.SortKey) *SearchResult {
	result := &SearchResult{
		Criteria:   c,
		Sort:       key,
		Rows:       make([]RowOutput, len(v.Rows)),
		Matched:    v.Matched,
		Total:      v.Total,
		Page:       v.Page,
		TotalPages: v.TotalPages,
	}
	if v.Header != nil {
		result.Header = v.Header.Cells
	}
	for i, r := range v.Rows {
		result.Rows[i] = newRowOutput(r)
	}
	return result
}

func writeSearchText(w io.Writer, v schedule.View, c filter.Criteria) error {
	if v.Matched == 0 {
		if c.IsEmpty() {
			fmt.Fprintln(w, "No courses in the table.")
		} else {
			fmt.Fprintln(w, "No courses found matching your search criteria. Try different keywords or filters.")
		}
		return nil
	}

	var header []string
	if v.Header != nil {
		header = v.Header.Cells
	}
	if len(header) == 0 {
		header = []string{"Course"}
	}

	cols := make([]interface{}, len(header))
	for i, h := range header {
		cols[i] = h
	}
	tbl := table.New(cols...).WithWriter(w)
	for _, r := range v.Rows {
		tbl.AddRow(rowValues(r, len(header))...)
	}
	tbl.Print()

	noun := "courses"
	if v.Matched == 1 {
		noun = "course"
	}
	fmt.Fprintf(w, "\nFound %d %s%s\n", v.Matched, noun, c.Describe())
	if v.TotalPages > 1 {
		fmt.Fprintf(w, "Showing %d to %d of %d (page %d of %d)\n", v.From, v.To, v.Matched, v.Page, v.TotalPages)
	}
	return nil
}

// rowValues pads or trims the row's cells to n columns.
func rowValues(r schedule.Row, n int) []interface{} {
	vals := make([]interface{}, n)
	for i := range vals {
		vals[i] = r.Cell(i)
	}
	if len(r.Cells) == 0 && n > 0 {
		vals[0] = r.Content
	}
	return vals
}
