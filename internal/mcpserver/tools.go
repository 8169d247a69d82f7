package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pfrederiksen/cc-courses/internal/filter"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// SearchInput is the input schema for the search_courses tool.
type SearchInput struct {
	Query   string `json:"query,omitempty" jsonschema:"keywords; a row matches if it contains any of them"`
	Term    string `json:"term,omitempty" jsonschema:"term tag such as fall2024, or all"`
	Block   string `json:"block,omitempty" jsonschema:"block tag such as block1 or blockH, or all"`
	Program string `json:"program,omitempty" jsonschema:"program name such as Physics, or all"`
	Sort    string `json:"sort,omitempty" jsonschema:"courseId (default) or block"`
	Page    int    `json:"page,omitempty" jsonschema:"1-based page of 20 rows (default 1)"`
}

// SearchOutput is the output schema for the search_courses tool.
type SearchOutput struct {
	Header     []string       `json:"header,omitempty"`
	Courses    []CourseOutput `json:"courses"`
	Matched    int            `json:"matched"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Summary    string         `json:"summary"`
}

// CourseOutput is one matching row.
type CourseOutput struct {
	Cells []string `json:"cells"`
	Text  string   `json:"text"`
	Link  string   `json:"link,omitempty"`
}

// FiltersOutput lists the accepted filter values.
type FiltersOutput struct {
	Terms    []filter.Option `json:"terms"`
	Blocks   []filter.Option `json:"blocks"`
	Programs []filter.Option `json:"programs"`
	Sort     []filter.Option `json:"sort"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_courses",
		Description: "Search the Colorado College course schedule by keyword, term, block and program",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_filters",
		Description: "List the accepted term, block, program and sort values",
	}, s.handleListFilters)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	c := filter.Criteria{
		Query:   input.Query,
		Term:    input.Term,
		Block:   input.Block,
		Program: input.Program,
	}
	state := schedule.NewState(rows).
		WithCriteria(c).
		WithSort(schedule.ParseSortKey(input.Sort)).
		GoTo(input.Page)
	view := state.View()

	output := SearchOutput{
		Courses:    make([]CourseOutput, len(view.Rows)),
		Matched:    view.Matched,
		Total:      view.Total,
		Page:       view.Page,
		TotalPages: view.TotalPages,
		Summary:    summary(view, state.Criteria),
	}
	if view.Header != nil {
		output.Header = view.Header.Cells
	}
	for i, r := range view.Rows {
		output.Courses[i] = CourseOutput{
			Cells: r.Cells,
			Text:  r.Summary(),
			Link:  r.Link,
		}
	}

	return nil, output, nil
}

func (s *Server) handleListFilters(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, FiltersOutput, error) {
	return nil, listFilters(), nil
}

func listFilters() FiltersOutput {
	out := FiltersOutput{
		Terms:    filter.Terms,
		Blocks:   filter.Blocks,
		Programs: filter.Programs,
	}
	for _, k := range schedule.SortKeys {
		out.Sort = append(out.Sort, filter.Option{Value: string(k.Key), Label: k.Label})
	}
	return out
}

func summary(v schedule.View, c filter.Criteria) string {
	if v.Matched == 0 {
		return "No courses found matching your search criteria"
	}
	noun := "courses"
	if v.Matched == 1 {
		noun = "course"
	}
	s := fmt.Sprintf("Found %d %s%s", v.Matched, noun, c.Describe())
	if v.TotalPages > 1 {
		s += fmt.Sprintf(" (showing %d to %d)", v.From, v.To)
	}
	return s
}
