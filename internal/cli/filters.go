package cli

import (
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/filter"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// filterFlags are the search flags shared by search, export and tui.
type filterFlags struct {
	expr    string
	query   string
	term    string
	block   string
	program string
	sort    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Keywords; a row matches if it contains any of them")
	cmd.Flags().StringVar(&f.term, "term", "", "Term tag, e.g. fall2024")
	cmd.Flags().StringVar(&f.block, "block", "", "Block tag, e.g. block1, blockH or 1")
	cmd.Flags().StringVar(&f.program, "program", "", "Program name, e.g. Physics")
	cmd.Flags().StringVar(&f.sort, "sort", string(schedule.SortCourseID), "Sort by: "+sortKeyNames())
	cmd.Flags().StringVarP(&f.expr, "filter", "f", "", `One-line search, e.g. "optics term:fall2024 block:1"`)
}

// criteria combines --filter with the individual flags; individual flags
// win.
func (f *filterFlags) criteria() (filter.Criteria, error) {
	c := filter.Criteria{}
	if f.expr != "" {
		parsed, err := filter.ParseExpression(f.expr)
		if err != nil {
			return filter.Criteria{}, err
		}
		c = parsed
	}

	if f.query != "" {
		c.Query = f.query
	}
	if f.term != "" {
		c.Term = f.term
	}
	if f.block != "" {
		block, err := filter.ParseBlock(f.block)
		if err != nil {
			return filter.Criteria{}, err
		}
		c.Block = block
	}
	if f.program != "" {
		c.Program = f.program
	}
	c = c.Normalize()

	if !filter.Has(filter.Terms, c.Term) {
		logger.Warn("unknown term matches every row", logger.Fields{"term": c.Term})
	}
	if !filter.Has(filter.Programs, c.Program) {
		logger.Warn("unknown program", logger.Fields{"program": c.Program})
	}
	return c, nil
}

func (f *filterFlags) sortKey() (schedule.SortKey, error) {
	return parseSortFlag(f.sort)
}
