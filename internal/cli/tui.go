package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/tui"
)

var tuiFilters filterFlags

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the course schedule in the terminal",
		Long: `Opens an interactive browser. Type to search (applied after a short
pause), ctrl+t/ctrl+b/ctrl+p cycle the term, block and program filters,
ctrl+s toggles the sort, tab moves between the search box and the table.`,
		RunE: runTUI,
	}

	tuiFilters = filterFlags{}
	tuiFilters.register(cmd)

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	c, err := tuiFilters.criteria()
	if err != nil {
		return err
	}
	key, err := tuiFilters.sortKey()
	if err != nil {
		return err
	}

	// Log lines would corrupt the alternate screen.
	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.SetDefault(logger.New(level, logger.Format(cfg.LogFormat), io.Discard))

	return tui.Run(cmd.Context(), tui.Options{
		Fetcher:  cfg.Scraper(),
		BaseURL:  cfg.BaseURL,
		Criteria: c,
		SortKey:  key,
	})
}
