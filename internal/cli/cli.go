package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/config"
	"github.com/pfrederiksen/cc-courses/internal/links"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitNewRows = 2
)

var version = "dev"

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
	flagVerbose   bool

	cfg *config.Config
)

// ExitCodeError ends the process with Code without printing an error.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cc-courses",
		Short: "Search and track the Colorado College course schedule",
		Long: `A tool for the Colorado College course schedule.
Serves a JSON API and a search page, searches and exports the table from the
terminal, and reports course rows added since the last check.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.config/cc-courses/config.toml)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: json or text")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newCheckCmd(),
		newExportCmd(),
		newTUICmd(),
		newMCPCmd(),
		newConfigCmd(),
	)

	return cmd
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagLogLevel != "" {
		loaded.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		loaded.LogFormat = flagLogFormat
	}
	if flagVerbose {
		loaded.LogLevel = string(logger.LevelDebug)
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger.SetDefault(cfg.Logger())
	logger.Debug("loaded config", logger.Fields{"path": flagConfig, "schedule_url": cfg.ScheduleURL})
	return nil
}

// fetchRows downloads the table and parses it with absolute links.
func fetchRows(ctx context.Context) (schedule.RowSet, error) {
	html, err := cfg.Scraper().Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching course table: %w", err)
	}
	rows, err := schedule.Build(links.Normalize(html, cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing course table: %w", err)
	}
	logger.Debug("parsed course table", logger.Fields{"rows": rows.DataLen()})
	return rows, nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	if err == nil {
		os.Exit(ExitSuccess)
	}

	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitError)
}
