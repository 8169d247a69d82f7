package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/frame"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/notifier"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
	"github.com/pfrederiksen/cc-courses/internal/storage"
	"github.com/pfrederiksen/cc-courses/internal/telegram"
)

// Notifier names accepted by --notify.
const (
	notifyDryRun   = "dry-run"
	notifyTwitter  = "twitter"
	notifyTelegram = "telegram"
	notifyFrame    = "frame"
)

var (
	flagCheckName    string
	flagCheckFormat  string
	flagCheckRefresh bool
	flagCheckNotify  []string
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report course rows added since the last check",
		Long: `Fetches the course table, compares it with the stored snapshot and
reports rows that were not there before. The snapshot is then replaced.

Exit status is 0 when nothing is new, 2 when new rows were found and 1 on
error. New rows can be announced with --notify (dry-run, twitter, telegram,
frame; repeatable).`,
		RunE: runCheck,
	}

	cmd.Flags().StringVar(&flagCheckName, "name", "all", "Snapshot name, for tracking several schedules")
	cmd.Flags().StringVar(&flagCheckFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagCheckRefresh, "refresh", false, "Refresh snapshot without showing new rows")
	cmd.Flags().StringSliceVar(&flagCheckNotify, "notify", nil, "Announce new rows: dry-run, twitter, telegram or frame")

	return cmd
}

// runCheck is the main check logic
func runCheck(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagCheckFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagCheckFormat)
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	// Build notifiers first so bad credentials fail before the snapshot moves.
	notify, closeNotify, err := buildNotifiers(ctx, flagCheckNotify, out)
	if err != nil {
		return err
	}
	defer closeNotify()

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	rows, err := fetchRows(ctx)
	if err != nil {
		return err
	}
	logger.Debug("fetched course rows", logger.Fields{"rows": rows.DataLen()})

	var previous *schedule.Snapshot
	if !flagCheckRefresh {
		previous, err = store.LoadSnapshot(flagCheckName)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		logger.Debug("loaded previous snapshot", logger.Fields{"rows": len(previous.Rows)})
	}

	diff := schedule.Diff(previous, rows)

	save := func() error {
		if err := store.CreateSnapshotFromRows(rows, flagCheckName); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		logger.Debug("saved snapshot", logger.Fields{"path": store.SnapshotPath(flagCheckName)})
		return nil
	}

	result := &CheckResult{
		CheckedAt:    time.Now().UTC(),
		Snapshot:     flagCheckName,
		NewRows:      make([]RowOutput, len(diff.NewRows)),
		RowCount:     len(diff.NewRows),
		RemovedCount: len(diff.Removed),
		TotalRows:    rows.DataLen(),
	}
	for i, r := range diff.NewRows {
		result.NewRows[i] = newRowOutput(r)
	}

	// In refresh mode, don't output new rows
	if flagCheckRefresh {
		if err := save(); err != nil {
			return err
		}
		if format == FormatText {
			fmt.Fprintln(out, "Snapshot refreshed successfully.")
			return nil
		}
		result.NewRows = []RowOutput{}
		result.RowCount = 0
		result.RemovedCount = 0
		return WriteOutput(out, result, format, flagVerbose)
	}

	if err := WriteOutput(out, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// The snapshot only moves once every notifier has announced the new rows.
	if notify != nil && len(diff.NewRows) > 0 {
		if err := notify.Notify(ctx, diff.NewRows); err != nil {
			return fmt.Errorf("sending notifications: %w", err)
		}
	}
	if err := save(); err != nil {
		return err
	}

	if len(diff.NewRows) == 0 {
		return nil
	}
	return &ExitCodeError{Code: ExitNewRows}
}

// buildNotifiers creates the named notifiers. The returned func releases
// any token store they opened.
func buildNotifiers(ctx context.Context, names []string, out io.Writer) (notifier.Notifier, func(), error) {
	noop := func() {}
	if len(names) == 0 {
		return nil, noop, nil
	}

	var (
		multi   notifier.Multi
		closers []func()
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case notifyDryRun:
			multi = append(multi, notifier.NewDryRunNotifier(out, cfg.ScheduleURL))
		case notifyTwitter:
			n, err := notifier.NewTwitterNotifier(cfg.ScheduleURL)
			if err != nil {
				cleanup()
				return nil, noop, err
			}
			multi = append(multi, n)
		case notifyTelegram:
			n, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.ScheduleURL,
				telegram.WithBaseURL(cfg.TelegramAPIURL))
			if err != nil {
				cleanup()
				return nil, noop, err
			}
			multi = append(multi, n)
		case notifyFrame:
			store, err := openTokenStore(ctx)
			if err != nil {
				cleanup()
				return nil, noop, err
			}
			closers = append(closers, func() { _ = store.Close() })
			multi = append(multi, notifier.NewFrameNotifier(frame.NewSender(store, cfg.AppURL)))
		default:
			cleanup()
			return nil, noop, fmt.Errorf("unknown notifier: %s (must be %s, %s, %s or %s)",
				name, notifyDryRun, notifyTwitter, notifyTelegram, notifyFrame)
		}
	}
	return multi, cleanup, nil
}
