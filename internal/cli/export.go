package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/export"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

var (
	exportFilters filterFlags
	exportFormat  string
	exportOutput  string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching courses as Markdown or PDF",
		Long: `Fetches the course table, applies the filters and sort, and writes every
matching row (no paging) as a Markdown table or a PDF.

Examples:
  cc-courses export --program Physics > physics.md
  cc-courses export --format pdf --term fall2024 -o fall2024.pdf`,
		RunE: runExport,
	}

	exportFilters = filterFlags{}
	exportFilters.register(cmd)
	cmd.Flags().StringVar(&exportFormat, "format", export.FormatMarkdown, "Export format: markdown or pdf")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout; courses.pdf for pdf)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format == "md" {
		format = export.FormatMarkdown
	}
	if format != export.FormatMarkdown && format != export.FormatPDF {
		return fmt.Errorf("invalid format: %s (must be 'markdown' or 'pdf')", exportFormat)
	}

	c, err := exportFilters.criteria()
	if err != nil {
		return err
	}
	key, err := exportFilters.sortKey()
	if err != nil {
		return err
	}

	rows, err := fetchRows(cmd.Context())
	if err != nil {
		return err
	}
	matched := schedule.NewState(rows).WithCriteria(c).WithSort(key).Matched()
	doc := export.NewDocument(matched, c.Normalize(), key, cfg.ScheduleURL)

	path := exportOutput
	if path == "" && format == export.FormatPDF {
		path = "courses" + export.Extension(format)
	}

	var w io.Writer = cmd.OutOrStdout()
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, doc); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	if path != "" && path != "-" {
		logger.Info("exported courses", logger.Fields{"path": path, "rows": len(doc.Rows), "format": format})
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d courses to %s\n", len(doc.Rows), path)
	}
	return nil
}
