package export

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// Markdown renders doc as a Markdown document with a pipe table.
func Markdown(doc Document) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", doc.Source)
	}
	fmt.Fprintf(&b, "%s.\n\n", doc.Summary())
	if !doc.Criteria.IsEmpty() {
		fmt.Fprintf(&b, "Filters: `%s`\n\n", doc.Criteria.String())
	}

	cols := doc.columns()
	if cols == 0 {
		return b.String(), nil
	}

	var header []string
	if doc.Header != nil {
		header = doc.Header.Cells
	}
	b.WriteString(tableLine(header, cols))
	b.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")

	for _, r := range doc.Rows {
		cells, err := markdownCells(r)
		if err != nil {
			return "", fmt.Errorf("converting row %d: %w", r.Index, err)
		}
		b.WriteString(tableLine(cells, cols))
	}

	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "\n_Generated %s_\n", doc.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}
	return b.String(), nil
}

// markdownCells converts each cell's HTML, falling back to its text.
func markdownCells(r schedule.Row) ([]string, error) {
	if len(r.CellMarkup) == 0 {
		return r.Cells, nil
	}
	out := make([]string, len(r.CellMarkup))
	for i, inner := range r.CellMarkup {
		md, err := htmltomarkdown.ConvertString(inner)
		if err != nil {
			return nil, fmt.Errorf("converting HTML to markdown: %w", err)
		}
		out[i] = strings.Join(strings.Fields(md), " ")
	}
	return out, nil
}

func tableLine(cells []string, cols int) string {
	var b strings.Builder
	b.WriteString("|")
	for i := 0; i < cols; i++ {
		cell := ""
		if i < len(cells) {
			cell = strings.ReplaceAll(cells[i], "|", `\|`)
		}
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
	return b.String()
}
