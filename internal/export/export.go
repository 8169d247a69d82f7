package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/cc-courses/internal/filter"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// Format names accepted by Write.
const (
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
)

// Document is one export: the header row plus the matched data rows.
type Document struct {
	Title       string
	Source      string
	Criteria    filter.Criteria
	SortKey     schedule.SortKey
	GeneratedAt time.Time
	Header      *schedule.Row
	Rows        []schedule.Row
}

// NewDocument builds a document from a processed RowSet (header first).
func NewDocument(rows schedule.RowSet, c filter.Criteria, key schedule.SortKey, source string) Document {
	doc := Document{
		Title:       "Colorado College Course Schedule",
		Source:      source,
		Criteria:    c,
		SortKey:     key,
		GeneratedAt: time.Now(),
		Rows:        rows.Data(),
	}
	if h, ok := rows.Header(); ok {
		doc.Header = &h
	}
	return doc
}

// Summary is the line printed under the title, e.g.
// `Found 3 courses in Fall 2024 matching "optics"`.
func (d Document) Summary() string {
	noun := "courses"
	if len(d.Rows) == 1 {
		noun = "course"
	}
	return fmt.Sprintf("Found %d %s%s", len(d.Rows), noun, d.Criteria.Describe())
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatPDF:
		return ".pdf"
	default:
		return ".md"
	}
}

// Write renders doc in the named format.
func Write(w io.Writer, format string, doc Document) error {
	switch strings.ToLower(format) {
	case FormatMarkdown, "md":
		md, err := Markdown(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, md)
		return err
	case FormatPDF:
		return PDF(w, doc)
	default:
		return fmt.Errorf("unknown export format %q (want markdown or pdf)", format)
	}
}

// columns returns the column count: the header's, or the widest row's.
func (d Document) columns() int {
	n := 0
	if d.Header != nil {
		n = len(d.Header.Cells)
	}
	for _, r := range d.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}
