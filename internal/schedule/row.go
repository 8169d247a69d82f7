package schedule

import (
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Row is one <tr> of the courses table.
type Row struct {
	Index        int      `json:"index"`
	IsHeader     bool     `json:"is_header"`
	RawMarkup    string   `json:"raw_markup"`
	Text         string   `json:"text"`          // lowercased, whitespace-collapsed
	Content      string   `json:"content"`       // Text before lowercasing
	Cells        []string `json:"cells"`         // per-cell text in column order
	CellMarkup   []string `json:"-"`             // per-cell inner HTML
	Classes      []string `json:"classes"`       // class tokens on the <tr>
	TitleClasses []string `json:"title_classes"` // class tokens on .title descendants
	Link         string   `json:"link,omitempty"` // first anchor href
}

// RowSet is an ordered list of rows; element 0 is the header when non-empty.
type RowSet []Row

// Build parses the courses table's inner HTML into a RowSet. The first row is
// the header regardless of whether it uses th or td cells.
func Build(fragment string) (RowSet, error) {
	if strings.TrimSpace(fragment) == "" {
		return RowSet{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + fragment + "</table>"))
	if err != nil {
		return nil, fmt.Errorf("parsing table fragment: %w", err)
	}

	var rows RowSet
	var buildErr error
	doc.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		markup, err := goquery.OuterHtml(tr)
		if err != nil {
			buildErr = fmt.Errorf("serializing row %d: %w", i, err)
			return false
		}

		content := collapse(tr.Text())
		row := Row{
			Index:     i,
			IsHeader:  i == 0,
			RawMarkup: markup,
			Text:      strings.ToLower(content),
			Content:   content,
			Classes:   classTokens(tr),
		}

		if href, ok := tr.Find("a[href]").First().Attr("href"); ok {
			row.Link = strings.TrimSpace(href)
		}
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			row.Cells = append(row.Cells, collapse(cell.Text()))
			inner, _ := cell.Html()
			row.CellMarkup = append(row.CellMarkup, strings.TrimSpace(inner))
		})
		tr.Find(".title").Each(func(_ int, title *goquery.Selection) {
			row.TitleClasses = append(row.TitleClasses, classTokens(title)...)
		})

		rows = append(rows, row)
		return true
	})
	if buildErr != nil {
		return nil, buildErr
	}

	if rows == nil {
		rows = RowSet{}
	}
	return rows, nil
}

// Header returns the header row, if any.
func (rs RowSet) Header() (Row, bool) {
	if len(rs) == 0 {
		return Row{}, false
	}
	return rs[0], true
}

// Data returns the rows after the header.
func (rs RowSet) Data() []Row {
	if len(rs) <= 1 {
		return nil
	}
	return rs[1:]
}

// DataLen is the number of data rows.
func (rs RowSet) DataLen() int {
	return len(rs.Data())
}

// ID identifies a row by its text, so the same course keeps its ID across
// fetches even if its position moves.
func (r Row) ID() string {
	h := sha1.New()
	h.Write([]byte(r.Text))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// LowerText returns the lowercased row text.
func (r Row) LowerText() string { return r.Text }

// PlainText returns the row text with its original case.
func (r Row) PlainText() string { return r.Content }

// HasClass reports whether the <tr> carries the class.
func (r Row) HasClass(class string) bool {
	return containsToken(r.Classes, class)
}

// HasTitleClass reports whether any .title descendant carries the class.
func (r Row) HasTitleClass(class string) bool {
	return containsToken(r.TitleClasses, class)
}

// Cell returns the text of column i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Summary joins the non-empty cells for one-line display.
func (r Row) Summary() string {
	parts := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return r.Content
	}
	return strings.Join(parts, " · ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func classTokens(s *goquery.Selection) []string {
	class, ok := s.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
