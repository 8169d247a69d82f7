package schedule

import (
	"strings"
	"testing"
)

func fragmentOf(rows ...string) string {
	return "<tr><th>Course</th> <th>Block</th></tr>" + strings.Join(rows, "")
}

func row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td> ")
	}
	b.WriteString("</tr>")
	return b.String()
}

func mustBuild(t *testing.T, fragment string) RowSet {
	t.Helper()
	rows, err := Build(fragment)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return rows
}

func TestBuild(t *testing.T) {
	rows := mustBuild(t, fragmentOf(
		`<tr class="course program-Physics"><td>PH  141</td> <td class="title program-Physics"><a href="/x">Intro
		Physics</a></td> <td>Block 5 2025</td></tr>`,
		row("MA 126", "Block 2 2024"),
	))

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if !rows[0].IsHeader || rows[1].IsHeader || rows[2].IsHeader {
		t.Error("only the first row should be the header")
	}
	for i, r := range rows {
		if r.Index != i {
			t.Errorf("row %d has Index %d", i, r.Index)
		}
	}

	ph := rows[1]
	if ph.Text != "ph 141 intro physics block 5 2025" {
		t.Errorf("Text = %q", ph.Text)
	}
	if ph.Content != "PH 141 Intro Physics Block 5 2025" {
		t.Errorf("Content = %q", ph.Content)
	}
	if !strings.HasPrefix(ph.RawMarkup, `<tr class="course program-Physics">`) || !strings.HasSuffix(ph.RawMarkup, "</tr>") {
		t.Errorf("RawMarkup = %q", ph.RawMarkup)
	}
	if !ph.HasClass("program-Physics") || !ph.HasTitleClass("program-Physics") || ph.HasClass("title") {
		t.Errorf("classes = %v, title classes = %v", ph.Classes, ph.TitleClasses)
	}
	if got := ph.Cell(2); got != "Block 5 2025" {
		t.Errorf("Cell(2) = %q", got)
	}
	if got := ph.Cell(9); got != "" {
		t.Errorf("Cell(9) = %q, want empty", got)
	}
	if len(ph.CellMarkup) != 3 || !strings.HasPrefix(ph.CellMarkup[1], `<a href="/x">`) {
		t.Errorf("CellMarkup = %q", ph.CellMarkup)
	}
	if ph.Link != "/x" {
		t.Errorf("Link = %q", ph.Link)
	}
	if got := ph.Summary(); got != "PH 141 · Intro Physics · Block 5 2025" {
		t.Errorf("Summary() = %q", got)
	}
	if rows[2].Link != "" {
		t.Errorf("row without anchor has Link %q", rows[2].Link)
	}
}

func TestRow_Summary(t *testing.T) {
	r := Row{Cells: []string{"CP 122", "", "Block 1"}, Content: "CP 122 Block 1"}
	if got := r.Summary(); got != "CP 122 · Block 1" {
		t.Errorf("Summary() = %q", got)
	}
	r = Row{Content: "loose text"}
	if got := r.Summary(); got != "loose text" {
		t.Errorf("Summary() without cells = %q", got)
	}
}

func TestBuild_HeaderWithTD(t *testing.T) {
	rows := mustBuild(t, row("Course", "Block")+row("CP 122", "Block 1"))
	if !rows[0].IsHeader || rows[0].Cell(0) != "Course" {
		t.Errorf("first row should be the header, got %+v", rows[0])
	}
}

func TestBuild_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		rows, err := Build(in)
		if err != nil {
			t.Fatalf("Build(%q) error = %v", in, err)
		}
		if rows == nil || len(rows) != 0 {
			t.Errorf("Build(%q) = %v, want empty RowSet", in, rows)
		}
		if _, ok := rows.Header(); ok {
			t.Error("empty RowSet should have no header")
		}
		if rows.Data() != nil {
			t.Error("empty RowSet should have no data rows")
		}
	}
}

func TestRow_ID(t *testing.T) {
	a := Row{Text: "cp 122 computer science i"}
	b := Row{Text: "cp 122 computer science i", Index: 7}
	c := Row{Text: "ma 126 calculus i"}

	if a.ID() != b.ID() {
		t.Error("rows with the same text should share an ID")
	}
	if a.ID() == c.ID() {
		t.Error("rows with different text should have different IDs")
	}
	if len(a.ID()) != 40 {
		t.Errorf("expected hex sha1, got %q", a.ID())
	}
}
