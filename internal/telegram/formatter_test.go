package telegram

import (
	"strings"
	"testing"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

func courseRow(text string, cells ...string) schedule.Row {
	return schedule.Row{
		Text:    strings.ToLower(text),
		Content: text,
		Cells:   cells,
	}
}

func TestFormatRow(t *testing.T) {
	tests := []struct {
		name        string
		row         schedule.Row
		contains    []string
		notContains []string
	}{
		{
			name: "complete row",
			row: func() schedule.Row {
				r := courseRow("CP 122 Computer Science I Block 1 2024", "CP 122", "Computer Science I", "Block 1 2024")
				r.Link = "https://www.coloradocollege.edu/academics/curriculum/catalog/courses/cp122.html"
				return r
			}(),
			contains: []string{
				"New Colorado College course",
				"CP 122 · Computer Science I · Block 1 2024",
				"🗓 Block 1",
				`<a href="https://www.coloradocollege.edu/academics/curriculum/catalog/courses/cp122.html">`,
				"#ColoradoCollege #CP",
			},
		},
		{
			name:        "relative link and letter block",
			row:         func() schedule.Row { r := courseRow("EN 280 Block a", "EN 280", "Block a"); r.Link = "/x.html"; return r }(),
			contains:    []string{"Block A", "#EN"},
			notContains: []string{"<a href"},
		},
		{
			name:     "escapes markup",
			row:      courseRow("Seminar <Special> & more", "Seminar <Special> & more"),
			contains: []string{"Seminar &lt;Special&gt; &amp; more"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := FormatRow(tt.row)
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("FormatRow() missing %q in:\n%s", want, msg)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(msg, unwanted) {
					t.Errorf("FormatRow() should not contain %q in:\n%s", unwanted, msg)
				}
			}
		})
	}
}

func TestFormatDigest(t *testing.T) {
	rows := []schedule.Row{
		courseRow("MA 126 Calculus I", "MA 126", "Calculus I"),
		courseRow("Orientation week", "Orientation week"),
		courseRow("CP 122 Computer Science I", "CP 122", "Computer Science I"),
		courseRow("CP 222 Data Structures", "CP 222", "Data Structures"),
	}

	msg := FormatDigest(rows, "https://cc.test/schedule.html")

	if !strings.Contains(msg, "Found <b>4</b> new course rows") {
		t.Errorf("missing count line:\n%s", msg)
	}
	cp := strings.Index(msg, "<b>CP</b> (2)")
	ma := strings.Index(msg, "<b>MA</b> (1)")
	other := strings.Index(msg, "<b>Other</b> (1)")
	if cp < 0 || ma < 0 || other < 0 {
		t.Fatalf("missing department sections:\n%s", msg)
	}
	if !(cp < ma && ma < other) {
		t.Errorf("departments out of order (CP=%d MA=%d Other=%d)", cp, ma, other)
	}
	if !strings.HasSuffix(msg, `<a href="https://cc.test/schedule.html">Full course schedule</a>`) {
		t.Errorf("missing schedule link:\n%s", msg)
	}
}

func TestFormatDigest_Empty(t *testing.T) {
	if got := FormatDigest(nil, ""); got != "No new courses on the schedule." {
		t.Errorf("FormatDigest(nil) = %q", got)
	}
}

func TestFormatSummary(t *testing.T) {
	tests := []struct {
		name string
		rows []schedule.Row
		want string
	}{
		{name: "none", want: "📚 No new courses"},
		{name: "one", rows: []schedule.Row{courseRow("CP 122")}, want: "📚 1 new course row: CP (1)"},
		{
			name: "several",
			rows: []schedule.Row{courseRow("MA 126"), courseRow("CP 122"), courseRow("CP 222")},
			want: "📚 3 new course rows: CP (2), MA (1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSummary(tt.rows); got != tt.want {
				t.Errorf("FormatSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
