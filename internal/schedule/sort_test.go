package schedule

import (
	"reflect"
	"testing"
)

func rowTexts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}
	return out
}

func textRows(texts ...string) RowSet {
	rows := RowSet{{Index: 0, IsHeader: true, Text: "course block"}}
	for i, t := range texts {
		rows = append(rows, Row{Index: i + 1, Text: t})
	}
	return rows
}

func TestSort_CourseIDScenario(t *testing.T) {
	rows := mustBuild(t, fragmentOf(
		row("CS 101", "Block 1 2024"),
		row("MA201", "Block 2 2024"),
		row("CS050", "Block 1 2024"),
	))

	got := Sort(rows, SortCourseID)
	want := []string{"course block", "cs050 block 1 2024", "cs 101 block 1 2024", "ma201 block 2 2024"}
	if !reflect.DeepEqual(rowTexts(got), want) {
		t.Errorf("Sort() = %v, want %v", rowTexts(got), want)
	}
	if !got[0].IsHeader {
		t.Error("header should stay first")
	}
	// Input untouched.
	if rows[1].Text != "cs 101 block 1 2024" {
		t.Error("Sort modified its input")
	}
}

func TestSort_Block(t *testing.T) {
	rows := textRows(
		"en 280 block a 2025",
		"ph 141 block 5 2025",
		"cp 122 block 1 2024",
		"gs 101 block h 2025",
		"ma 126 block 1 2024",
		"ar 100 block 10 2025",
	)

	got := Sort(rows, SortBlock)
	want := []string{
		"course block",
		"cp 122 block 1 2024",
		"ma 126 block 1 2024",
		"ph 141 block 5 2025",
		"ar 100 block 10 2025",
		"en 280 block a 2025",
		"gs 101 block h 2025",
	}
	if !reflect.DeepEqual(rowTexts(got), want) {
		t.Errorf("Sort() =\n%v\nwant\n%v", rowTexts(got), want)
	}
}

func TestSort_BlockTieFallsBackToCourseID(t *testing.T) {
	rows := textRows("ma 126 block 2", "cp 122 block 2", "cp 115 block 2")
	got := Sort(rows, SortBlock)
	want := []string{"course block", "cp 115 block 2", "cp 122 block 2", "ma 126 block 2"}
	if !reflect.DeepEqual(rowTexts(got), want) {
		t.Errorf("Sort() = %v, want %v", rowTexts(got), want)
	}
}

func TestSort_StableWithoutKeys(t *testing.T) {
	rows := textRows("...", "tba", "---", "???")
	for _, key := range []SortKey{SortCourseID, SortBlock} {
		got := Sort(rows, key)
		if !reflect.DeepEqual(rowTexts(got), rowTexts(rows)) {
			t.Errorf("Sort(%s) reordered keyless rows: %v", key, rowTexts(got))
		}
	}
}

func TestSort_Empty(t *testing.T) {
	if got := Sort(RowSet{}, SortCourseID); len(got) != 0 {
		t.Errorf("Sort(empty) = %v", got)
	}
	header := textRows()
	if got := Sort(header, SortBlock); len(got) != 1 || !got[0].IsHeader {
		t.Errorf("Sort(header only) = %v", got)
	}
}

func TestExtractCourseID(t *testing.T) {
	tests := []struct {
		text   string
		want   CourseID
		wantOK bool
	}{
		{"cs 101 block 1", CourseID{"cs", 101}, true},
		{"MA201", CourseID{"ma", 201}, true},
		{"fyfs 100", CourseID{"fyfs", 100}, true},
		{"no identifier", CourseID{}, false},
	}

	for _, tt := range tests {
		got, ok := ExtractCourseID(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractCourseID(%q) = %+v, %v; want %+v, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractBlock(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"block 1 2024", "1", true},
		{"block12", "12", true},
		{"Block C", "c", true},
		{"half block h", "h", true},
		{"no slot", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractBlock(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractBlock(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]SortKey{
		"":         SortCourseID,
		"courseId": SortCourseID,
		"block":    SortBlock,
		"BLOCK":    SortBlock,
		"title":    SortCourseID,
	}
	for in, want := range tests {
		if got := ParseSortKey(in); got != want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", in, got, want)
		}
	}
}
