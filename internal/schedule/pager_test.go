package schedule

import (
	"fmt"
	"reflect"
	"testing"
)

func numberedRows(n int) RowSet {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("cp %03d block 1", i+1)
	}
	return textRows(texts...)
}

func TestPageWindow_FortyFiveRows(t *testing.T) {
	rows := numberedRows(45)
	w := NewPageWindow()

	total := w.TotalPages(rows.DataLen())
	if total != 3 {
		t.Fatalf("TotalPages() = %d, want 3", total)
	}

	w = w.GoTo(3, total)
	if w.CurrentPage != 3 {
		t.Fatalf("GoTo(3) CurrentPage = %d", w.CurrentPage)
	}
	if got := Page(rows, w); len(got) != 5 || got[0].Text != "cp 041 block 1" {
		t.Errorf("last page = %v", rowTexts(got))
	}

	w = w.GoTo(4, total)
	if w.CurrentPage != 3 {
		t.Errorf("GoTo(4) should be a no-op, CurrentPage = %d", w.CurrentPage)
	}
}

func TestPageWindow_GoToBounds(t *testing.T) {
	tests := []struct {
		name  string
		start int
		to    int
		total int
		want  int
	}{
		{"valid", 1, 2, 3, 2},
		{"zero", 2, 0, 3, 2},
		{"negative", 2, -1, 3, 2},
		{"past end", 2, 4, 3, 2},
		{"no pages", 1, 1, 0, 1},
		{"last", 1, 3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PageWindow{PageSize: PageSize, CurrentPage: tt.start}.GoTo(tt.to, tt.total)
			if w.CurrentPage != tt.want {
				t.Errorf("CurrentPage = %d, want %d", w.CurrentPage, tt.want)
			}
		})
	}
}

func TestPageWindow_TotalPages(t *testing.T) {
	w := NewPageWindow()
	tests := map[int]int{0: 0, 1: 1, 20: 1, 21: 2, 40: 2, 45: 3}
	for rows, want := range tests {
		if got := w.TotalPages(rows); got != want {
			t.Errorf("TotalPages(%d) = %d, want %d", rows, got, want)
		}
	}
}

func TestPage(t *testing.T) {
	rows := numberedRows(45)

	first := Page(rows, NewPageWindow())
	if len(first) != PageSize {
		t.Fatalf("first page has %d rows", len(first))
	}
	if first[0].IsHeader {
		t.Error("Page should not include the header")
	}
	if first[0].Text != "cp 001 block 1" || first[19].Text != "cp 020 block 1" {
		t.Errorf("first page = %v", rowTexts(first))
	}

	if got := Page(rows, PageWindow{PageSize: PageSize, CurrentPage: 9}); got != nil {
		t.Errorf("out of range page = %v, want nil", rowTexts(got))
	}
	if got := Page(RowSet{}, NewPageWindow()); got != nil {
		t.Errorf("empty rows page = %v, want nil", got)
	}
}

func TestPageWindow_Range(t *testing.T) {
	tests := []struct {
		page, rows, from, to int
	}{
		{1, 45, 1, 20},
		{2, 45, 21, 40},
		{3, 45, 41, 45},
		{1, 7, 1, 7},
		{1, 0, 0, 0},
	}
	for _, tt := range tests {
		from, to := PageWindow{PageSize: PageSize, CurrentPage: tt.page}.Range(tt.rows)
		if from != tt.from || to != tt.to {
			t.Errorf("Range(page %d, %d rows) = %d..%d, want %d..%d", tt.page, tt.rows, from, to, tt.from, tt.to)
		}
	}
}

func TestPageButtons(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 1, []int{1}},
		{2, 3, []int{1, 2, 3}},
		{5, 5, []int{1, 2, 3, 4, 5}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{3, 10, []int{1, 2, 3, 4, 5}},
		{4, 10, []int{2, 3, 4, 5, 6}},
		{7, 10, []int{5, 6, 7, 8, 9}},
		{8, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.current, tt.total), func(t *testing.T) {
			if got := PageButtons(tt.current, tt.total); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PageButtons() = %v, want %v", got, tt.want)
			}
		})
	}
}
