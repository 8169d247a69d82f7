package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfrederiksen/cc-courses/internal/filter"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
)

const tableHTML = `<tr><th>Course</th><th>Title</th><th>Block</th></tr>
<tr><td>MA 126</td><td class="title program-Mathematics"><a href="/ma126.html">Calculus I</a></td><td>Block 2</td></tr>
<tr><td>CP 122</td><td class="title program-ComputerScience">Computer Science I</td><td>Block 1</td></tr>
<tr><td>PH 141</td><td class="title program-Physics">Introductory Physics I</td><td>Block 5</td></tr>`

type fakeFetcher struct {
	html string
	err  error
}

func (f fakeFetcher) Fetch(ctx context.Context) (string, error) {
	return f.html, f.err
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func loaded(t *testing.T, html string) Model {
	t.Helper()
	m := New(Options{Fetcher: fakeFetcher{html: html}, Debounce: 50 * time.Millisecond})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return update(t, m, m.load())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoad(t *testing.T) {
	m := loaded(t, tableHTML)

	if m.loading {
		t.Fatal("expected loading to finish")
	}
	view := m.View()
	for _, want := range []string{"Colorado College Course Search", "CP 122", "MA 126", "Found 3 courses"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\n%s", want, view)
		}
	}
	if strings.Index(view, "CP 122") > strings.Index(view, "MA 126") {
		t.Error("expected rows sorted by course ID")
	}
}

func TestLoad_Error(t *testing.T) {
	m := New(Options{Fetcher: fakeFetcher{err: scraper.ErrTableNotFound}})
	m = update(t, m, m.load())

	if !strings.Contains(m.View(), "Error: courses table not found") {
		t.Errorf("expected error in view:\n%s", m.View())
	}
	if !errors.Is(m.err, scraper.ErrTableNotFound) {
		t.Errorf("err = %v", m.err)
	}
}

func TestLoad_NormalizesLinks(t *testing.T) {
	m := loaded(t, tableHTML)
	for _, r := range m.state.Rows.Data() {
		if strings.Contains(r.Content, "MA 126") {
			if r.Link != scraper.CatalogBaseURL+"ma126.html" {
				t.Errorf("Link = %q", r.Link)
			}
			return
		}
	}
	t.Fatal("MA 126 row not found")
}

func TestDebouncedQuery(t *testing.T) {
	m := loaded(t, tableHTML)

	msgs := make(chan tea.Msg, 8)
	m.out.send = func(msg tea.Msg) { msgs <- msg }

	for _, r := range "calc" {
		m = update(t, m, keyRunes(string(r)))
	}
	if got := m.state.View().Matched; got != 3 {
		t.Fatalf("query applied before the quiet period: matched %d", got)
	}

	var msg tea.Msg
	select {
	case msg = <-msgs:
	case <-time.After(time.Second):
		t.Fatal("debounced query was never sent")
	}
	if q, ok := msg.(queryMsg); !ok || q.query != "calc" {
		t.Fatalf("got %#v, want queryMsg{calc}", msg)
	}
	select {
	case extra := <-msgs:
		t.Fatalf("expected one debounced message, also got %#v", extra)
	case <-time.After(150 * time.Millisecond):
	}

	m = update(t, m, msg)
	if got := m.state.View().Matched; got != 1 {
		t.Errorf("matched = %d, want 1", got)
	}
	if !strings.Contains(m.View(), `Found 1 course matching "calc"`) {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestStaleQueryIgnored(t *testing.T) {
	m := loaded(t, tableHTML)
	m = update(t, m, keyRunes("phys"))

	m = update(t, m, queryMsg{query: "ph"})
	if got := m.state.Criteria.Query; got != "" {
		t.Errorf("stale query applied: %q", got)
	}
}

func TestFilterKeys(t *testing.T) {
	m := loaded(t, tableHTML)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.state.Criteria.Program != filter.Programs[1].Value {
		t.Errorf("program = %q, want %q", m.state.Criteria.Program, filter.Programs[1].Value)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.state.Criteria.Term != filter.Terms[1].Value {
		t.Errorf("term = %q", m.state.Criteria.Term)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if !m.state.Criteria.IsEmpty() {
		t.Errorf("expected cleared criteria, got %+v", m.state.Criteria)
	}
}

func TestSortKey(t *testing.T) {
	m := loaded(t, tableHTML)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.state.SortKey != schedule.SortBlock {
		t.Fatalf("sort = %q", m.state.SortKey)
	}
	rows := m.state.View().Rows
	if len(rows) != 3 || !strings.Contains(rows[0].Content, "CP 122") || !strings.Contains(rows[2].Content, "PH 141") {
		t.Errorf("unexpected block order: %v", rows)
	}
}

func TestPaging(t *testing.T) {
	var b strings.Builder
	b.WriteString("<tr><th>Course</th></tr>")
	for i := 0; i < 45; i++ {
		fmt.Fprintf(&b, "<tr><td>CP %d</td></tr>", 100+i)
	}
	m := loaded(t, b.String())

	// Page keys apply to the table, not the search box.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})

	v := m.state.View()
	if v.Page != 3 || len(v.Rows) != 5 {
		t.Errorf("page = %d rows = %d, want page 3 with 5 rows", v.Page, len(v.Rows))
	}
	if !strings.Contains(m.View(), "Showing 41 to 45 of 45") {
		t.Errorf("unexpected view:\n%s", m.View())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	if m.state.View().Page != 2 {
		t.Errorf("page = %d, want 2", m.state.View().Page)
	}
}

func TestDetails(t *testing.T) {
	m := loaded(t, tableHTML)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.details == nil {
		t.Fatal("expected the details pane")
	}
	if view := m.View(); !strings.Contains(view, "Computer Science I") || !strings.Contains(view, "Title") {
		t.Errorf("unexpected details view:\n%s", view)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.details != nil {
		t.Error("expected esc to close the details pane")
	}
}

func TestCycle(t *testing.T) {
	opts := []filter.Option{{Value: "all"}, {Value: "a"}, {Value: "b"}}
	tests := []struct {
		current string
		want    string
	}{
		{"all", "a"},
		{"a", "b"},
		{"b", "all"},
		{"unknown", "all"},
	}
	for _, tt := range tests {
		if got := cycle(opts, tt.current); got != tt.want {
			t.Errorf("cycle(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}
