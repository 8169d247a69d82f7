package schedule

import (
	"github.com/pfrederiksen/cc-courses/internal/filter"
)

// State is everything a front end needs to render one screen of results.
// Transitions return a new State; the receiver is never modified.
type State struct {
	Rows     RowSet
	Criteria filter.Criteria
	SortKey  SortKey
	Window   PageWindow
}

// View is the derived, display-ready result of a State.
type View struct {
	Header     *Row
	Rows       []Row // data rows on the current page
	Matched    int   // data rows passing the filters
	Total      int   // data rows before filtering
	Page       int
	TotalPages int
	Buttons    []int
	From       int
	To         int
}

// NewState starts on page 1 with no filters, sorted by course ID.
func NewState(rows RowSet) State {
	return State{
		Rows:     rows,
		Criteria: filter.Criteria{}.Normalize(),
		SortKey:  SortCourseID,
		Window:   NewPageWindow(),
	}
}

// WithRows replaces the rows and returns to page 1.
func (s State) WithRows(rows RowSet) State {
	s.Rows = rows
	s.Window.CurrentPage = 1
	return s
}

// WithCriteria replaces the filters and returns to page 1.
func (s State) WithCriteria(c filter.Criteria) State {
	s.Criteria = c.Normalize()
	s.Window.CurrentPage = 1
	return s
}

// WithQuery replaces only the keyword query and returns to page 1.
func (s State) WithQuery(q string) State {
	c := s.Criteria
	c.Query = q
	return s.WithCriteria(c)
}

// WithSort changes the sort key. The current page is kept.
func (s State) WithSort(key SortKey) State {
	s.SortKey = key
	return s
}

// GoTo moves to page n if it exists for the current filters.
func (s State) GoTo(n int) State {
	total := s.Window.TotalPages(s.filtered().DataLen())
	s.Window = s.Window.GoTo(n, total)
	return s
}

// Next moves forward one page if possible.
func (s State) Next() State {
	return s.GoTo(s.Window.CurrentPage + 1)
}

// Prev moves back one page if possible.
func (s State) Prev() State {
	return s.GoTo(s.Window.CurrentPage - 1)
}

// Matched returns the header plus every data row passing the filters, sorted.
func (s State) Matched() RowSet {
	return Sort(s.filtered(), s.SortKey)
}

func (s State) filtered() RowSet {
	return filter.Apply(s.Rows, s.Criteria)
}

// View filters, sorts, then pages the rows.
func (s State) View() View {
	matched := s.Matched()
	n := matched.DataLen()
	totalPages := s.Window.TotalPages(n)
	from, to := s.Window.Range(n)

	v := View{
		Rows:       Page(matched, s.Window),
		Matched:    n,
		Total:      s.Rows.DataLen(),
		Page:       s.Window.CurrentPage,
		TotalPages: totalPages,
		Buttons:    PageButtons(s.Window.CurrentPage, totalPages),
		From:       from,
		To:         to,
	}
	if h, ok := matched.Header(); ok {
		v.Header = &h
	}
	return v
}

// HasPrev reports whether a previous page exists.
func (v View) HasPrev() bool {
	return v.Page > 1
}

// HasNext reports whether a next page exists.
func (v View) HasNext() bool {
	return v.Page < v.TotalPages
}
