package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfrederiksen/cc-courses/internal/filter"
	"github.com/pfrederiksen/cc-courses/internal/links"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
)

const minColumnWidth = 6

type rowsLoadedMsg struct {
	rows schedule.RowSet
	err  error
}

// queryMsg carries the query once typing has paused.
type queryMsg struct {
	query string
}

// dispatcher lets the debouncer's timer goroutine post messages into the
// running program.
type dispatcher struct {
	send func(tea.Msg)
}

func (d *dispatcher) post(msg tea.Msg) {
	if d.send != nil {
		d.send(msg)
	}
}

// Options configures the browser.
type Options struct {
	Fetcher  scraper.TableFetcher
	BaseURL  string
	Criteria filter.Criteria
	SortKey  schedule.SortKey
	Debounce time.Duration
}

// Model is the bubbletea model for the course browser.
type Model struct {
	fetcher scraper.TableFetcher
	baseURL string

	state     schedule.State
	input     textinput.Model
	table     table.Model
	help      help.Model
	debouncer *schedule.Debouncer
	out       *dispatcher

	loading bool
	err     error
	details *schedule.Row
	width   int
	height  int
}

// New builds a model that fetches the table on Init.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter course name, department, or keyword..."
	ti.CharLimit = 256
	ti.SetValue(opts.Criteria.Query)
	ti.Focus()

	t := table.New(table.WithHeight(schedule.PageSize))
	t.Blur()

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = scraper.CatalogBaseURL
	}

	state := schedule.NewState(nil).WithCriteria(opts.Criteria)
	if opts.SortKey != "" {
		state = state.WithSort(opts.SortKey)
	}

	return Model{
		fetcher:   opts.Fetcher,
		baseURL:   baseURL,
		state:     state,
		input:     ti,
		table:     t,
		help:      help.New(),
		debouncer: schedule.NewDebouncer(opts.Debounce),
		out:       &dispatcher{},
		loading:   true,
	}
}

// Init starts the one and only fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load)
}

func (m Model) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), scraper.Timeout)
	defer cancel()

	html, err := m.fetcher.Fetch(ctx)
	if err != nil {
		return rowsLoadedMsg{err: err}
	}
	rows, err := schedule.Build(links.Normalize(html, m.baseURL))
	return rowsLoadedMsg{rows: rows, err: err}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.help.Width = msg.Width
		m.resizeColumns()
		return m, nil

	case rowsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			logger.Error("loading course table", nil, msg.err)
			return m, nil
		}
		m.state = m.state.WithRows(msg.rows)
		m.setColumns()
		m.refresh()
		return m, nil

	case queryMsg:
		// Stale if the input changed after the timer fired.
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.state = m.state.WithQuery(msg.query)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.debouncer.Stop()
		return m, tea.Quit
	case m.details != nil:
		if key.Matches(msg, keys.Back, keys.Details) {
			m.details = nil
		}
		return m, nil
	case key.Matches(msg, keys.Focus):
		if m.input.Focused() {
			m.input.Blur()
			m.table.Focus()
			return m, nil
		}
		m.table.Blur()
		return m, m.input.Focus()
	case key.Matches(msg, keys.Term):
		c := m.state.Criteria
		c.Term = cycle(filter.Terms, c.Term)
		return m.withCriteria(c), nil
	case key.Matches(msg, keys.Block):
		c := m.state.Criteria
		c.Block = cycle(filter.Blocks, c.Block)
		return m.withCriteria(c), nil
	case key.Matches(msg, keys.Program):
		c := m.state.Criteria
		c.Program = cycle(filter.Programs, c.Program)
		return m.withCriteria(c), nil
	case key.Matches(msg, keys.Clear):
		m.debouncer.Stop()
		m.input.SetValue("")
		return m.withCriteria(filter.Criteria{}), nil
	case key.Matches(msg, keys.Sort):
		next := schedule.SortBlock
		if m.state.SortKey == schedule.SortBlock {
			next = schedule.SortCourseID
		}
		m.state = m.state.WithSort(next)
		m.refresh()
		return m, nil
	case key.Matches(msg, keys.PrevPage) && !m.input.Focused():
		m.state = m.state.Prev()
		m.refresh()
		return m, nil
	case key.Matches(msg, keys.NextPage) && !m.input.Focused():
		m.state = m.state.Next()
		m.refresh()
		return m, nil
	case key.Matches(msg, keys.Details) && m.table.Focused():
		view := m.state.View()
		if i := m.table.Cursor(); i >= 0 && i < len(view.Rows) {
			row := view.Rows[i]
			m.details = &row
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.input.Focused() {
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if q := m.input.Value(); q != before {
			out := m.out
			m.debouncer.Trigger(func() { out.post(queryMsg{query: q}) })
		}
		return m, cmd
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) withCriteria(c filter.Criteria) Model {
	c.Query = m.input.Value()
	m.state = m.state.WithCriteria(c)
	m.refresh()
	return m
}

// cycle returns the option after current, wrapping around.
func cycle(options []filter.Option, current string) string {
	for i, o := range options {
		if strings.EqualFold(o.Value, current) {
			return options[(i+1)%len(options)].Value
		}
	}
	return options[0].Value
}

func (m *Model) setColumns() {
	h, ok := m.state.Rows.Header()
	if !ok {
		return
	}
	cols := make([]table.Column, len(h.Cells))
	for i, title := range h.Cells {
		cols[i] = table.Column{Title: title, Width: max(len(title), minColumnWidth)}
	}
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.resizeColumns()
}

// resizeColumns shares the terminal width between columns in proportion to
// their longest cell.
func (m *Model) resizeColumns() {
	cols := m.table.Columns()
	if len(cols) == 0 || m.width == 0 {
		return
	}
	want := make([]int, len(cols))
	total := 0
	for i, c := range cols {
		want[i] = len(c.Title)
		for _, r := range m.state.Rows.Data() {
			if i < len(r.Cells) {
				want[i] = max(want[i], len(r.Cells[i]))
			}
		}
		total += want[i]
	}
	avail := m.width - 2*len(cols)
	for i := range cols {
		w := want[i]
		if total > avail && total > 0 {
			w = want[i] * avail / total
		}
		cols[i].Width = max(w, minColumnWidth)
	}
	m.table.SetColumns(cols)
}

// refresh re-derives the visible page and loads it into the table.
func (m *Model) refresh() {
	ncols := len(m.table.Columns())
	view := m.state.View()
	rows := make([]table.Row, 0, len(view.Rows))
	for _, r := range view.Rows {
		cells := make(table.Row, ncols)
		copy(cells, r.Cells)
		rows = append(rows, cells)
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Colorado College Course Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(styleMuted.Render("Loading courses..."))
	case m.err != nil:
		b.WriteString(styleError.Render("Error: " + m.err.Error()))
	case m.details != nil:
		b.WriteString(m.detailsView(*m.details))
	default:
		b.WriteString(m.resultsView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(keys.help()))
	return b.String()
}

func (m Model) filterLine() string {
	c := m.state.Criteria
	sortLabel := "Course ID"
	for _, k := range schedule.SortKeys {
		if k.Key == m.state.SortKey {
			sortLabel = k.Label
		}
	}
	return styleFilters.Render(fmt.Sprintf("%s · %s · %s · sort: %s",
		filter.Label(filter.Terms, c.Term),
		filter.Label(filter.Blocks, c.Block),
		filter.Label(filter.Programs, c.Program),
		sortLabel,
	))
}

func (m Model) resultsView() string {
	view := m.state.View()
	if view.Matched == 0 {
		if m.state.Criteria.IsEmpty() {
			return styleMuted.Render("No courses in the table")
		}
		return styleMuted.Render("No courses found matching your search criteria. Try different keywords or filters.")
	}

	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteString("\n")
	noun := "courses"
	if view.Matched == 1 {
		noun = "course"
	}
	b.WriteString(fmt.Sprintf("Found %d %s%s", view.Matched, noun, m.state.Criteria.Describe()))
	if view.TotalPages > 1 {
		b.WriteString(styleMuted.Render(fmt.Sprintf("  Showing %d to %d of %d", view.From, view.To, view.Matched)))
		b.WriteString("  ")
		b.WriteString(pageButtons(view))
	}
	return b.String()
}

func pageButtons(v schedule.View) string {
	parts := make([]string, 0, len(v.Buttons))
	for _, n := range v.Buttons {
		label := fmt.Sprintf("%d", n)
		if n == v.Page {
			label = styleActive.Render("[" + label + "]")
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func (m Model) detailsView(r schedule.Row) string {
	var lines []string
	header, _ := m.state.Rows.Header()
	for i, cell := range r.Cells {
		title := header.Cell(i)
		if title == "" {
			title = fmt.Sprintf("Column %d", i+1)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", styleActive.Render(title), cell))
	}
	if r.Link != "" {
		lines = append(lines, styleMuted.Render(r.Link))
	}
	return styleDetails.Render(strings.Join(lines, "\n"))
}
