package schedule

// PageSize is the number of data rows shown per page.
const PageSize = 20

// maxButtons is the width of the page-number window.
const maxButtons = 5

// PageWindow is the current page over a list of data rows.
type PageWindow struct {
	PageSize    int
	CurrentPage int
}

// NewPageWindow returns a window on page 1 with the default page size.
func NewPageWindow() PageWindow {
	return PageWindow{PageSize: PageSize, CurrentPage: 1}
}

func (w PageWindow) size() int {
	if w.PageSize <= 0 {
		return PageSize
	}
	return w.PageSize
}

// TotalPages returns ceil(dataRows / PageSize); 0 when there are no rows.
func (w PageWindow) TotalPages(dataRows int) int {
	if dataRows <= 0 {
		return 0
	}
	size := w.size()
	return (dataRows + size - 1) / size
}

// GoTo moves to page n. Pages outside [1, totalPages] leave the window
// unchanged.
func (w PageWindow) GoTo(n, totalPages int) PageWindow {
	if n < 1 || n > totalPages {
		return w
	}
	w.CurrentPage = n
	return w
}

// Range returns the 1-based positions of the first and last data rows shown
// on the current page, as in "Showing 21 to 40 of 45".
func (w PageWindow) Range(dataRows int) (from, to int) {
	if dataRows <= 0 {
		return 0, 0
	}
	size := w.size()
	from = min(dataRows, 1+(w.CurrentPage-1)*size)
	to = min(w.CurrentPage*size, dataRows)
	return from, to
}

// Page slices the data rows of rows for the current page. The header is not
// included.
func Page(rows RowSet, w PageWindow) []Row {
	data := rows.Data()
	if w.CurrentPage < 1 {
		return nil
	}
	size := w.size()
	start := (w.CurrentPage - 1) * size
	if start >= len(data) {
		return nil
	}
	end := min(start+size, len(data))
	return data[start:end]
}

// PageButtons returns up to five page numbers to offer for navigation.
func PageButtons(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	count := min(maxButtons, totalPages)
	var first int
	switch {
	case totalPages <= maxButtons || current <= 3:
		first = 1
	case current >= totalPages-2:
		first = totalPages - maxButtons + 1
	default:
		first = current - 2
	}

	buttons := make([]int, count)
	for i := range buttons {
		buttons[i] = first + i
	}
	return buttons
}
