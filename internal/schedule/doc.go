// Package schedule models the courses table as an ordered set of rows and
// provides the sort, paging and view-state logic used by every front end.
//
// A RowSet is built once per fetch from the table's inner HTML. Element 0 is
// always the header row; Sort and the filter package re-prepend it after
// working on the data rows. State ties rows, filter criteria, sort key and page
// together and derives a View by filtering, then sorting, then paging.
//
// Example usage:
//
//	rows, err := schedule.Build(html)
//	if err != nil {
//	    return err
//	}
//	st := schedule.NewState(rows).
//	    WithCriteria(filter.Criteria{Query: "physics", Block: "block1"}).
//	    WithSort(schedule.SortBlock)
//	view := st.View()
package schedule
