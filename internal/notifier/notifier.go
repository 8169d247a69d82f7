package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// Notifier defines the interface for announcing new course rows
type Notifier interface {
	// Notify posts notifications for the given rows
	Notify(ctx context.Context, rows []schedule.Row) error
}

// Multi sends to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, rows []schedule.Row) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// headline is a one-line description of a batch.
func headline(rows []schedule.Row) string {
	switch len(rows) {
	case 0:
		return "No new courses"
	case 1:
		return rows[0].Summary()
	}

	seen := make(map[string]bool)
	var depts []string
	for _, r := range rows {
		id, ok := schedule.ExtractCourseID(r.Text)
		if !ok {
			continue
		}
		dept := strings.ToUpper(id.Dept)
		if !seen[dept] {
			seen[dept] = true
			depts = append(depts, dept)
		}
	}
	if len(depts) == 0 {
		return fmt.Sprintf("%d new course rows", len(rows))
	}
	return fmt.Sprintf("%d new course rows in %s", len(rows), strings.Join(depts, ", "))
}
