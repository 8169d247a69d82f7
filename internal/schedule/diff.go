package schedule

import (
	"sort"
)

// Snapshot records which course rows were present at a point in time.
type Snapshot struct {
	Rows      map[string]*SnapshotRow `json:"rows"`       // keyed by Row.ID
	UpdatedAt string                  `json:"updated_at"` // RFC3339 timestamp
}

// SnapshotRow is the stored form of one data row.
type SnapshotRow struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Cells []string `json:"cells,omitempty"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Rows: make(map[string]*SnapshotRow),
	}
}

// CreateSnapshot records the data rows of rows.
func CreateSnapshot(rows RowSet, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, r := range rows.Data() {
		id := r.ID()
		snap.Rows[id] = &SnapshotRow{
			ID:    id,
			Text:  r.Text,
			Cells: r.Cells,
		}
	}

	return snap
}

// DiffResult contains the results of comparing rows against a snapshot
type DiffResult struct {
	NewRows []Row
	Removed []*SnapshotRow
}

// HasChanges reports whether any row was added or removed.
func (d *DiffResult) HasChanges() bool {
	return len(d.NewRows) > 0 || len(d.Removed) > 0
}

// Diff returns the data rows absent from previous, in input order, and the
// previous rows that are gone. A nil previous counts every row as new.
func Diff(previous *Snapshot, rows RowSet) *DiffResult {
	result := &DiffResult{
		NewRows: make([]Row, 0),
		Removed: make([]*SnapshotRow, 0),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	seen := make(map[string]bool, rows.DataLen())
	for _, r := range rows.Data() {
		id := r.ID()
		if seen[id] {
			continue
		}
		seen[id] = true

		if _, exists := previous.Rows[id]; !exists {
			result.NewRows = append(result.NewRows, r)
		}
	}

	for id, prev := range previous.Rows {
		if !seen[id] {
			result.Removed = append(result.Removed, prev)
		}
	}
	// Map iteration order is random; sort for consistent output.
	sort.Slice(result.Removed, func(i, j int) bool {
		return result.Removed[i].Text < result.Removed[j].Text
	})

	return result
}
