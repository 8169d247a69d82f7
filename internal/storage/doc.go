// Package storage provides JSON-based persistence for course-table snapshots.
//
// The check command compares the live table with the last snapshot to find
// newly listed courses. Snapshots are stored as JSON, one file per watch name
// (snapshot_NAME.json) plus a default file (snapshot.json) when no name is
// given. The default storage location is ~/.local/share/cc-courses/.
package storage
