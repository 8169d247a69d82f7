package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// DefaultDataDir is where snapshots and file-backed token stores live.
const DefaultDataDir = "~/.local/share/cc-courses"

var unsafeName = regexp.MustCompile(`[^a-z0-9_-]+`)

// Storage handles persistence of course snapshots
type Storage struct {
	dataDir string
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// DataDir returns the resolved data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// SnapshotPath returns the path to the snapshot file for name.
func (s *Storage) SnapshotPath(name string) string {
	name = unsafeName.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	name = strings.Trim(name, "-")
	if name == "" || name == "all" {
		return filepath.Join(s.dataDir, "snapshot.json")
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", name))
}

// LoadSnapshot loads a snapshot from disk. A missing file yields an empty
// snapshot.
func (s *Storage) LoadSnapshot(name string) (*schedule.Snapshot, error) {
	path := s.SnapshotPath(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return schedule.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot schedule.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	// Ensure Rows map is initialized
	if snapshot.Rows == nil {
		snapshot.Rows = make(map[string]*schedule.SnapshotRow)
	}

	return &snapshot, nil
}

// HasSnapshot reports whether a snapshot file exists for name.
func (s *Storage) HasSnapshot(name string) bool {
	_, err := os.Stat(s.SnapshotPath(name))
	return err == nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *schedule.Snapshot, name string) error {
	path := s.SnapshotPath(name)

	// Set updated timestamp
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromRows creates and saves a snapshot from the data rows
func (s *Storage) CreateSnapshotFromRows(rows schedule.RowSet, name string) error {
	snapshot := schedule.CreateSnapshot(rows, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, name)
}

// GetRowByID retrieves a stored row by ID from the named snapshot
func (s *Storage) GetRowByID(rowID, name string) (*schedule.SnapshotRow, error) {
	snapshot, err := s.LoadSnapshot(name)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if row, exists := snapshot.Rows[rowID]; exists {
		return row, nil
	}

	return nil, fmt.Errorf("row not found: %s", rowID)
}
