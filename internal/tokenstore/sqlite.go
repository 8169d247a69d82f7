package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pfrederiksen/cc-courses/internal/crypto"
	"github.com/pfrederiksen/cc-courses/internal/tokenstore/migrations"
)

// SQLiteStore keeps details in a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	path      string
	encryptor *crypto.Encryptor
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and applies pending
// migrations.
func NewSQLiteStore(ctx context.Context, path string, enc *crypto.Encryptor) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode lets the server read while a webhook writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path, encryptor: enc}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// migrate runs every *.up.sql file newer than the recorded version.
func (s *SQLiteStore) migrate(ctx context.Context, fsys fs.FS) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, fid int64) (Details, error) {
	var sealed Details
	err := s.db.QueryRowContext(ctx,
		"SELECT url, token FROM notification_details WHERE fid = ?", fid,
	).Scan(&sealed.URL, &sealed.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return Details{}, ErrNotFound
	}
	if err != nil {
		return Details{}, fmt.Errorf("querying notification details: %w", err)
	}
	return open(s.encryptor, sealed)
}

func (s *SQLiteStore) Set(ctx context.Context, fid int64, d Details) error {
	sealed, err := seal(s.encryptor, d)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notification_details (fid, url, token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fid) DO UPDATE SET
			url = excluded.url,
			token = excluded.token,
			updated_at = excluded.updated_at
	`, fid, sealed.URL, sealed.Token, now, now)
	if err != nil {
		return fmt.Errorf("saving notification details: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, fid int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notification_details WHERE fid = ?", fid); err != nil {
		return fmt.Errorf("deleting notification details: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) (map[int64]Details, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT fid, url, token FROM notification_details")
	if err != nil {
		return nil, fmt.Errorf("querying notification details: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]Details)
	for rows.Next() {
		var fid int64
		var sealed Details
		if err := rows.Scan(&fid, &sealed.URL, &sealed.Token); err != nil {
			return nil, fmt.Errorf("scanning notification details: %w", err)
		}
		d, err := open(s.encryptor, sealed)
		if err != nil {
			return nil, fmt.Errorf("fid %d: %w", fid, err)
		}
		out[fid] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification details: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
