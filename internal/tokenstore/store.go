package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/cc-courses/internal/crypto"
)

// ErrNotFound is returned by Get when no details are stored for a fid.
var ErrNotFound = errors.New("notification details not found")

// Details is where and how to deliver a frame notification to one user.
type Details struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// Validate checks that both fields are set.
func (d Details) Validate() error {
	if d.URL == "" {
		return errors.New("notification url is required")
	}
	if d.Token == "" {
		return errors.New("notification token is required")
	}
	return nil
}

// Store keeps notification details keyed by Farcaster fid.
type Store interface {
	Get(ctx context.Context, fid int64) (Details, error)
	Set(ctx context.Context, fid int64, d Details) error
	Delete(ctx context.Context, fid int64) error
	List(ctx context.Context) (map[int64]Details, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendGist   = "gist"
)

// Options configures Open.
type Options struct {
	DataDir     string
	GistID      string
	GitHubToken string
	Encryptor   *crypto.Encryptor
}

// Open creates the named backend.
func Open(ctx context.Context, backend string, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(filepath.Join(opts.DataDir, "notification_details.json"), opts.Encryptor)
	case BackendSQLite:
		return NewSQLiteStore(ctx, filepath.Join(opts.DataDir, "notifications.db"), opts.Encryptor)
	case BackendGist:
		return NewGistStore(ctx, opts.GistID, opts.GitHubToken, opts.Encryptor)
	default:
		return nil, fmt.Errorf("unknown token store %q", backend)
	}
}

// seal encrypts both fields for storage.
func seal(enc *crypto.Encryptor, d Details) (Details, error) {
	url, err := enc.Encrypt(d.URL)
	if err != nil {
		return Details{}, fmt.Errorf("encrypting url: %w", err)
	}
	token, err := enc.Encrypt(d.Token)
	if err != nil {
		return Details{}, fmt.Errorf("encrypting token: %w", err)
	}
	return Details{URL: url, Token: token}, nil
}

// open reverses seal.
func open(enc *crypto.Encryptor, d Details) (Details, error) {
	url, err := enc.Decrypt(d.URL)
	if err != nil {
		return Details{}, fmt.Errorf("decrypting url: %w", err)
	}
	token, err := enc.Decrypt(d.Token)
	if err != nil {
		return Details{}, fmt.Errorf("decrypting token: %w", err)
	}
	return Details{URL: url, Token: token}, nil
}
