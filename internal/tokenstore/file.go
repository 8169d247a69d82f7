package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pfrederiksen/cc-courses/internal/crypto"
)

// FileStore keeps details in a JSON file. Every write rewrites the file
// through a temp file and rename.
type FileStore struct {
	mu        sync.Mutex
	path      string
	encryptor *crypto.Encryptor
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by path, creating its directory.
func NewFileStore(path string, enc *crypto.Encryptor) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{path: path, encryptor: enc}, nil
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) load() (*document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return parseDocument(data)
}

func (f *FileStore) save(doc *document) error {
	data, err := doc.encode()
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, fid int64) (Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return Details{}, err
	}
	return doc.get(f.encryptor, fid)
}

func (f *FileStore) Set(_ context.Context, fid int64, d Details) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if err := doc.set(f.encryptor, fid, d); err != nil {
		return err
	}
	return f.save(doc)
}

func (f *FileStore) Delete(_ context.Context, fid int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if !doc.delete(fid) {
		return nil
	}
	return f.save(doc)
}

func (f *FileStore) List(_ context.Context) (map[int64]Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	return doc.list(f.encryptor)
}

func (f *FileStore) Close() error { return nil }
