package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore keeps details in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	details map[int64]Details
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{details: make(map[int64]Details)}
}

func (m *MemoryStore) Get(_ context.Context, fid int64) (Details, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.details[fid]
	if !ok {
		return Details{}, ErrNotFound
	}
	return d, nil
}

func (m *MemoryStore) Set(_ context.Context, fid int64, d Details) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[fid] = d
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, fid int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.details, fid)
	return nil
}

func (m *MemoryStore) List(_ context.Context) (map[int64]Details, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]Details, len(m.details))
	for fid, d := range m.details {
		out[fid] = d
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
