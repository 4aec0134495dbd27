package store

import (
	"context"
	"sync"
)

// MemoryLocal keeps slots in process memory.
type MemoryLocal struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryLocal returns an empty in-memory slot store.
func NewMemoryLocal() *MemoryLocal {
	return &MemoryLocal{slots: make(map[string][]byte)}
}

// Get reads a slot.
func (m *MemoryLocal) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put replaces a slot.
func (m *MemoryLocal) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a slot.
func (m *MemoryLocal) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
