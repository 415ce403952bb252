package state

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. State does not survive restarts.
type MemoryKV struct {
	// values maps keys to stored strings.
	values map[string]string
	// mu protects values.
	mu sync.RWMutex
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Set overwrites the value under key.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

// Delete removes key; missing keys are ignored.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() error {
	return nil
}
