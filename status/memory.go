package status

import (
	"context"
	"sync"
)

// Memory is an in-process Registry backed by a mutex-protected map.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ Registry = (*Memory)(nil)

// NewMemory creates an empty in-memory registry.
// Note: Returns concrete type to allow test assertions via Len().
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]string),
	}
}

// Set records the phase string for the task.
func (m *Memory) Set(ctx context.Context, id string, phase string) error {
	m.mu.Lock()
	m.entries[id] = phase
	m.mu.Unlock()
	return nil
}

// Get returns the phase string for the task and whether an entry exists.
func (m *Memory) Get(ctx context.Context, id string) (string, bool, error) {
	m.mu.RLock()
	phase, ok := m.entries[id]
	m.mu.RUnlock()
	return phase, ok, nil
}

// Delete removes the entry.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
