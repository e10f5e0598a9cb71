package storage

import (
	"sync"
)

// Persistence is a set of named byte slots. Each call is atomic for its key.
type Persistence interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Exists(key string) (bool, error)
}

// Batcher is implemented by backends able to replace several keys at once.
// Either every entry is written or none is.
type Batcher interface {
	SetBatch(entries map[string][]byte) error
}

// Memory is an in-process Persistence
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set replaces the value stored under key
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Exists reports whether key holds a value
func (m *Memory) Exists(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slots[key]
	return ok, nil
}

// SetBatch replaces all entries under a single lock
func (m *Memory) SetBatch(entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.slots[k] = append([]byte(nil), v...)
	}
	return nil
}
