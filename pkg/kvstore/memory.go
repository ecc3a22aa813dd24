package kvstore

import (
	"context"
	"sync"
)

// Memory keeps values in-process. Used as the test double and as the
// default backend when nothing durable is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string

	// FailSet, FailGet and FailDelete, when non-nil, force the matching
	// operation to fail. Tests use them to exercise storage-error paths.
	FailSet    error
	FailGet    error
	FailDelete error
}

// NewMemory initializes an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if m.FailSet != nil {
		return m.FailSet
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
