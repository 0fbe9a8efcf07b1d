package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It is the test double for every other
// backend and backs "--store memory:" runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decode(key, raw, dst)
}

func (m *Memory) Set(ctx context.Context, key string, value any) error {
	return m.SetMany(ctx, map[string]any{key: value})
}

func (m *Memory) SetMany(_ context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := encode(k, v)
		if err != nil {
			return err
		}
		encoded[k] = data
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, data := range encoded {
		m.data[k] = data
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Has reports whether key is present.
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

func (m *Memory) Close() error { return nil }
