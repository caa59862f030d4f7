// Package store persists the verification request collection.
//
// The collection lives as a single JSON blob under a fixed key, mirroring the
// portal's original key-value layout. Reads load the whole collection, writes
// replace it. The KV interface has memory, Redis and Postgres backings.
package store

import (
	"context"
	"sync"
)

// KV is the minimal key-value substrate the store runs on.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value, replacing any previous one.
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryKV is an in-process KV used in tests and single-node deployments.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}
