package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrQuotaExceeded is returned when a write would grow the store past its quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// MemoryStore is an in-process KVStore. A positive quota caps the total
// number of value bytes held, mirroring a browser-style storage limit.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	quota  int
}

// NewMemoryStore creates a memory store; quota <= 0 means unlimited.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		quota:  quota,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		used := 0
		for k, v := range m.values {
			if k != key {
				used += len(v)
			}
		}
		if used+len(value) > m.quota {
			return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used+len(value), m.quota)
		}
	}

	m.values[key] = value
	return nil
}

// SetQuota changes the byte quota; quota <= 0 removes it.
func (m *MemoryStore) SetQuota(quota int) {
	m.mu.Lock()
	m.quota = quota
	m.mu.Unlock()
}

func (m *MemoryStore) Close() error { return nil }
