package store

import (
	"sync"

	"github.com/jstz-dev/jstz/kv/kvkey"
)

// MemStore is an in-memory BackingStore, grounded on the teacher's
// core/txbackend.MemoryBackend: a mutex-guarded map standing in for
// durable storage. Used by the test suite.
type MemStore struct {
	mu   sync.RWMutex
	data map[kvkey.Key][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[kvkey.Key][]byte)}
}

func (m *MemStore) Get(key kvkey.Key) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, nil
}

func (m *MemStore) Put(key kvkey.Key, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[key] = cp
	return nil
}

func (m *MemStore) Delete(key kvkey.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemStore) Exists(key kvkey.Key) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.data[key]
	return ok, nil
}

// Len reports the number of keys currently stored. Test helper.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
