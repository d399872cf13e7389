package settings

import "sync"

// MemoryStore is an in-process Store, used in tests and as a fallback when
// the on-disk store cannot be opened (settings then simply don't survive the
// process).
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(key, field string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key][field]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[key] == nil {
		m.data[key] = make(map[string]string)
	}
	m.data[key][field] = value
	return nil
}
