package session

import "sync"

// MemoryStore keeps session keys in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// MemoryProvider gives every session id its own MemoryStore. A store is
// only held once something is written to it and is dropped when emptied, so
// anonymous readers cost nothing.
type MemoryProvider struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{stores: make(map[string]*MemoryStore)}
}

func (p *MemoryProvider) Store(id string) Store {
	return providerStore{provider: p, id: id}
}

// Len returns the number of sessions holding at least one key.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stores)
}

type providerStore struct {
	provider *MemoryProvider
	id       string
}

func (s providerStore) Get(key string) (string, bool, error) {
	s.provider.mu.Lock()
	store, ok := s.provider.stores[s.id]
	s.provider.mu.Unlock()
	if !ok {
		return "", false, nil
	}
	return store.Get(key)
}

func (s providerStore) Set(key, value string) error {
	s.provider.mu.Lock()
	defer s.provider.mu.Unlock()
	store, ok := s.provider.stores[s.id]
	if !ok {
		store = NewMemoryStore()
		s.provider.stores[s.id] = store
	}
	return store.Set(key, value)
}

func (s providerStore) Delete(keys ...string) error {
	s.provider.mu.Lock()
	defer s.provider.mu.Unlock()
	store, ok := s.provider.stores[s.id]
	if !ok {
		return nil
	}
	if err := store.Delete(keys...); err != nil {
		return err
	}
	if store.Len() == 0 {
		delete(s.provider.stores, s.id)
	}
	return nil
}
