package cache

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in process memory. Useful for tests and for a
// gateway that should start cold on every boot.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]map[string]*Entry)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, url string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.namespaces[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	e, ok := ns[url]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, namespace string, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]*Entry)
		s.namespaces[namespace] = ns
	}
	cp := *e
	ns[e.URL] = &cp
	return nil
}

func (s *MemoryStore) Namespaces(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.namespaces))
	for ns := range s.namespaces {
		out = append(out, ns)
	}
	return out, nil
}

func (s *MemoryStore) DeleteNamespace(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
