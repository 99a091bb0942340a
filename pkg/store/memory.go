package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps plans in process memory. It is the default backend
// for the server when no MongoDB URI is configured, and the backend all
// tests use.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string]Plan)}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, p Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return Plan{}, notFound(id)
	}
	return p, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, Summarize(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error { return nil }
