package recipe

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a Store held in a map. It backs the "memory" storage
// driver and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[string]*Recipe
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recipes: make(map[string]*Recipe)}
}

func (m *MemoryStore) List(ctx context.Context) ([]*Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		out = append(out, r.Clone())
	}
	SortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

func (m *MemoryStore) Put(ctx context.Context, r *Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recipes[r.ID] = r.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[id]; !ok {
		return ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recipes = make(map[string]*Recipe)
	return nil
}

// Replace swaps the contents in one step.
func (m *MemoryStore) Replace(ctx context.Context, recipes []*Recipe) error {
	next := make(map[string]*Recipe, len(recipes))
	for _, r := range recipes {
		next[r.ID] = r.Clone()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes = next
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// SortNewestFirst orders recipes by createdAt descending, then by id so
// the order is stable.
func SortNewestFirst(recipes []*Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		a, b := recipes[i], recipes[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
