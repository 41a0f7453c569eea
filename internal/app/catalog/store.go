// Package catalog holds the product catalog and the filtered view over it.
package catalog

import (
	"sync"

	"github.com/mrops-br/storefront-cart/internal/domain"
)

// Store keeps the full catalog and the currently displayed (searched) subset.
// Both are replaced wholesale; returned slices must not be mutated.
type Store struct {
	mu       sync.RWMutex
	all      []domain.Product
	filtered []domain.Product
	index    map[string]int
	loaded   bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		all:      []domain.Product{},
		filtered: []domain.Product{},
		index:    make(map[string]int),
	}
}

// Replace installs a freshly fetched catalog and resets the filtered view to it.
func (s *Store) Replace(products []domain.Product) {
	all := append([]domain.Product{}, products...)
	index := make(map[string]int, len(all))
	for i, p := range all {
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = i
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.all = all
	s.filtered = all
	s.index = index
	s.loaded = true
}

// SetFiltered replaces the filtered view with a search result.
func (s *Store) SetFiltered(products []domain.Product) {
	filtered := append([]domain.Product{}, products...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filtered = filtered
}

// ResetFilter shows the full catalog again.
func (s *Store) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filtered = s.all
}

// All returns the full catalog
func (s *Store) All() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.all
}

// Filtered returns the current filtered view
func (s *Store) Filtered() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered
}

// Lookup finds a product in the full catalog
func (s *Store) Lookup(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.all[i], true
}

// Loaded reports whether a catalog fetch has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
