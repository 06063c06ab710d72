// Package favorites keeps the set of places each visitor has marked.
package favorites

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrEmptyKey is returned when the visitor or place id is missing.
var ErrEmptyKey = errors.New("visitor and place id are required")

// Store toggles and lists favorite place ids per visitor.
type Store interface {
	// Toggle flips membership of placeID and reports whether it is now a favorite.
	Toggle(ctx context.Context, visitorID, placeID string) (bool, error)
	// List returns the favorites of a visitor in sorted order.
	List(ctx context.Context, visitorID string) ([]string, error)
	Contains(ctx context.Context, visitorID, placeID string) (bool, error)
}

// MemoryStore keeps favorites in process memory; they are lost on restart.
type MemoryStore struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]map[string]struct{})}
}

func (m *MemoryStore) Toggle(_ context.Context, visitorID, placeID string) (bool, error) {
	if visitorID == "" || placeID == "" {
		return false, ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[visitorID]
	if !ok {
		set = make(map[string]struct{})
		m.sets[visitorID] = set
	}

	if _, exists := set[placeID]; exists {
		delete(set, placeID)
		if len(set) == 0 {
			delete(m.sets, visitorID)
		}
		return false, nil
	}

	set[placeID] = struct{}{}

	return true, nil
}

func (m *MemoryStore) List(_ context.Context, visitorID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sets[visitorID]))
	for id := range m.sets[visitorID] {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids, nil
}

func (m *MemoryStore) Contains(_ context.Context, visitorID, placeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sets[visitorID][placeID]

	return ok, nil
}
