package catalog

import (
	"sync/atomic"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

// Store hands out the current catalog snapshot and lets a background job replace it.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store serving initial.
func NewStore(initial *Catalog) *Store {
	store := &Store{}
	store.current.Store(initial)

	return store
}

// Current returns the catalog snapshot in use.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// SwapPlaces installs a snapshot with the given places; the rest of the content is kept.
func (s *Store) SwapPlaces(places []models.Place) {
	s.current.Store(s.Current().WithPlaces(places))
}
