package state

import (
	"sync"

	"github.com/ppiankov/forensia/internal/model"
)

// FeatureStore holds the current feature values of one session.
// Every update installs a new Features value; snapshots handed out earlier
// are never modified.
type FeatureStore struct {
	mu       sync.RWMutex
	features model.Features
}

// NewFeatureStore creates a store initialised to the given values
func NewFeatureStore(initial model.Features) *FeatureStore {
	return &FeatureStore{features: initial}
}

// Snapshot returns the current values
func (s *FeatureStore) Snapshot() model.Features {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features
}

// Update replaces a single field and returns the resulting snapshot.
// No validation or clamping is applied.
func (s *FeatureStore) Update(u model.FeatureUpdate) model.Features {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = s.features.Apply(u)
	return s.features
}

// Selector holds the classification currently chosen by the user
type Selector struct {
	mu      sync.RWMutex
	current model.Classification
}

// NewSelector creates a selector starting at the given classification
func NewSelector(initial model.Classification) *Selector {
	return &Selector{current: initial}
}

// Current returns the selected classification
func (s *Selector) Current() model.Classification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select replaces the current classification unconditionally
func (s *Selector) Select(c model.Classification) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}
