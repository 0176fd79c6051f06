package notes

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes  int  `json:"notes"`
	Loaded bool `json:"loaded"`
	Closed bool `json:"closed"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{Notes: len(s.notes), Loaded: s.loaded, Closed: s.closed}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "notes-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
