package fs

import (
	"context"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/inkwell/pkg/core"
)

// StoreState exposes internal state for observability.
// It never includes the persisted values themselves.
type StoreState struct {
	Dir           string     `json:"dir"`
	HasToken      bool       `json:"has_token"`
	HasUser       bool       `json:"has_user"`
	WatcherActive bool       `json:"watcher_active"`
	LastWrite     *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	_, hasToken, _ := s.Get(context.Background(), core.KeyToken)
	_, hasUser, _ := s.Get(context.Background(), core.KeyUser)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Dir:           s.Dir,
		HasToken:      hasToken,
		HasUser:       hasUser,
		WatcherActive: s.watcherActive,
		LastWrite:     s.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "state-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
