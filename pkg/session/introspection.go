package session

import (
	"time"

	"github.com/aretw0/introspection"
)

// State is the observable view of a Manager. The token is never exposed.
type State struct {
	Authenticated bool       `json:"authenticated"`
	Restored      bool       `json:"restored"`
	Email         string     `json:"email,omitempty"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return State{
		Authenticated: m.current.User.Email != "" || m.current.User.Username != "",
		Restored:      m.restored,
		Email:         m.current.User.Email,
		Username:      m.current.User.Username,
		ExpiresAt:     m.current.ExpiresAt,
		Expired:       m.current.Expired(time.Now()),
	}
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Manager)(nil)
var _ introspection.Component = (*Manager)(nil)
