package core

import "context"

// Persisted state keys. Both are written on login and cleared together.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// StateStore defines the contract for durable local state.
// Adhering to this interface keeps the session manager independent of where
// the state lives (files, memory, a keychain).
type StateStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set writes the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// EventType represents the type of change observed in the state store.
type EventType string

const (
	EventWrite  EventType = "WRITE"
	EventDelete EventType = "DELETE"
)

// Event represents an external change of a persisted key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}

// Watchable is implemented by stores that can report changes made by other processes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Confirmer is the blocking yes/no decision point in front of destructive actions.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt. Used for non-interactive `--yes` runs.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
