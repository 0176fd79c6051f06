package session

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/lifecycle"

	adapter "github.com/aretw0/inkwell/pkg/adapters/lifecycle"
	"github.com/aretw0/inkwell/pkg/core"
)

// ErrNotWatchable is returned by Follow when the store cannot report changes.
var ErrNotWatchable = errors.New("state store does not support watching")

// followQuiet lets another process finish writing the token and user pair
// before the session is reloaded.
const followQuiet = 100 * time.Millisecond

// Follow keeps the in-memory session in line with changes other processes
// make to the persisted state (e.g. `inkwell logout` while a server runs).
// It returns once watching has started; the work stops with ctx.
func (m *Manager) Follow(ctx context.Context) error {
	w, ok := m.store.(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}

	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	src := adapter.NewSource(events, adapter.WithQuiet(followQuiet))
	if err := src.Start(ctx); err != nil {
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range src.Events() {
			m.logger.Debug("persisted session changed", "event", e.String())
			if err := m.reload(ctx); err != nil {
				m.logger.Warn("failed to reload session", "error", err)
			}
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		m.logger.Error("session follower panic", "error", err)
	}))
	return nil
}

// reload refreshes the in-memory session from the store. Unlike Restore it
// never deletes anything: partial state usually means another process is
// between two writes, so the current session is kept until the next change.
func (m *Manager) reload(ctx context.Context) error {
	sess, err := m.load(ctx)

	var corrupt *core.CorruptStateError
	if errors.As(err, &corrupt) {
		m.logger.Debug("persisted session incomplete, keeping current", "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	m.set(sess, false)
	return nil
}
