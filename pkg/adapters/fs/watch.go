package fs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/inkwell/pkg/core"
)

// DebounceDelay is how long a key must stay quiet before its change is reported.
const DebounceDelay = 50 * time.Millisecond

// Watch reports changes of the persisted keys made by any process.
// The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Dir, err)
	}

	events := make(chan core.Event, 16)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return s.watchLoop(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatcherError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			// Stack only at debug level.
			if s.config.Logger.Enabled(ctx, slog.LevelDebug) {
				s.config.Logger.Error("watcher panic", "error", recovered, "stack", string(debug.Stack()))
			} else {
				s.config.Logger.Error("watcher panic", "error", recovered)
			}
			err = fmt.Errorf("watcher panic: %v", recovered)
		}
	}()
	defer close(events)
	defer s.setWatcherActive(false)
	defer watcher.Close()

	// Pending emits must finish before events is closed.
	debounce := newDebouncer(DebounceDelay)
	defer debounce.stopAndWait(5 * time.Second)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}

			e, ok := mapEvent(event)
			if !ok {
				continue
			}
			s.config.Logger.Debug("state changed", "key", e.Key, "type", e.Type)
			debounce.add(e, func(e core.Event) {
				// events may be closed if stopAndWait timed out.
				defer func() { _ = recover() }()
				select {
				case events <- e:
				case <-ctx.Done():
				}
			})

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.handleWatcherError(wErr)
		}
	}
}

// mapEvent translates an fsnotify event into a key event.
// Temp files and unrelated files are ignored.
func mapEvent(event fsnotify.Event) (core.Event, bool) {
	key := keyOf(event.Name)
	if key == "" {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		t = core.EventWrite
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{Type: t, Key: key, Timestamp: time.Now().Unix()}, true
}

func (s *Store) handleWatcherError(err error) {
	s.config.Logger.Error("fsnotify error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
