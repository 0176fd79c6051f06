// Package lifecycle turns bursts of state store events into lifecycle events.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/inkwell/pkg/core"
)

// Change is emitted once per settled burst of state changes.
type Change struct {
	// Keys lists every key touched in the burst, in first-seen order.
	Keys []string
	// Last is the final event of the burst.
	Last core.Event
}

func (c Change) String() string {
	return "state changed: " + strings.Join(c.Keys, ",")
}

func (c *Change) add(e core.Event) {
	c.Last = e
	for _, k := range c.Keys {
		if k == e.Key {
			return
		}
	}
	c.Keys = append(c.Keys, e.Key)
}

// Option configures a change source.
type Option func(*changeSource)

// WithQuiet sets how long the input must stay silent before a burst is
// emitted. Zero emits every event on its own.
func WithQuiet(d time.Duration) Option {
	return func(s *changeSource) {
		s.quiet = d
	}
}

type changeSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	quiet  time.Duration
}

// NewSource creates a lifecycle.Source that emits one Change per burst.
// The output closes when the input closes (after flushing a pending burst)
// or when the context passed to Start is done.
func NewSource(events <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &changeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		s.run(ctx)
		return nil
	})
	return nil
}

func (s *changeSource) run(ctx context.Context) {
	var (
		pending *Change
		timer   *time.Timer
		settled <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case e, ok := <-s.events:
			if !ok {
				if pending != nil {
					s.emit(ctx, *pending)
				}
				return
			}
			if pending == nil {
				pending = &Change{}
			}
			pending.add(e)

			if s.quiet <= 0 {
				if !s.emit(ctx, *pending) {
					return
				}
				pending = nil
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.quiet)
			} else {
				timer.Reset(s.quiet)
			}
			settled = timer.C

		case <-settled:
			settled = nil
			if !s.emit(ctx, *pending) {
				return
			}
			pending = nil
		}
	}
}

func (s *changeSource) emit(ctx context.Context, c Change) bool {
	select {
	case s.out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
