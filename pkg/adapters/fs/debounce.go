package fs

import (
	"sync"
	"time"

	"github.com/aretw0/inkwell/pkg/core"
)

// debouncer holds back events per key until the key has been quiet for the
// delay. Only the latest event of a burst is emitted.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

// add schedules emit for e. A newer event for the same key restarts the wait.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	key := e.Key
	d.pending[key] = e
	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		ev, ok := d.pending[key]
		delete(d.pending, key)
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		if ok {
			emit(ev)
		}
	})
	d.timers[key] = t
}

// stopAndWait drops pending events and waits up to timeout for emits
// already running.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	clear(d.pending)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
