// Package notes holds the in-memory list of a user's notes and keeps it in
// line with the server. Every mutation is applied after, and from, the
// server's confirmed answer; a failed call leaves the list as it was.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/inkwell/pkg/api"
	"github.com/aretw0/inkwell/pkg/core"
)

// Backend is the part of the API the store talks to.
type Backend interface {
	ListNotes(ctx context.Context) ([]core.Note, error)
	GetNote(ctx context.Context, id string) (core.Note, error)
	CreateNote(ctx context.Context, d core.Draft) (core.Note, error)
	UpdateNote(ctx context.Context, id string, d core.Draft) (core.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Store is the per-view notes state. Callers are expected to hold an
// authenticated session; the store does not check.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu     sync.RWMutex
	notes  []core.Note
	loaded bool
	closed bool
	// epoch counts resets; answers to requests from an older epoch are not applied.
	epoch uint64
}

// Option defines a functional option for configuring the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty store.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// List fetches every note and replaces the in-memory list.
func (s *Store) List(ctx context.Context) ([]core.Note, error) {
	epoch := s.currentEpoch()
	fetched, err := s.backend.ListNotes(ctx)
	if err != nil {
		return nil, fetchError("fetch notes", err)
	}

	applied, err := s.apply(epoch, func() {
		s.notes = fetched
		s.loaded = true
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return fetched, nil
	}
	return s.Notes(), nil
}

// Get fetches one note. A note already in the list is refreshed in place.
func (s *Store) Get(ctx context.Context, id string) (core.Note, error) {
	epoch := s.currentEpoch()
	n, err := s.backend.GetNote(ctx, id)
	if err != nil {
		return core.Note{}, fetchError("load note", err)
	}

	_, err = s.apply(epoch, func() {
		if i := s.indexOf(n.ID); i >= 0 {
			s.notes[i] = n
		}
	})
	return n, err
}

// Create validates the draft locally, then creates it and prepends the
// server's record. An empty draft never reaches the network.
func (s *Store) Create(ctx context.Context, d core.Draft) (core.Note, error) {
	if err := d.Validate(); err != nil {
		return core.Note{}, err
	}

	epoch := s.currentEpoch()
	n, err := s.backend.CreateNote(ctx, d.Clean())
	if err != nil {
		return core.Note{}, fetchError("create note", err)
	}

	_, err = s.apply(epoch, func() {
		s.notes = append([]core.Note{n}, s.notes...)
	})
	if err != nil {
		return n, err
	}
	s.logger.Debug("note created", "id", n.ID)
	return n, nil
}

// Update validates the draft locally, then replaces the matching record in
// place with the server's answer. The list order does not change.
func (s *Store) Update(ctx context.Context, id string, d core.Draft) (core.Note, error) {
	if err := d.Validate(); err != nil {
		return core.Note{}, err
	}

	epoch := s.currentEpoch()
	n, err := s.backend.UpdateNote(ctx, id, d.Clean())
	if err != nil {
		return core.Note{}, fetchError("update note", err)
	}

	_, err = s.apply(epoch, func() {
		if i := s.indexOf(id); i >= 0 {
			s.notes[i] = n
		}
	})
	if err != nil {
		return n, err
	}
	s.logger.Debug("note updated", "id", id)
	return n, nil
}

// Remove asks for confirmation, deletes the note and drops it from the list.
// A declined confirmation returns core.ErrNotConfirmed without any request.
func (s *Store) Remove(ctx context.Context, id string, confirm core.Confirmer) error {
	ok, err := confirm.Confirm(ctx, "Delete this note?")
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrNotConfirmed
	}

	epoch := s.currentEpoch()
	if err := s.backend.DeleteNote(ctx, id); err != nil {
		return fetchError("delete note", err)
	}

	if _, err := s.apply(epoch, func() {
		if i := s.indexOf(id); i >= 0 {
			s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
		}
	}); err != nil {
		return err
	}
	s.logger.Debug("note deleted", "id", id)
	return nil
}

// Notes returns a copy of the current list.
func (s *Store) Notes() []core.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Note(nil), s.notes...)
}

// Loaded reports whether a List call has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Close detaches the store from its view. Answers that arrive afterwards are
// dropped and the call returns core.ErrDetached.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Reset forgets the list, for instance when the signed-in user changes.
// Answers to requests started before the reset are not applied.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = nil
	s.loaded = false
	s.epoch++
}

func (s *Store) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// apply runs fn under the write lock unless the store was closed or reset
// since epoch. It reports whether fn ran.
func (s *Store) apply(epoch uint64, fn func()) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, core.ErrDetached
	}
	if s.epoch != epoch {
		s.logger.Debug("dropping answer from before reset")
		return false, nil
	}
	fn()
	return true, nil
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// fetchError wraps any failed note operation. Not-found answers also match
// core.ErrNotFound.
func fetchError(op string, err error) error {
	fe := &core.FetchError{Op: op, Err: err}
	if se, ok := api.AsStatus(err); ok {
		fe.Status = se.Status
		fe.Message = se.Detail
		if se.Status == http.StatusNotFound {
			fe.Err = fmt.Errorf("%w: %w", core.ErrNotFound, err)
		}
	}
	return fe
}
