package notes

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/inkwell/pkg/core"
)

// EditState is the state of one note-editing form.
type EditState int

const (
	StateViewing EditState = iota
	StateEditing
	StateSubmitting
)

func (s EditState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	// ErrEditInProgress is returned when editing starts while another edit is open.
	ErrEditInProgress = errors.New("another note is being edited")
	// ErrBusy is returned when a submit is issued while one is in flight.
	ErrBusy = errors.New("a submit is already in progress")
	// ErrNotEditing is returned when submitting without an open edit.
	ErrNotEditing = errors.New("no note is being edited")
)

// Editor drives the form state machine of a page:
//
//	viewing -> editing -> submitting -> viewing   (success)
//	                                 -> editing   (failure, error kept)
//
// At most one note is in edit at a time.
type Editor struct {
	store *Store

	mu      sync.Mutex
	state   EditState
	target  *core.Note // nil while creating a new note
	lastErr error
}

// NewEditor creates an editor over store, in the viewing state.
func NewEditor(store *Store) *Editor {
	return &Editor{store: store}
}

// Begin opens the form. A nil note opens it for a new note.
func (e *Editor) Begin(n *core.Note) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateViewing {
		return ErrEditInProgress
	}
	if n != nil {
		cp := *n
		e.target = &cp
	} else {
		e.target = nil
	}
	e.state = StateEditing
	e.lastErr = nil
	return nil
}

// Cancel closes the form unless a submit is in flight.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateSubmitting {
		return ErrBusy
	}
	e.state = StateViewing
	e.target = nil
	e.lastErr = nil
	return nil
}

// Submit sends the draft: create when the form was opened without a note,
// update otherwise. Resubmitting while a submit is in flight returns ErrBusy.
func (e *Editor) Submit(ctx context.Context, d core.Draft) (core.Note, error) {
	e.mu.Lock()
	switch e.state {
	case StateViewing:
		e.mu.Unlock()
		return core.Note{}, ErrNotEditing
	case StateSubmitting:
		e.mu.Unlock()
		return core.Note{}, ErrBusy
	}
	e.state = StateSubmitting
	target := e.target
	e.mu.Unlock()

	var (
		n   core.Note
		err error
	)
	if target == nil {
		n, err = e.store.Create(ctx, d)
	} else {
		n, err = e.store.Update(ctx, target.ID, d)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateEditing
		e.lastErr = err
		return core.Note{}, err
	}
	e.state = StateViewing
	e.target = nil
	e.lastErr = nil
	return n, nil
}

// State returns the current form state.
func (e *Editor) State() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Target returns the note being edited, if any.
func (e *Editor) Target() (core.Note, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.target == nil {
		return core.Note{}, false
	}
	return *e.target, true
}

// Err returns the error of the last failed submit while the form is open.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Busy reports whether a submit is in flight.
func (e *Editor) Busy() bool {
	return e.State() == StateSubmitting
}
