package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotConfirmed is returned when the user declines a destructive action.
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrDetached is returned when a response arrives after the consuming view was closed.
	ErrDetached = errors.New("store is closed")
	// ErrNotFound is returned when a record is unknown to the server.
	ErrNotFound = errors.New("note not found")
)

// ValidationError is a local, pre-network rejection of user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a rejection from the login or signup endpoints.
// Message is safe to show to the user.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError is any other failed note operation.
type FetchError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// CorruptStateError reports persisted session data that could not be used.
// It is recovered from by clearing the persisted state.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt persisted state %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("corrupt persisted state %q", e.Key)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var a *AuthError
	return errors.As(err, &a)
}

// IsFetch reports whether err is a FetchError.
func IsFetch(err error) bool {
	var f *FetchError
	return errors.As(err, &f)
}
