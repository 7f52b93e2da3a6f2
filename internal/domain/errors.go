package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrLoginRequired = errors.New("login required")
	ErrInvalid       = errors.New("invalid input")
	ErrRejected      = errors.New("rejected by server")
	ErrUnreachable   = errors.New("cannot connect to the recipe server")
	ErrCancelled     = errors.New("cancelled")
)

// RemoteError is a non-success response from the backend. Message is the
// server-supplied error text when there was one.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Unwrap lets callers match any backend rejection with errors.Is.
func (e *RemoteError) Unwrap() error { return ErrRejected }
