// Package errs defines the error kinds shared across modules. Module errors
// wrap one of these kinds so callers can branch with errors.Is, even after
// the error crossed a request-reply boundary as plain text.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrThrottled    = errors.New("too many attempts")
)

var kinds = []error{
	ErrInvalidInput,
	ErrConflict,
	ErrUnauthorized,
	ErrThrottled,
	ErrNotFound,
}

// RemoteError is an error received from another module whose kind was
// recovered from its message.
type RemoteError struct {
	Kind    error
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// FromRemote restores the kind of an error that lost its type in transit.
// Errors without a recognizable kind are returned unchanged.
func FromRemote(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	msg := err.Error()
	var found error
	at := len(msg)
	for _, kind := range kinds {
		if i := strings.Index(msg, kind.Error()+":"); i >= 0 && i < at {
			found, at = kind, i
		}
	}
	if found == nil {
		return err
	}
	return &RemoteError{Kind: found, Message: msg[at:]}
}

// New builds a module error of the given kind, formatted "<kind>: <detail>".
func New(kind error, detail string) error {
	return &kindError{kind: kind, detail: detail}
}

type kindError struct {
	kind   error
	detail string
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.detail
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// Invalid marks err as an input validation failure.
func Invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// Kind returns the kind wrapped by err, or nil.
func Kind(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
