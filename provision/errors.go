// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package provision

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by Provision wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("email already registered")
	ErrHashing    = errors.New("credential hashing failed")
	ErrStorage    = errors.New("storage failure")
)

// Error carries the kind, the offending request fields (validation only)
// and the underlying cause, which is for logs and never for clients.
type Error struct {
	Kind   error
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Outcome returns the metrics label for err
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, ErrValidation):
		return OutcomeValidation
	case errors.Is(err, ErrConflict):
		return OutcomeConflict
	case errors.Is(err, ErrHashing):
		return OutcomeHashing
	default:
		return OutcomeStorage
	}
}

func validationError(fields []string) *Error {
	return &Error{Kind: ErrValidation, Fields: fields}
}

func hashingError(err error) *Error {
	return &Error{Kind: ErrHashing, Err: err}
}

func conflictError(err error) *Error {
	return &Error{Kind: ErrConflict, Err: err}
}

func storageError(err error) *Error {
	return &Error{Kind: ErrStorage, Err: err}
}
