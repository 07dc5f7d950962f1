// Package errors defines the sentinel errors the appointment pipeline speaks
// in: use cases return them, the HTTP layer maps them to status codes, and
// the consumers treat anything else as a transport failure to nack.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels shared by every use case in the pipeline.
var (
	// ErrNotFound indicates the appointment (or other resource) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates a request or event payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context while preserving the chain, so a repository error still
// matches its sentinel when the HTTP layer or a consumer inspects it.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
