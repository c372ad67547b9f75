// Package apperr defines the error taxonomy shared by the core and its front ends.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidFormat = errors.New("invalid format")
)

// FormatError reports a value rejected by a field rule.
// Reason is fixed per rule and never echoes the rejected input.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidFormat, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, ErrInvalidFormat, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidFormat) match any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// Invalid is a shorthand for building a FormatError.
func Invalid(field, reason string) error {
	return &FormatError{Field: field, Reason: reason}
}
