package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a missing or malformed field. Surfaced as a client error.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks a duplicate unique key.
	ErrConflict = errors.New("conflict")
)

// Invalid wraps ErrInvalidInput with a field-level reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with the offending key.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
