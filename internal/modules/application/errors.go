package application

import (
	"errors"
	"strings"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrDuplicateEmail = errors.New("an application with this email already exists")
	ErrNoFields       = errors.New("no fields to update")
)

// ValidationError carries the full ordered list of field messages.
// All rule failures are reported together, never one at a time.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, ", ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
