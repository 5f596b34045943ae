package types

import (
	"errors"
	"fmt"
)

// ErrConfiguration classifies every rejected input: non-positive thickness,
// period counts below one, negative prices, a target length shorter than the
// stack already built. Use errors.Is to branch on it.
var ErrConfiguration = errors.New("calo: invalid configuration")

// ValidationError represents a validation failure with details.
// It unwraps to ErrConfiguration.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("calo: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap returns ErrConfiguration.
func (e ValidationError) Unwrap() error { return ErrConfiguration }

// Invalid builds a ValidationError with a formatted message.
func Invalid(field, format string, args ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
