package calo

import (
	"errors"
	"fmt"

	"github.com/xraph/calo/material"
	"github.com/xraph/calo/types"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("calo: not found")
	ErrAlreadyExists = errors.New("calo: already exists")

	// Configuration errors
	ErrConfiguration   = types.ErrConfiguration
	ErrUnknownMaterial = material.ErrUnknownMaterial

	// Report errors
	ErrReportNotFound = errors.New("calo: report not found")
	ErrReportExists   = errors.New("calo: report name already taken")

	// Engine errors
	ErrNoStore = errors.New("calo: no store configured")

	// Store errors
	ErrStoreNotReady   = errors.New("calo: store not ready")
	ErrStoreClosed     = errors.New("calo: store is closed")
	ErrMigrationFailed = errors.New("calo: migration failed")
)

// ValidationError is re-exported from the types package. It unwraps to
// ErrConfiguration.
type ValidationError = types.ValidationError

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "calo: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("calo: %d errors occurred", len(e.Errors))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e MultiError) Unwrap() []error { return e.Errors }

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// ErrorOrNil returns nil when nothing was collected.
func (e MultiError) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrReportNotFound)
}

// IsConfigError returns true if the input was rejected before anything was
// built or recorded.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsUnknownMaterial returns true if a material had no price or
// interaction-length entry.
func IsUnknownMaterial(err error) bool {
	return errors.Is(err, ErrUnknownMaterial)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady)
}
