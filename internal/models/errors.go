package models

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Repository and service errors are normalized to these
// sentinels so the HTTP layer can map each to a fixed status code.
var (
	// ErrNotFound covers both missing rows and rows owned by another user;
	// cross-tenant access is deliberately indistinguishable from nonexistence.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateEmail signals a unique-constraint violation on users.email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials signals a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a request body that fails a declared field constraint.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
