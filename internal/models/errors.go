package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the session, gateway and blog layers.
var (
	// ErrUnauthenticated is returned when a write is attempted without a
	// session. Callers redirect the user to the login flow.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrNotFound covers unknown seed ids and backend 404s.
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is returned for edits or deletes of seed posts.
	ErrReadOnly = errors.New("seed content is read-only")
)

// APIError is any other backend failure. Message is the backend's text and
// is meant to be shown to the user as is.
// Status is 0 when the backend could not be reached at all.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// ValidationError is raised before any network call for input that can
// never succeed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
