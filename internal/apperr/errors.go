// Package apperr defines the error taxonomy shared by repositories,
// services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// AuthError is returned when a username/password pair does not match.
// The message never reveals which half was wrong.
type AuthError struct{}

func (AuthError) Error() string { return "invalid credentials" }

// ConflictError reports a unique-key violation on Field.
type ConflictError struct {
	Field string
	Value string
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s already exists", e.Field)
	}
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConnectivityError wraps a failure to reach the store.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "database connection error: " + e.Err.Error()
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

func IsAuth(err error) bool {
	var target AuthError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConnectivity(err error) bool {
	var target *ConnectivityError
	return errors.As(err, &target)
}
