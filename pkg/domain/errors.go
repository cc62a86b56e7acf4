package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Authentication errors
var (
	ErrUserNotFound                = errors.New("user not found")
	ErrTenantNotFound              = errors.New("tenant not found")
	ErrTenantInactive              = errors.New("tenant is inactive")
	ErrInvalidCredentials          = errors.New("invalid credentials")
	ErrAccountLocked               = errors.New("account locked due to too many failed login attempts")
	ErrTemporaryCredentialConsumed = errors.New("temporary password has already been used")
	ErrPasswordChangeRequired      = errors.New("password change required")
	ErrSessionNotFound             = errors.New("session not found")
	ErrSessionExpired              = errors.New("session expired")
	ErrSessionRevoked              = errors.New("session revoked")
	ErrInvalidToken                = errors.New("invalid token")
	ErrForbidden                   = errors.New("forbidden")
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidTenantID = errors.New("invalid tenant identifier")
	ErrWeakPassword    = errors.New("password does not meet requirements")
)

// ValidationError reports malformed or missing input, keyed by field name.
// Callers must correct the input; retrying unchanged will fail again.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError reports a unique constraint violation.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q is already taken", e.Field, e.Value)
}

// PersistenceError wraps a storage failure. The wrapped error is for logs only;
// callers see a generic message. Safe to retry with backoff.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TeardownPartialFailure collects the credential locations that could not be
// cleared. It is informational and never blocks the caller.
type TeardownPartialFailure struct {
	Failures map[string]error
}

func (e *TeardownPartialFailure) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failures[name]))
	}
	return "credential teardown incomplete: " + strings.Join(parts, "; ")
}

// Add records that the named location failed.
func (e *TeardownPartialFailure) Add(name string, err error) {
	if e.Failures == nil {
		e.Failures = make(map[string]error)
	}
	e.Failures[name] = err
}

// HasFailures reports whether any location failed.
func (e *TeardownPartialFailure) HasFailures() bool {
	return len(e.Failures) > 0
}
