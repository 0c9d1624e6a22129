package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so cloned sentinels still compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. Conflicts answer 400 to keep the
// public contract of the records API.
var (
	ErrNotFound      = New("NOT_FOUND", http.StatusNotFound, "ressource non trouvée")
	ErrRouteNotFound = New("ROUTE_NOT_FOUND", http.StatusNotFound, "Route non trouvée")
	ErrUnauthorized  = New("UNAUTHORIZED", http.StatusUnauthorized, "Authentification requise")
	ErrConflict      = New("CONFLICT", http.StatusBadRequest, "conflit")
	ErrValidation    = New("VALIDATION_ERROR", http.StatusBadRequest, "validation échouée")
	ErrInternal      = New("INTERNAL_ERROR", http.StatusInternalServerError, "Erreur interne du serveur")
	ErrCacheMiss     = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Validation builds a validation error carrying one message per offending field.
func Validation(details ...string) *Error {
	clone := *ErrValidation
	clone.Details = append([]string(nil), details...)
	return &clone
}

// Internal wraps err as an internal failure exposing only message to callers.
func Internal(err error, message string) *Error {
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}
