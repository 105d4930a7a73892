package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed client error. Status carries the remote HTTP
// status when one was received; it is zero for local and transport failures.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Err     error  `json:"-"`
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

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the failure taxonomy the views react to. The first
// three are recoverable: callers render a "could not load" section and keep
// the rest of the page alive.
var (
	ErrTransport    = New("TRANSPORT_ERROR", 0, "could not reach the course directory")
	ErrRemoteStatus = New("REMOTE_STATUS", 0, "course directory returned a non-success status")
	ErrDecode       = New("DECODE_ERROR", 0, "malformed response from the course directory")

	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "authentication required")
	ErrNotEnrolled  = New("NOT_ENROLLED", http.StatusForbidden, "enrollment required to view this content")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
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

// WithStatus returns a copy of the error carrying the remote HTTP status.
func WithStatus(err *Error, status int) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Status = status
	return &clone
}

// Is reports whether err matches target by code, so callers can test against
// the predefined values regardless of Clone/Wrap decoration.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Code == t.Code
}

// Recoverable reports whether the error is a load failure the views absorb
// into a per-section message rather than a page failure.
func Recoverable(err error) bool {
	e := FromError(err)
	if e == nil {
		return false
	}
	switch e.Code {
	case ErrTransport.Code, ErrRemoteStatus.Code, ErrDecode.Code:
		return true
	}
	return false
}
