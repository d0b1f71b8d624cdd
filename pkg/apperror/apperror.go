package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so handlers can map it to an HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
	KindUnprocessable
)

// Error is a typed application error carrying a Kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation signals malformed input caught before reaching business logic.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Forbidden signals a scope violation: the principal has no rights to the target.
// Never downgrade this to an empty result set.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound signals a missing resource within the caller's scope.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict signals a valid resource in a state that rejects the requested transition.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Unprocessable signals structurally valid input violating a business invariant.
func Unprocessable(msg string) *Error {
	return &Error{Kind: KindUnprocessable, Message: msg}
}

// Wrap attaches a cause to a typed error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the Kind from an error chain, returning 0 when untyped.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// HTTPStatus maps an error to its HTTP status code. Untyped errors are 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
