package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict with current state")

// ErrUnauthorized indicates that the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnavailable indicates that the store could not be reached. Callers may retry.
var ErrUnavailable = errors.New("store unavailable")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError reports a missing resource of the given kind.
func NewNotFoundError(kind, id string) error {
	return &AppError{Code: http.StatusNotFound, Message: fmt.Sprintf("%s %s", kind, id), Err: ErrNotFound}
}

// NewValidationError reports invalid input.
func NewValidationError(format string, args ...any) error {
	return &AppError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...), Err: ErrValidation}
}

// IsRetryable reports whether the failure is transient and the action can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
