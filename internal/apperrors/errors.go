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

// ErrInsufficientFunds indicates that the available balance of an account cannot cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidState indicates that the resource is not in a state that allows the operation
// (for example a frozen account or an already completed transaction).
var ErrInvalidState = errors.New("invalid state")

// ErrInternal indicates a store or infrastructure failure.
var ErrInternal = errors.New("internal error")

// ErrConflict indicates a concurrent request holds the resource.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-style code and a message while still unwrapping to its cause,
// so callers can keep using errors.Is against the sentinels above.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Kind is the client-facing error variant.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindInvalidState      Kind = "INVALID_STATE"
	KindDuplicate         Kind = "DUPLICATE"
	KindConflict          Kind = "CONFLICT"
	KindUnauthorized      Kind = "AUTH_FAILED"
	KindForbidden         Kind = "ACCESS_DENIED"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// GenericInternalMessage is returned to clients instead of internal error details.
const GenericInternalMessage = "An internal error occurred"

var kinds = []struct {
	sentinel error
	kind     Kind
	status   int
}{
	{ErrInternal, KindInternal, http.StatusInternalServerError},
	{ErrValidation, KindValidation, http.StatusBadRequest},
	{ErrNotFound, KindNotFound, http.StatusNotFound},
	{ErrInsufficientFunds, KindInsufficientFunds, http.StatusUnprocessableEntity},
	{ErrInvalidState, KindInvalidState, http.StatusConflict},
	{ErrDuplicate, KindDuplicate, http.StatusConflict},
	{ErrConflict, KindConflict, http.StatusConflict},
	{ErrUnauthorized, KindUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, KindForbidden, http.StatusForbidden},
}

// KindOf classifies err. Anything that does not wrap a known sentinel is Internal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// HTTPStatus returns the response status for err.
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// IsExpected reports whether err is a business-rule outcome rather than a system fault.
func IsExpected(err error) bool {
	return KindOf(err) != KindInternal
}

// Validation wraps ErrValidation with a message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with a message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidState wraps ErrInvalidState with a message.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// InsufficientFunds wraps ErrInsufficientFunds with a message.
func InsufficientFunds(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInsufficientFunds, fmt.Sprintf(format, args...))
}

// Internal wraps a store failure so it classifies as Internal while keeping the cause.
func Internal(message string, err error) error {
	return NewAppError(http.StatusInternalServerError, message, errors.Join(ErrInternal, err))
}
