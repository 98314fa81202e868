package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream failure")
	ErrInternal     = errors.New("internal server error")
)

// AppError wraps one of the sentinel errors above with a client-facing
// message and an internal cause. The message is safe to return to callers;
// the cause is for logs only.
type AppError struct {
	BaseError error
	Message   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.BaseError.Error(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.BaseError.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Err: err}
}

func NewNotFound(msg string) *AppError {
	return NewAppError(ErrNotFound, msg, nil)
}

func NewConflict(msg string) *AppError {
	return NewAppError(ErrConflict, msg, nil)
}

func NewUnauthorized(msg string) *AppError {
	return NewAppError(ErrUnauthorized, msg, nil)
}

func NewUpstream(msg string, err error) *AppError {
	return NewAppError(ErrUpstream, msg, err)
}

func NewInternal(msg string, err error) *AppError {
	return NewAppError(ErrInternal, msg, err)
}

// FieldError is a single violated rule, rendered on the wire as
// {"msg": ..., "param": ...}.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// ValidationError collects every required-field check that failed so the
// caller sees all violations at once rather than one per round trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field error(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func NewValidation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidation unwraps err to a *ValidationError if there is one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUpstream):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
