package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

const (
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrForbidden       = "FORBIDDEN"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidState    = "INVALID_STATE"
	ErrConflict        = "CONFLICT"
	ErrInternal        = "INTERNAL"
)

func Unauthenticated(message string) *AppError {
	return New(ErrUnauthenticated, message, nil)
}

func Forbidden(message string) *AppError {
	return New(ErrForbidden, message, nil)
}

func InvalidArgument(message string) *AppError {
	return New(ErrInvalidArgument, message, nil)
}

func NotFound(message string) *AppError {
	return New(ErrNotFound, message, nil)
}

func InvalidState(message string) *AppError {
	return New(ErrInvalidState, message, nil)
}

func Conflict(message string) *AppError {
	return New(ErrConflict, message, nil)
}

func Internal(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}

// CodeOf returns the code of the first AppError in err's chain, or ErrInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// MessageOf returns the client-facing message of an AppError, or err.Error().
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
