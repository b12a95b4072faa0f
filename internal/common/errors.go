package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
	ErrStorage      = errors.New("storage failure")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Taxonomy helpers. NotFound is surfaced to the caller, never retried;
// storage failures are propagated unchanged, never swallowed into defaults.
func NotFoundErrorf(format string, args ...interface{}) error {
	return NewAppError("NOT_FOUND", fmt.Sprintf(format, args...), ErrNotFound)
}

func ValidationError(message string) error {
	return NewAppError("VALIDATION", message, ErrValidation)
}

func StorageErrorf(format string, args ...interface{}) error {
	return NewAppError("STORAGE", fmt.Sprintf(format, args...), ErrStorage)
}

func InternalErrorf(format string, args ...interface{}) error {
	return NewAppError("INTERNAL", fmt.Sprintf(format, args...), ErrInternal)
}
