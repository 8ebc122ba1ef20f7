package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Resolution errors
	ErrSymlinkLoop   ErrorCode = "SYMLINK_LOOP"
	ErrTargetTooLong ErrorCode = "TARGET_TOO_LONG"
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrCwd           ErrorCode = "CWD_UNAVAILABLE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// CanonError represents a structured error with code and details
type CanonError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CanonError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CanonError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CanonError) Is(target error) bool {
	var targetErr *CanonError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CanonError with the given code and message
func New(code ErrorCode, message string) *CanonError {
	return &CanonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CanonError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CanonError {
	return &CanonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CanonError
func Wrap(err error, code ErrorCode, message string) *CanonError {
	if err == nil {
		return nil
	}
	return &CanonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CanonError {
	if err == nil {
		return nil
	}
	return &CanonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CanonError) WithDetail(key string, value interface{}) *CanonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var canonErr *CanonError
	if errors.As(err, &canonErr) {
		return canonErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CanonError
func GetErrorCode(err error) ErrorCode {
	var canonErr *CanonError
	if errors.As(err, &canonErr) {
		return canonErr.Code
	}
	return ErrUnknown
}
