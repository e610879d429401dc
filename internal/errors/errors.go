package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidPath indicates the analysis root does not exist or is not a directory
	InvalidPath ErrorCode = "INVALID_PATH"
	// FileTooLarge indicates a file exceeds the configured size ceiling
	FileTooLarge ErrorCode = "FILE_TOO_LARGE"
	// UnsupportedFile indicates no registered analyzer claims the file
	UnsupportedFile ErrorCode = "UNSUPPORTED_FILE"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AnalysisError represents an engine error with a stable code and message
type AnalysisError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new AnalysisError
func New(code ErrorCode, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AnalysisError) WithDetails(details interface{}) *AnalysisError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from err, or InternalError when err is not
// an AnalysisError.
func CodeOf(err error) ErrorCode {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var ae *AnalysisError
	return errors.As(err, &ae) && ae.Code == code
}
