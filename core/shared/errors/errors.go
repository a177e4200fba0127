package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Domain errors
	ErrCodeQueryRejected    ErrorCode = "QUERY_REJECTED"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Application errors
	ErrCodeCompletionInvalid ErrorCode = "COMPLETION_INVALID"
	ErrCodeExecutionFailed   ErrorCode = "EXECUTION_FAILED"
	ErrCodeConversationGone  ErrorCode = "CONVERSATION_NOT_FOUND"

	// Infrastructure errors
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Status  int // HTTP status code
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  getHTTPStatus(code),
	}
}

// Wrap wraps an existing error with an error code and message
func Wrap(code ErrorCode, message string, err error) *AppError {
	return New(code, message, err)
}

// getHTTPStatus maps error codes to HTTP status codes
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeConversationGone:
		return http.StatusNotFound
	case ErrCodeQueryRejected, ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeInvalidInput, ErrCodeCompletionInvalid:
		return http.StatusBadRequest
	case ErrCodeExecutionFailed, ErrCodeConnectionFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsRejected checks if the error is a query rejection
func IsRejected(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeQueryRejected || appErr.Code == ErrCodePermissionDenied
	}
	return false
}

// IsInvalidInput checks if the error is an input validation error
func IsInvalidInput(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeInvalidInput || appErr.Code == ErrCodeCompletionInvalid
	}
	return false
}
