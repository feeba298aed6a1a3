package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Pipeline errors
	ErrorTypeUploadFailed     ErrorType = "UPLOAD_FAILED"
	ErrorTypeGenerationFailed ErrorType = "GENERATION_FAILED"
	ErrorTypeCommitFailed     ErrorType = "COMMIT_FAILED"

	// Domain errors
	ErrorTypeEdgeEndpointMissing  ErrorType = "EDGE_ENDPOINT_MISSING"
	ErrorTypeDraftIndexOutOfRange ErrorType = "DRAFT_INDEX_OUT_OF_RANGE"
	ErrorTypeValidation           ErrorType = "VALIDATION"
	ErrorTypeNotFound             ErrorType = "NOT_FOUND"
	ErrorTypeConflict             ErrorType = "CONFLICT"
	ErrorTypeUnauthorized         ErrorType = "UNAUTHORIZED"

	// Infrastructure errors
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeNetwork  ErrorType = "NETWORK"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

// Constructor functions for common error types

// NewUploadFailedError marks a source-document upload that did not complete.
// The original file reference stays with the workflow so the step can be retried.
func NewUploadFailedError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUploadFailed,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// NewGenerationFailedError marks a remote generation call that failed or
// returned a body that could not be normalized into a draft.
func NewGenerationFailedError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeGenerationFailed,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// NewCommitFailedError marks a persistence call that failed. The draft must be
// left intact by the caller so commit can be retried in full.
func NewCommitFailedError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeCommitFailed,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// NewEdgeEndpointMissingError reports an edge whose source or target is not in
// the node set. This is a caller bug and never reaches end users.
func NewEdgeEndpointMissingError(endpoint string) *AppError {
	return &AppError{
		Type:       ErrorTypeEdgeEndpointMissing,
		Message:    fmt.Sprintf("edge endpoint %q does not exist in graph", endpoint),
		HTTPStatus: http.StatusUnprocessableEntity,
		StackTrace: captureStackTrace(),
	}
}

// NewDraftIndexOutOfRangeError reports an item index outside the draft bounds.
func NewDraftIndexOutOfRangeError(index, length int) *AppError {
	return &AppError{
		Type:       ErrorTypeDraftIndexOutOfRange,
		Message:    fmt.Sprintf("draft index %d out of range (len %d)", index, length),
		HTTPStatus: http.StatusUnprocessableEntity,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		StackTrace: captureStackTrace(),
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		StackTrace: captureStackTrace(),
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewExternalError creates an error for an unavailable upstream service
func NewExternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusServiceUnavailable,
		StackTrace: captureStackTrace(),
	}
}

// Type-check helpers

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsUploadFailed reports whether err is an upload failure.
func IsUploadFailed(err error) bool { return IsType(err, ErrorTypeUploadFailed) }

// IsGenerationFailed reports whether err is a generation failure.
func IsGenerationFailed(err error) bool { return IsType(err, ErrorTypeGenerationFailed) }

// IsCommitFailed reports whether err is a commit failure.
func IsCommitFailed(err error) bool { return IsType(err, ErrorTypeCommitFailed) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsType(err, ErrorTypeNotFound) }

// AsAppError converts any error to an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("unexpected error", err)
}
