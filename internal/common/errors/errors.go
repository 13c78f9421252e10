// Package errors provides the shared error taxonomy for question resolution.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Sentinel Errors
// ==========================

var (
	// ErrNotFound means the store has no matching rows. It is not a failure.
	ErrNotFound = stderrors.New("NOT_FOUND")
	// ErrLookupUnavailable means the store could not be queried.
	ErrLookupUnavailable = stderrors.New("LOOKUP_UNAVAILABLE")
	// ErrInvalidFragment means the search fragment was empty after trimming.
	ErrInvalidFragment = stderrors.New("INVALID_FRAGMENT")
	// ErrExtractionFailed means the entity extractor could not process the text.
	ErrExtractionFailed = stderrors.New("EXTRACTION_FAILED")
	// ErrExtractionTimeout means the entity extractor did not answer in time.
	ErrExtractionTimeout = stderrors.New("EXTRACTION_TIMEOUT")
)

// ==========================
// 2. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeLookupUnavailable  ErrorCode = "LOOKUP_UNAVAILABLE"
	ErrCodeInvalidFragment    ErrorCode = "INVALID_FRAGMENT"
	ErrCodeExtractionFailed   ErrorCode = "EXTRACTION_FAILED"
	ErrCodeExtractionTimeout  ErrorCode = "EXTRACTION_TIMEOUT"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidQueryKind   ErrorCode = "INVALID_QUERY_KIND"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseConnection ErrorCode = "DATABASE_CONNECTION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 3. Error Constructors
// ==========================

// NewLookupUnavailableError creates a retryable store error.
func NewLookupUnavailableError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLookupUnavailable,
		Message:   "Store lookup failed",
		Details:   fmt.Sprintf("kind: %s, error: %s", kind, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidQueryKindError creates a non-retryable unknown query kind error.
func NewInvalidQueryKindError(kind string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQueryKind,
		Message:   "Unsupported query kind",
		Details:   fmt.Sprintf("kind: %s", kind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnection,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// CodeOf maps an error chain onto its error code.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &stdErr):
		return stdErr.Code
	case stderrors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	case stderrors.Is(err, ErrLookupUnavailable):
		return ErrCodeLookupUnavailable
	case stderrors.Is(err, ErrInvalidFragment):
		return ErrCodeInvalidFragment
	case stderrors.Is(err, ErrExtractionTimeout):
		return ErrCodeExtractionTimeout
	case stderrors.Is(err, ErrExtractionFailed):
		return ErrCodeExtractionFailed
	default:
		return ErrCodeInternal
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeLookupUnavailable, ErrCodeExtractionTimeout, ErrCodeDatabaseConnection:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LOOKUP") || strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "EXTRACTION"):
		return "NLP"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case codeStr == string(ErrCodeNotFound):
		return "DATA"
	default:
		return "OTHER"
	}
}
