// internal/common/errors/handler.go
package errors

import (
	"net/http"
	"time"
)

// ErrorHandler turns arbitrary errors into API error bodies.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it and returns the HTTP status to answer with.
func (h *ErrorHandler) Handle(requestID string, err error) (int, *StandardError) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logger.Error("request failed", map[string]interface{}{
		"requestId":     requestID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
	})

	return status, stdErr
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	code := CodeOf(err)
	if code == ErrCodeInternal {
		return NewInternalError(err)
	}
	return &StandardError{
		Code:      code,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the status returned by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeInvalidFragment, ErrCodeInvalidQueryKind:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeLookupUnavailable, ErrCodeDatabaseConnection:
		return http.StatusServiceUnavailable
	case ErrCodeExtractionTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
