package errors

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeDataIntegrity    ErrorCode = "data_integrity"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeDatabaseError ErrorCode = "database_error"
	ErrCodeServiceError  ErrorCode = "service_error"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// StatusCode maps the error code to its HTTP status
func (e *APIError) StatusCode() int {
	switch e.Code {
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed, ErrCodeDataIntegrity:
		return http.StatusUnprocessableEntity
	case ErrCodeServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(code ErrorCode, message string, details []string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewBadRequestError(message string, details ...string) *APIError {
	return newError(ErrCodeBadRequest, message, details)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newError(ErrCodeUnauthorized, message, details)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newError(ErrCodeNotFound, message, details)
}

func NewValidationError(details ...string) *APIError {
	return newError(ErrCodeValidationFailed, "Validation failed", details)
}

// NewDataIntegrityError reports input tables that contradict each other
func NewDataIntegrityError(message string, details ...string) *APIError {
	return newError(ErrCodeDataIntegrity, message, details)
}

func NewInternalError(message string, details ...string) *APIError {
	return newError(ErrCodeInternalError, message, details)
}

func NewDatabaseError(message string, details ...string) *APIError {
	return newError(ErrCodeDatabaseError, message, details)
}

func NewServiceError(message string, details ...string) *APIError {
	return newError(ErrCodeServiceError, message, details)
}
