// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "net/http"

// ErrorResponse is the error body of every failed request. Error always holds
// the human-readable diagnostic; the remaining fields are additive.
type ErrorResponse struct {
	// Error is the diagnostic text shown to the user.
	Error string `json:"error"`

	// Code is a machine-readable error code (e.g., "PARSE_ERROR").
	Code string `json:"code"`

	// Details carries field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`

	TraceID string `json:"traceId,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeParse indicates the expression text could not be parsed.
	ErrorCodeParse = "PARSE_ERROR"

	// ErrorCodeEvaluation indicates the expression could not be compiled or
	// evaluated over the sample grid.
	ErrorCodeEvaluation = "EVALUATION_ERROR"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeBadRequest indicates the request body was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"

	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"

	// ErrorCodeUnavailable indicates a component is unavailable.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeTimeout indicates the request deadline passed.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: message, Code: code}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: message, Code: code, Details: details}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeParse, ErrorCodeEvaluation, ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
