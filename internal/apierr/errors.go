package apierr

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/onnwee/graphlayout/internal/logger"
)

// ErrorCode represents a structured error code
type ErrorCode string

// Error code constants organized by category
const (
	// SIM_ - Simulation lifecycle and layout errors
	ErrSimNotFound        ErrorCode = "SIM_NOT_FOUND"
	ErrSimAlreadyRunning  ErrorCode = "SIM_ALREADY_RUNNING"
	ErrSimNotRunning      ErrorCode = "SIM_NOT_RUNNING"
	ErrSimInvalidParam    ErrorCode = "SIM_INVALID_PARAM"
	ErrSimTooManyNodes    ErrorCode = "SIM_TOO_MANY_NODES"
	ErrSimLinkUnresolved  ErrorCode = "SIM_LINK_UNRESOLVED"
	ErrSimTickFailed      ErrorCode = "SIM_TICK_FAILED"

	// SYSTEM_ - System and server errors
	ErrSystemInternal    ErrorCode = "SYSTEM_INTERNAL"
	ErrSystemUnavailable ErrorCode = "SYSTEM_UNAVAILABLE"
	ErrSystemTimeout     ErrorCode = "SYSTEM_TIMEOUT"

	// VALIDATION_ - Request validation errors
	ErrValidationInvalidJSON   ErrorCode = "VALIDATION_INVALID_JSON"
	ErrValidationInvalidFormat ErrorCode = "VALIDATION_INVALID_FORMAT"
	ErrValidationMissingField  ErrorCode = "VALIDATION_MISSING_FIELD"
	ErrValidationInvalidValue  ErrorCode = "VALIDATION_INVALID_VALUE"

	// RESOURCE_ - Resource errors
	ErrResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrResourceConflict ErrorCode = "RESOURCE_CONFLICT"

	// RATE_LIMIT_ - Rate limiting errors
	ErrRateLimitGlobal ErrorCode = "RATE_LIMIT_GLOBAL"
	ErrRateLimitIP     ErrorCode = "RATE_LIMIT_IP"
)

// Error represents a structured API error
type Error struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	status    int                    // HTTP status code (not serialized)
}

// ErrorResponse is the top-level error response wrapper
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// New creates a new API error
func New(code ErrorCode, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		status:  status,
	}
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// WithRequestID adds a request ID to the error
func (e *Error) WithRequestID(requestID string) *Error {
	e.RequestID = requestID
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Status returns the HTTP status code
func (e *Error) Status() int {
	return e.status
}

// WriteError writes a structured error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status())
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// Helper functions for common errors

// SimNotFound creates a simulation-not-found error
func SimNotFound(id string) *Error {
	return New(ErrSimNotFound, "simulation not found: "+id, http.StatusNotFound).
		WithDetails(map[string]interface{}{"id": id})
}

// SimAlreadyRunning creates an already-running error
func SimAlreadyRunning(id string) *Error {
	return New(ErrSimAlreadyRunning, "simulation already running: "+id, http.StatusConflict).
		WithDetails(map[string]interface{}{"id": id})
}

// SimNotRunning creates a not-running error, e.g. stopping an already
// stopped simulation
func SimNotRunning(id string) *Error {
	return New(ErrSimNotRunning, "simulation not running: "+id, http.StatusConflict).
		WithDetails(map[string]interface{}{"id": id})
}

// SimInvalidParam creates an invalid layout parameter error
func SimInvalidParam(field, message string) *Error {
	if message == "" {
		message = "invalid value for parameter: " + field
	}
	return New(ErrSimInvalidParam, message, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// SimTooManyNodes creates an over-capacity error
func SimTooManyNodes(requested, max int) *Error {
	return New(ErrSimTooManyNodes, "requested node count exceeds the configured maximum", http.StatusBadRequest).
		WithDetails(map[string]interface{}{"requested": requested, "max": max})
}

// SimLinkUnresolved creates an error for links whose endpoints didn't
// resolve to any node id
func SimLinkUnresolved(count int) *Error {
	return New(ErrSimLinkUnresolved, "one or more links reference unknown node ids", http.StatusBadRequest).
		WithDetails(map[string]interface{}{"unresolved_count": count})
}

// SimTickFailed creates an internal tick-execution error
func SimTickFailed(message string) *Error {
	if message == "" {
		message = "simulation tick failed"
	}
	return New(ErrSimTickFailed, message, http.StatusInternalServerError)
}

// SystemInternal creates an internal server error
func SystemInternal(message string) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return New(ErrSystemInternal, message, http.StatusInternalServerError)
}

// SystemUnavailable creates a service unavailable error
func SystemUnavailable(message string) *Error {
	if message == "" {
		message = "Service unavailable"
	}
	return New(ErrSystemUnavailable, message, http.StatusServiceUnavailable)
}

// SystemTimeout creates a system timeout error
func SystemTimeout(message string) *Error {
	if message == "" {
		message = "Request timeout"
	}
	return New(ErrSystemTimeout, message, http.StatusRequestTimeout)
}

// ValidationInvalidJSON creates an invalid JSON error
func ValidationInvalidJSON() *Error {
	return New(ErrValidationInvalidJSON, "Invalid JSON request body", http.StatusBadRequest)
}

// ValidationInvalidFormat creates an invalid format error
func ValidationInvalidFormat(message string) *Error {
	if message == "" {
		message = "Invalid request format"
	}
	return New(ErrValidationInvalidFormat, message, http.StatusBadRequest)
}

// ValidationMissingField creates a missing field error
func ValidationMissingField(field string) *Error {
	return New(ErrValidationMissingField, "Missing required field: "+field, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// ValidationInvalidValue creates an invalid value error
func ValidationInvalidValue(field string, message string) *Error {
	if message == "" {
		message = "Invalid value for field: " + field
	}
	return New(ErrValidationInvalidValue, message, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// ResourceNotFound creates a resource not found error
func ResourceNotFound(resourceType string) *Error {
	return New(ErrResourceNotFound, resourceType+" not found", http.StatusNotFound).
		WithDetails(map[string]interface{}{"resource_type": resourceType})
}

// ResourceConflict creates a resource conflict error
func ResourceConflict(message string) *Error {
	if message == "" {
		message = "Resource conflict"
	}
	return New(ErrResourceConflict, message, http.StatusConflict)
}

// RateLimitGlobal creates a global rate limit error
func RateLimitGlobal() *Error {
	return New(ErrRateLimitGlobal, "Rate limit exceeded - too many requests globally", http.StatusTooManyRequests)
}

// RateLimitIP creates an IP rate limit error
func RateLimitIP() *Error {
	return New(ErrRateLimitIP, "Rate limit exceeded - too many requests from your IP", http.StatusTooManyRequests)
}

// GetRequestID extracts the request ID from the context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// WriteErrorWithContext writes a structured error response with request ID from context
func WriteErrorWithContext(w http.ResponseWriter, r *http.Request, err *Error) {
	if reqID := GetRequestID(r.Context()); reqID != "" {
		err = err.WithRequestID(reqID)
	}
	WriteError(w, err)
}
