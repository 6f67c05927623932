package apierr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrSimTickFailed, "tick failed", http.StatusInternalServerError)
	if err.Code != ErrSimTickFailed {
		t.Errorf("expected code %s, got %s", ErrSimTickFailed, err.Code)
	}
	if err.Message != "tick failed" {
		t.Errorf("expected message 'tick failed', got '%s'", err.Message)
	}
	if err.Status() != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, err.Status())
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ErrValidationInvalidValue, "invalid field", http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": "theta"})

	if err.Details == nil {
		t.Fatal("expected details to be set")
	}
	if field, ok := err.Details["field"]; !ok || field != "theta" {
		t.Errorf("expected field 'theta', got %v", field)
	}
}

func TestWithRequestID(t *testing.T) {
	requestID := "test-request-123"
	err := New(ErrSystemInternal, "internal error", http.StatusInternalServerError).
		WithRequestID(requestID)

	if err.RequestID != requestID {
		t.Errorf("expected request ID %s, got %s", requestID, err.RequestID)
	}
}

func TestErrorInterface(t *testing.T) {
	err := New(ErrSimNotFound, "simulation not found: abc", http.StatusNotFound)
	expected := "SIM_NOT_FOUND: simulation not found: abc"
	if err.Error() != expected {
		t.Errorf("expected error string %s, got %s", expected, err.Error())
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	err := New(ErrSimTickFailed, "tick failed", http.StatusInternalServerError).
		WithRequestID("req-123")

	WriteError(w, err)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error == nil {
		t.Fatal("expected error in response")
	}
	if resp.Error.Code != ErrSimTickFailed {
		t.Errorf("expected code %s, got %s", ErrSimTickFailed, resp.Error.Code)
	}
	if resp.Error.Message != "tick failed" {
		t.Errorf("expected message 'tick failed', got '%s'", resp.Error.Message)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("expected request ID 'req-123', got '%s'", resp.Error.RequestID)
	}
}

func TestHelperFunctions(t *testing.T) {
	tests := []struct {
		name       string
		createErr  func() *Error
		wantCode   ErrorCode
		wantStatus int
	}{
		{"SimNotFound", func() *Error { return SimNotFound("sim-1") }, ErrSimNotFound, http.StatusNotFound},
		{"SimAlreadyRunning", func() *Error { return SimAlreadyRunning("sim-1") }, ErrSimAlreadyRunning, http.StatusConflict},
		{"SimNotRunning", func() *Error { return SimNotRunning("sim-1") }, ErrSimNotRunning, http.StatusConflict},
		{"SimInvalidParam", func() *Error { return SimInvalidParam("theta", "") }, ErrSimInvalidParam, http.StatusBadRequest},
		{"SimTooManyNodes", func() *Error { return SimTooManyNodes(10000, 5000) }, ErrSimTooManyNodes, http.StatusBadRequest},
		{"SimLinkUnresolved", func() *Error { return SimLinkUnresolved(3) }, ErrSimLinkUnresolved, http.StatusBadRequest},
		{"SimTickFailed", func() *Error { return SimTickFailed("") }, ErrSimTickFailed, http.StatusInternalServerError},
		{"SystemInternal", func() *Error { return SystemInternal("") }, ErrSystemInternal, http.StatusInternalServerError},
		{"SystemUnavailable", func() *Error { return SystemUnavailable("") }, ErrSystemUnavailable, http.StatusServiceUnavailable},
		{"SystemTimeout", func() *Error { return SystemTimeout("") }, ErrSystemTimeout, http.StatusRequestTimeout},
		{"ValidationInvalidJSON", func() *Error { return ValidationInvalidJSON() }, ErrValidationInvalidJSON, http.StatusBadRequest},
		{"ValidationInvalidFormat", func() *Error { return ValidationInvalidFormat("") }, ErrValidationInvalidFormat, http.StatusBadRequest},
		{"ValidationMissingField", func() *Error { return ValidationMissingField("nodes") }, ErrValidationMissingField, http.StatusBadRequest},
		{"ValidationInvalidValue", func() *Error { return ValidationInvalidValue("alpha", "") }, ErrValidationInvalidValue, http.StatusBadRequest},
		{"ResourceNotFound", func() *Error { return ResourceNotFound("simulation") }, ErrResourceNotFound, http.StatusNotFound},
		{"ResourceConflict", func() *Error { return ResourceConflict("") }, ErrResourceConflict, http.StatusConflict},
		{"RateLimitGlobal", func() *Error { return RateLimitGlobal() }, ErrRateLimitGlobal, http.StatusTooManyRequests},
		{"RateLimitIP", func() *Error { return RateLimitIP() }, ErrRateLimitIP, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.createErr()
			if err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, err.Code)
			}
			if err.Status() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, err.Status())
			}
			if err.Message == "" {
				t.Error("expected non-empty message")
			}
		})
	}
}

func TestValidationMissingFieldDetails(t *testing.T) {
	err := ValidationMissingField("nodes")
	if err.Details == nil {
		t.Fatal("expected details to be set")
	}
	if field, ok := err.Details["field"]; !ok || field != "nodes" {
		t.Errorf("expected field 'nodes', got %v", field)
	}
}

func TestResourceNotFoundDetails(t *testing.T) {
	err := ResourceNotFound("simulation")
	if err.Details == nil {
		t.Fatal("expected details to be set")
	}
	if rt, ok := err.Details["resource_type"]; !ok || rt != "simulation" {
		t.Errorf("expected resource_type 'simulation', got %v", rt)
	}
}

func TestSimLinkUnresolvedDetails(t *testing.T) {
	err := SimLinkUnresolved(2)
	if got, ok := err.Details["unresolved_count"]; !ok || got != 2 {
		t.Errorf("expected unresolved_count 2, got %v", got)
	}
}
