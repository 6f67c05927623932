package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/onnwee/graphlayout/internal/logger"
)

// RequestIDHeader is the header name for request IDs
const RequestIDHeader = "X-Request-ID"

// generateRequestID creates a random request ID
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fall back to a fixed ID (hex of "fallback") if random fails
		return hex.EncodeToString([]byte("fallback"))
	}
	return hex.EncodeToString(b)
}

// RequestID middleware adds a unique request ID to each request
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if request already has an ID
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			// Generate a new request ID
			requestID = generateRequestID()
		}
		
		// Add request ID to response header
		w.Header().Set(RequestIDHeader, requestID)
		
		// Add request ID to context
		ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
		
		// Call next handler with updated context
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
