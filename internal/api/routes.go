// Package api wires the simulation engine (internal/sim) to an HTTP +
// WebSocket surface: a gorilla/mux router over a set of handlers, wrapped
// in a security/CORS/compression/rate-limit middleware chain.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/onnwee/graphlayout/internal/api/handlers"
	"github.com/onnwee/graphlayout/internal/cache"
	"github.com/onnwee/graphlayout/internal/config"
	"github.com/onnwee/graphlayout/internal/dispatch"
	"github.com/onnwee/graphlayout/internal/middleware"
	"github.com/onnwee/graphlayout/internal/sim"
)

// NewRouter builds the full HTTP surface for the layout service: the
// /simulations routes plus /healthz, wrapped in the security/CORS/gzip
// /ETag/request-ID/recovery/rate-limit middleware stack.
func NewRouter(reg *sim.Registry, hub *dispatch.Hub, c cache.Cache, cfg *config.Config, limiter *middleware.RateLimiter) *mux.Router {
	store := handlers.NewStore(reg, hub, c, cfg)

	r := mux.NewRouter()

	// Gzip and ETag buffer or wrap the response writer, which strips the
	// http.Hijacker the WebSocket upgrade needs — so unlike the rest of the
	// chain, they're applied per-route rather than through r.Use, and never
	// to /ws.
	compress := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.Gzip(middleware.ETag(h)).ServeHTTP
	}

	r.HandleFunc("/healthz", handlers.Health).Methods("GET")
	r.HandleFunc("/simulations", compress(store.CreateSimulation())).Methods("POST")
	r.HandleFunc("/simulations/{id}", compress(store.GetSimulation())).Methods("GET")
	r.HandleFunc("/simulations/{id}/tick", compress(store.TickSimulation())).Methods("POST")
	r.HandleFunc("/simulations/{id}/stop", store.StopSimulation()).Methods("POST")
	r.HandleFunc("/simulations/{id}/restart", store.RestartSimulation()).Methods("POST")
	r.HandleFunc("/simulations/{id}/find", compress(store.FindNode())).Methods("GET")
	r.HandleFunc("/simulations/{id}/ws", store.WebSocket()).Methods("GET")

	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(&middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RecoverWithSentry)
	if cfg.EnableRateLimit && limiter != nil {
		r.Use(limiter.Limit)
	}

	return r
}
