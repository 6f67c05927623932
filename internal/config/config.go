package config

import (
	"os"
	"strings"
	"time"

	"github.com/onnwee/graphlayout/internal/utils"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	// HTTP server settings
	HTTPTimeout time.Duration
	ListenAddr  string

	// Admin API token (ADMIN_API_TOKEN); loaded but not checked by any route
	AdminAPIToken string

	// Security settings
	RateLimitGlobal      float64  // requests per second globally
	RateLimitGlobalBurst int      // burst size for global rate limit
	RateLimitPerIP       float64  // requests per second per IP
	RateLimitPerIPBurst  int      // burst size for per-IP rate limit
	CORSAllowedOrigins   []string // allowed CORS origins
	EnableRateLimit      bool     // enable rate limiting middleware

	// Layout / simulation settings
	LayoutMaxNodes       int           // maximum nodes a single simulation may hold
	LayoutAlphaMin       float64       // alpha value below which a simulation is considered settled
	LayoutAlphaDecay     float64       // per-tick fraction alpha moves toward AlphaTarget
	LayoutAlphaTarget    float64       // resting alpha; simulation reheats toward this, not necessarily 0
	LayoutVelocityDecay  float64       // per-tick velocity damping fraction
	LayoutTheta          float64       // Barnes-Hut approximation criterion for many-body force
	LayoutTickIntervalMS time.Duration // real-time interval between driver-scheduled ticks

	// Snapshot caching
	SnapshotCacheSize     int64 // ristretto max cost, roughly bytes
	SnapshotCacheCounters int64 // cache.NewLRU maxEntries (ristretto NumCounters = 10x, min 1000)

	// Observability settings
	LogLevel          string  // log level: debug, info, warn, error
	OTELEnabled       bool    // enable OpenTelemetry tracing
	OTELEndpoint      string  // OpenTelemetry collector endpoint
	OTELSampleRate    float64 // trace sampling rate (0.0 to 1.0)
	SentryDSN         string  // Sentry DSN for error reporting
	SentryEnvironment string  // Sentry environment (dev, staging, production)
	SentryRelease     string  // Sentry release version
	SentrySampleRate  float64 // Sentry error sampling rate (0.0 to 1.0)
}

var cached *Config

// Load reads env vars once and caches them.
func Load() *Config {
	if cached != nil {
		return cached
	}
	cached = &Config{
		HTTPTimeout: time.Duration(utils.GetEnvAsInt("HTTP_TIMEOUT_MS", 15000)) * time.Millisecond,
		ListenAddr:  strings.TrimSpace(os.Getenv("LISTEN_ADDR")),

		AdminAPIToken: strings.TrimSpace(os.Getenv("ADMIN_API_TOKEN")),

		RateLimitGlobal:      utils.GetEnvAsFloat("RATE_LIMIT_GLOBAL", 100.0),
		RateLimitGlobalBurst: utils.GetEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 200),
		RateLimitPerIP:       utils.GetEnvAsFloat("RATE_LIMIT_PER_IP", 10.0),
		RateLimitPerIPBurst:  utils.GetEnvAsInt("RATE_LIMIT_PER_IP_BURST", 20),
		EnableRateLimit:      utils.GetEnvAsBool("ENABLE_RATE_LIMIT", true),

		LayoutMaxNodes:       utils.GetEnvAsInt("LAYOUT_MAX_NODES", 5000),
		LayoutAlphaMin:       utils.GetEnvAsFloat("LAYOUT_ALPHA_MIN", 0.001),
		LayoutAlphaDecay:     utils.GetEnvAsFloat("LAYOUT_ALPHA_DECAY", 0.02276277904418933), // 1 - 0.001^(1/300)
		LayoutAlphaTarget:    utils.GetEnvAsFloat("LAYOUT_ALPHA_TARGET", 0.0),
		LayoutVelocityDecay:  utils.GetEnvAsFloat("LAYOUT_VELOCITY_DECAY", 0.4),
		LayoutTheta:          utils.GetEnvAsFloat("LAYOUT_THETA", 0.9),
		LayoutTickIntervalMS: time.Duration(utils.GetEnvAsInt("LAYOUT_TICK_INTERVAL_MS", 16)) * time.Millisecond,

		SnapshotCacheSize:     int64(utils.GetEnvAsInt("SNAPSHOT_CACHE_SIZE", 1<<26)), // ~64MB
		SnapshotCacheCounters: int64(utils.GetEnvAsInt("SNAPSHOT_CACHE_COUNTERS", 1e6)),

		LogLevel:          strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		OTELEnabled:       utils.GetEnvAsBool("OTEL_ENABLED", false),
		OTELEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTELSampleRate:    utils.GetEnvAsFloat("OTEL_TRACE_SAMPLE_RATE", 0.1),
		SentryDSN:         strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		SentryEnvironment: strings.TrimSpace(os.Getenv("SENTRY_ENVIRONMENT")),
		SentryRelease:     strings.TrimSpace(os.Getenv("SENTRY_RELEASE")),
		SentrySampleRate:  utils.GetEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
	}
	if cached.ListenAddr == "" {
		cached.ListenAddr = ":8090"
	}
	if cached.LogLevel == "" {
		cached.LogLevel = "info"
	}
	if cached.SentryEnvironment == "" {
		if env := os.Getenv("ENV"); env != "" {
			cached.SentryEnvironment = env
		} else {
			cached.SentryEnvironment = "development"
		}
	}

	corsOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if corsOrigins == "" {
		cached.CORSAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	} else {
		cached.CORSAllowedOrigins = strings.Split(corsOrigins, ",")
		for i := range cached.CORSAllowedOrigins {
			cached.CORSAllowedOrigins[i] = strings.TrimSpace(cached.CORSAllowedOrigins[i])
		}
	}

	return cached
}

// ResetForTest clears cached config; for use in tests only.
func ResetForTest() { cached = nil }

// GetEnvBool reads a boolean environment variable with a default.
// Use this when you need to check a flag not present in the cached config.
func (c *Config) GetEnvBool(key string, def bool) bool {
	return utils.GetEnvAsBool(key, def)
}
