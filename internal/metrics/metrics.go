package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Layout simulation metrics
	LayoutTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "layout_ticks_total",
			Help: "Total number of simulation ticks executed",
		},
		[]string{"status"}, // status: success, failed
	)

	LayoutTickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "layout_tick_duration_seconds",
			Help:    "Duration of a single simulation tick in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"force"}, // force: center, x, y, radial, collide, link, many-body, integrate
	)

	LayoutAlpha = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "layout_alpha",
			Help: "Current alpha (temperature) of a simulation",
		},
		[]string{"simulation_id"},
	)

	LayoutActiveSimulations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_active_simulations",
			Help: "Number of simulations currently running (not stopped and alpha >= alphaMin)",
		},
	)

	LayoutQuadtreeNodesVisited = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "layout_quadtree_nodes_visited",
			Help:    "Number of quadtree nodes visited per many-body force application",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	LayoutNodesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "layout_nodes_total",
			Help: "Total number of nodes across simulations",
		},
		[]string{"simulation_id"},
	)

	LayoutSimulationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "layout_simulation_errors_total",
			Help: "Total number of simulation errors (invalid parameters, unresolved links)",
		},
		[]string{"kind"}, // kind: invalid_param, link_unresolved
	)

	// API cache metrics
	APICacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_hits_total",
			Help: "Total number of API cache hits",
		},
		[]string{"endpoint"},
	)

	APICacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_misses_total",
			Help: "Total number of API cache misses",
		},
		[]string{"endpoint"},
	)

	// API request metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Metrics collection error tracking
	MetricsCollectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrics_collection_errors_total",
			Help: "Total number of errors during metrics collection",
		},
		[]string{"collector"},
	)

	// WebSocket metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent to clients",
		},
	)
)
