package metrics

import (
	"context"
	"log"
	"time"
)

// SimulationStats is a point-in-time snapshot of one simulation, used to
// drive the layout_* gauges without the metrics package importing the
// simulation engine (which itself records counters/histograms through
// this package).
type SimulationStats struct {
	ID        string
	NodeCount int
	Alpha     float64
	Running   bool
}

// StatsProvider is implemented by the simulation registry.
type StatsProvider interface {
	Stats() []SimulationStats
}

// Collector periodically snapshots simulation state into Prometheus gauges.
type Collector struct {
	provider StatsProvider
	interval time.Duration
	stop     chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		provider: provider,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the metrics collection loop.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collectMetrics()

	for {
		select {
		case <-ticker.C:
			c.collectMetrics()
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the metrics collector.
func (c *Collector) Stop() {
	close(c.stop)
}

func (c *Collector) collectMetrics() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error collecting simulation metrics: %v", r)
			MetricsCollectionErrors.WithLabelValues("simulation").Inc()
		}
	}()

	stats := c.provider.Stats()
	active := 0
	for _, s := range stats {
		LayoutAlpha.WithLabelValues(s.ID).Set(s.Alpha)
		LayoutNodesTotal.WithLabelValues(s.ID).Set(float64(s.NodeCount))
		if s.Running {
			active++
		}
	}
	LayoutActiveSimulations.Set(float64(active))
}
