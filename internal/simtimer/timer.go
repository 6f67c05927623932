// Package simtimer drives a running simulation forward at a fixed
// real-time cadence, the animation-frame-cadence ticker a simulation
// driver assumes but never itself owns: start/stop a per-simulation
// ticker independently, any number of them at once.
package simtimer

import (
	"context"
	"sync"
	"time"

	"github.com/onnwee/graphlayout/internal/logger"
)

// Timer repeatedly calls Tick at Interval until stopped, and calls
// OnSettled once when Tick reports the simulation has settled (alpha
// dropped below its minimum), after which the timer stops itself.
type Timer struct {
	Interval  time.Duration
	Tick      func() (settled bool)
	OnSettled func()

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// Start begins ticking in a new goroutine. A no-op if already running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.running = true
	go t.run(ctx)
}

// Stop halts the ticker. A no-op if not running.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.cancel()
	t.running = false
}

// Running reports whether the timer is currently ticking.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) run(ctx context.Context) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			settled := t.safeTick()
			if settled {
				t.Stop()
				if t.OnSettled != nil {
					t.OnSettled()
				}
				return
			}
		}
	}
}

func (t *Timer) safeTick() (settled bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("simulation tick panicked", "recover", r)
			settled = true
		}
	}()
	return t.Tick()
}
