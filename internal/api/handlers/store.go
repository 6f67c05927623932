package handlers

import (
	"strconv"
	"sync"

	"github.com/onnwee/graphlayout/internal/cache"
	"github.com/onnwee/graphlayout/internal/config"
	"github.com/onnwee/graphlayout/internal/dispatch"
	"github.com/onnwee/graphlayout/internal/metrics"
	"github.com/onnwee/graphlayout/internal/sim"
	"github.com/onnwee/graphlayout/internal/simtimer"
)

// entry bundles everything the HTTP binding needs about one simulation
// beyond what sim.Registry tracks: the stable id ordering (the core
// engine only knows positional index, never the wire id string) and the
// real-time timer driving it forward between manual ticks.
type entry struct {
	mu    sync.Mutex
	ids   []string
	timer *simtimer.Timer
}

// Store is the shared state behind every /simulations handler: the
// sim.Registry (so the metrics collector can keep reading it exactly as
// before), a side table of per-simulation wire metadata, the WebSocket
// hub event listeners publish into, and the snapshot cache.
type Store struct {
	reg    *sim.Registry
	hub    *dispatch.Hub
	cache  cache.Cache
	cfg    *config.Config

	mu      sync.RWMutex
	entries map[string]*entry
}

// NewStore wires a Store from its collaborators. reg and hub are expected
// to already be running (reg is read by the metrics collector, hub.Run
// by its own goroutine) before any handler built from this Store is
// reachable.
func NewStore(reg *sim.Registry, hub *dispatch.Hub, c cache.Cache, cfg *config.Config) *Store {
	return &Store{reg: reg, hub: hub, cache: c, cfg: cfg, entries: make(map[string]*entry)}
}

// put registers a freshly created simulation under id, starts its timer,
// and wires its tick/end events to invalidate the snapshot cache and
// broadcast to WebSocket subscribers.
func (st *Store) put(id string, s *sim.Simulation, ids []string) *entry {
	e := &entry{ids: ids}

	handle := st.reg.Put(id, s)
	handle.SetRunning(true)

	e.timer = &simtimer.Timer{
		Interval: st.cfg.LayoutTickIntervalMS,
		Tick: func() bool {
			s.Step()
			metrics.LayoutTicksTotal.WithLabelValues("success").Inc()
			st.cache.Delete(snapshotCacheKey(id, s.Generation()-1))
			st.publish(id, s, e)
			return s.Alpha() < s.AlphaMin()
		},
		OnSettled: func() { handle.SetRunning(false) },
	}
	e.timer.Start()

	st.mu.Lock()
	st.entries[id] = e
	st.mu.Unlock()
	return e
}

func (st *Store) get(id string) (*sim.Handle, *entry, bool) {
	handle, ok := st.reg.Get(id)
	if !ok {
		return nil, nil, false
	}
	st.mu.RLock()
	e, ok := st.entries[id]
	st.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	return handle, e, true
}

func (st *Store) publish(id string, s *sim.Simulation, e *entry) {
	payload, err := encodeSnapshot(id, s, e)
	if err != nil {
		return
	}
	st.hub.Broadcast(id, payload)
}

func snapshotCacheKey(id string, generation int) string {
	return id + ":" + strconv.Itoa(generation)
}
