package sim

import (
	"sync"

	"github.com/onnwee/graphlayout/internal/metrics"
)

// Handle is one running (or stopped) simulation as tracked by Registry: the
// engine plus the bookkeeping the API layer needs to answer status queries
// without re-deriving them from the engine's internals.
type Handle struct {
	ID  string
	Sim *Simulation

	mu      sync.Mutex
	running bool
}

func (h *Handle) SetRunning(v bool) {
	h.mu.Lock()
	h.running = v
	h.mu.Unlock()
}

func (h *Handle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Registry tracks every simulation the process currently holds in memory,
// keyed by id. It satisfies metrics.StatsProvider so the metrics collector
// can snapshot every simulation's alpha and node count without importing
// this package.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Handle)}
}

func (r *Registry) Put(id string, s *Simulation) *Handle {
	h := &Handle{ID: id, Sim: s}
	r.mu.Lock()
	r.byID[id] = h
	r.mu.Unlock()
	return h
}

func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byID[id]
	return h, ok
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.byID, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Stats implements metrics.StatsProvider.
func (r *Registry) Stats() []metrics.SimulationStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]metrics.SimulationStats, 0, len(r.byID))
	for id, h := range r.byID {
		s := h.Sim.Stats(id, h.Running())
		out = append(out, metrics.SimulationStats{
			ID:        s.ID,
			NodeCount: s.NodeCount,
			Alpha:     s.Alpha,
			Running:   s.Running,
		})
	}
	return out
}
