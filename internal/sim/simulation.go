package sim

import (
	"fmt"
	"math"
	"sync"
)

// Default alpha-schedule parameters, matching the values a caller must
// override to change convergence speed or minimum-motion cutoff.
const (
	DefaultAlpha         = 1.0
	DefaultAlphaMin      = 0.001
	DefaultAlphaTarget   = 0.0
	DefaultVelocityDecay = 0.6 // stored multiplier; VelocityDecay() reports 1 - 0.6 = 0.4
)

// DefaultAlphaDecay is 1 - alphaMin^(1/300) ≈ 0.0228, so alpha falls from
// DefaultAlpha to DefaultAlphaMin in about 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// EventKind identifies which of Simulation's lifecycle events fired.
type EventKind string

const (
	EventTick EventKind = "tick"
	EventEnd  EventKind = "end"
)

// Simulation drives a set of nodes and forces toward a stable layout by
// repeated ticks: each tick, alpha edges toward AlphaTarget by AlphaDecay,
// every registered force is applied in registration order, then every
// unfixed node's velocity is scaled by (1 - VelocityDecay) and integrated
// into position.
type Simulation struct {
	mu sync.Mutex

	nodes []*Node
	links []*Link

	forces []namedForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	rng *PRNG

	dispatch    *dispatcher
	generation  int // incremented every completed tick; used for snapshot cache keys
}

// NewSimulation constructs a simulation over nodes, seeding any node whose
// X or Y is NaN along a phyllotaxis spiral (R = 10*sqrt(0.5+i),
// theta = i*pi*(3-sqrt(5))) and zeroing NaN velocities, then applying the
// default alpha schedule.
func NewSimulation(nodes []*Node) *Simulation {
	s := &Simulation{
		nodes:         nodes,
		alpha:         DefaultAlpha,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		alphaTarget:   DefaultAlphaTarget,
		velocityDecay: DefaultVelocityDecay,
		rng:           NewPRNG(),
		dispatch:      newDispatcher(),
	}
	s.seed()
	return s
}

const goldenAngle = math.Pi * (3 - 2.2360679774997896) // pi*(3-sqrt(5))

func (s *Simulation) seed() {
	for i, n := range s.nodes {
		n.Index = i
		if n.FX != nil {
			n.X = *n.FX
		}
		if n.FY != nil {
			n.Y = *n.FY
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			r := 10 * math.Sqrt(0.5+float64(i))
			theta := float64(i) * goldenAngle
			if math.IsNaN(n.X) {
				n.X = r * math.Cos(theta)
			}
			if math.IsNaN(n.Y) {
				n.Y = r * math.Sin(theta)
			}
		}
		if math.IsNaN(n.VX) {
			n.VX = 0
		}
		if math.IsNaN(n.VY) {
			n.VY = 0
		}
	}
}

// SetNodes replaces the node set and re-initializes every registered
// force against it (and re-seeds any newly unplaced node).
func (s *Simulation) SetNodes(nodes []*Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = nodes
	s.seed()
	s.initializeForces()
}

// Nodes returns the live node slice. Callers must not retain it across a
// concurrent Tick.
func (s *Simulation) Nodes() []*Node { return s.nodes }

// Links returns the links most recently registered with a ForceLink, or
// nil if none has been.
func (s *Simulation) Links() []*Link { return s.links }

// RandomSource returns the simulation's PRNG, so a caller can reproduce
// the exact jitter sequence forces will draw from.
func (s *Simulation) RandomSource() *PRNG { return s.rng }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// unitRange reports whether v falls in [0, 1], the range every
// alpha-family parameter and velocityDecay are constrained to. Callers
// must fail loudly on a violation rather than silently clamp.
func unitRange(v float64) bool { return v >= 0 && v <= 1 }

// SetAlpha overrides the current temperature, e.g. to "reheat" the
// simulation after a structural change. Returns an error without
// changing state if a is outside [0, 1].
func (s *Simulation) SetAlpha(a float64) error {
	if !unitRange(a) {
		return fmt.Errorf("alpha must be in [0, 1], got %v", a)
	}
	s.mu.Lock()
	s.alpha = a
	s.mu.Unlock()
	return nil
}

func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

func (s *Simulation) SetAlphaMin(v float64) error {
	if !unitRange(v) {
		return fmt.Errorf("alphaMin must be in [0, 1], got %v", v)
	}
	s.alphaMin = v
	return nil
}

func (s *Simulation) AlphaDecay() float64 { return s.alphaDecay }

func (s *Simulation) SetAlphaDecay(v float64) error {
	if !unitRange(v) {
		return fmt.Errorf("alphaDecay must be in [0, 1], got %v", v)
	}
	s.alphaDecay = v
	return nil
}

func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

func (s *Simulation) SetAlphaTarget(v float64) error {
	if !unitRange(v) {
		return fmt.Errorf("alphaTarget must be in [0, 1], got %v", v)
	}
	s.alphaTarget = v
	return nil
}

// VelocityDecay returns the user-facing fraction of velocity removed per
// tick (default 0.4); the multiplier applied at integration is 1 minus it.
func (s *Simulation) VelocityDecay() float64 { return 1 - s.velocityDecay }

// SetVelocityDecay sets the user-facing velocity decay v, stored internally
// as the multiplier 1 - v.
func (s *Simulation) SetVelocityDecay(v float64) error {
	if !unitRange(v) {
		return fmt.Errorf("velocityDecay must be in [0, 1], got %v", v)
	}
	s.velocityDecay = 1 - v
	return nil
}

// Generation returns the number of ticks completed since construction (or
// the last Restart), used to key cached snapshots.
func (s *Simulation) Generation() int { return s.generation }

// Force registers or replaces a named force and initializes it against
// the current node set. Passing a nil force removes the name.
func (s *Simulation) Force(name string, f Force) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.forces {
		if s.forces[i].name == name {
			if f == nil {
				s.forces = append(s.forces[:i], s.forces[i+1:]...)
			} else {
				s.forces[i].force = f
				f.Initialize(s.nodes, s.rng)
				if lf, ok := f.(*ForceLink); ok {
					s.links = lf.Links
				}
			}
			return s
		}
	}
	if f != nil {
		f.Initialize(s.nodes, s.rng)
		s.forces = append(s.forces, namedForce{name: name, force: f})
		if lf, ok := f.(*ForceLink); ok {
			s.links = lf.Links
		}
	}
	return s
}

// GetForce returns the force registered under name, or nil.
func (s *Simulation) GetForce(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

func (s *Simulation) initializeForces() {
	for _, nf := range s.forces {
		nf.force.Initialize(s.nodes, s.rng)
	}
}

// Tick advances the simulation by n steps (n defaults to 1 when <= 0),
// applying the alpha schedule, every registered force, and velocity
// integration on each step. Tick(n) is defined to reproduce exactly the
// state Tick(1) called n times in a row would leave. Tick does not emit
// tick/end events; use Step to advance by one step and notify listeners,
// the way the real-time timer does.
func (s *Simulation) Tick(n int) {
	if n <= 0 {
		n = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := 0; k < n; k++ {
		s.tickOnce()
	}
}

// Step advances the simulation by exactly one tick and then dispatches
// the "tick" event (and "end" once alpha has decayed below alphaMin) to
// every registered listener. simtimer.Timer calls Step on its real-time
// cadence; a manual /tick call goes through Tick instead and stays
// silent.
func (s *Simulation) Step() {
	s.mu.Lock()
	s.tickOnce()
	alpha := s.alpha
	s.mu.Unlock()

	s.dispatch.call(EventTick, s)
	if alpha < s.alphaMin {
		s.dispatch.call(EventEnd, s)
	}
}

func (s *Simulation) tickOnce() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, nf := range s.forces {
		nf.force.Apply(s.alpha)
	}

	for _, node := range s.nodes {
		if node.FX != nil {
			node.X = *node.FX
			node.VX = 0
		} else {
			node.VX *= s.velocityDecay
			node.X += node.VX
		}
		if node.FY != nil {
			node.Y = *node.FY
			node.VY = 0
		} else {
			node.VY *= s.velocityDecay
			node.Y += node.VY
		}
	}

	s.generation++
}

// Find returns the node nearest (x, y), or nil if nodes is empty or every
// candidate falls outside radius (when radius > 0). It walks the same
// quadtree structure the collide/many-body forces use, pruning any cell
// whose bounding square cannot possibly contain a closer point than the
// best found so far.
func (s *Simulation) Find(x, y, radius float64) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nodes) == 0 {
		return nil
	}
	if radius <= 0 {
		radius = math.Inf(1)
	}
	tree := NewQuadtree(func(n *Node) (float64, float64) { return n.X, n.Y })
	tree.AddAll(s.nodes)

	var best *Node
	bestDist2 := radius * radius

	var visit func(qn *QuadNode[*Node], x0, y0, x1, y1 float64)
	visit = func(qn *QuadNode[*Node], x0, y0, x1, y1 float64) {
		if qn == nil {
			return
		}
		// Prune cells that cannot contain a point closer than the best
		// found so far.
		dx := math.Max(x0-x, x-x1)
		if dx < 0 {
			dx = 0
		}
		dy := math.Max(y0-y, y-y1)
		if dy < 0 {
			dy = 0
		}
		if dx*dx+dy*dy > bestDist2 {
			return
		}
		if qn.IsLeaf() {
			for _, node := range qn.Data() {
				ddx := node.X - x
				ddy := node.Y - y
				d2 := ddx*ddx + ddy*ddy
				if d2 < bestDist2 {
					bestDist2 = d2
					best = node
				}
			}
			return
		}
		xm := (x0 + x1) / 2
		ym := (y0 + y1) / 2
		for q := 0; q < 4; q++ {
			var cx0, cy0, cx1, cy1 float64
			switch q {
			case 0:
				cx0, cy0, cx1, cy1 = x0, y0, xm, ym
			case 1:
				cx0, cy0, cx1, cy1 = xm, y0, x1, ym
			case 2:
				cx0, cy0, cx1, cy1 = x0, ym, xm, y1
			default:
				cx0, cy0, cx1, cy1 = xm, ym, x1, y1
			}
			visit(qn.Child(q), cx0, cy0, cx1, cy1)
		}
	}
	x0, y0, x1, y1 := tree.Extent()
	visit(tree.Root(), x0, y0, x1, y1)
	return best
}

// On registers listener under typenames ("tick", "end", or
// "tick.<namespace>"/"end.<namespace>" to allow multiple independent
// listeners on the same event), replacing any previously registered
// listener with the same full typename.
func (s *Simulation) On(typenames string, listener func(*Simulation)) *Simulation {
	s.dispatch.on(typenames, listener)
	return s
}

// Stats summarizes the simulation for the metrics collector.
func (s *Simulation) Stats(id string, running bool) SimStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SimStats{ID: id, NodeCount: len(s.nodes), Alpha: s.alpha, Running: running}
}

// SimStats mirrors metrics.SimulationStats without internal/sim importing
// internal/metrics; Registry.Stats converts between the two.
type SimStats struct {
	ID        string
	NodeCount int
	Alpha     float64
	Running   bool
}
