package sim

import "math"

// ForceRadial pulls every node toward a circle of per-node radius R
// centered at (X, Y), at a per-node strength. Unlike ForceX/Y and
// ForceCollide it never falls back to the PRNG when a node sits exactly on
// the center: it nudges the offset to a fixed 1e-6 instead, since the
// radial direction (not just "not zero") is what the force needs and a
// fixed nudge is enough to define one deterministically.
type ForceRadial struct {
	X, Y     float64
	R        NodeAccessor
	Strength NodeAccessor

	nodes []*Node
	r     []float64
	str   []float64
}

// NewForceRadial requires the target radius accessor; strength defaults
// to 0.1.
func NewForceRadial(r NodeAccessor) *ForceRadial {
	return &ForceRadial{R: r, Strength: Const(0.1)}
}

func (f *ForceRadial) Initialize(nodes []*Node, rng *PRNG) {
	f.nodes = nodes
	f.r = materializeNodes(nodes, f.R)
	f.str = materializeNodes(nodes, f.Strength)
}

func (f *ForceRadial) Apply(alpha float64) {
	for i, node := range f.nodes {
		dx := node.X - f.X
		if dx == 0 {
			dx = 1e-6
		}
		dy := node.Y - f.Y
		if dy == 0 {
			dy = 1e-6
		}
		l := math.Sqrt(dx*dx + dy*dy)
		k := (f.r[i] - l) * f.str[i] * alpha / l
		if !node.FixedX() {
			node.VX += dx * k
		}
		if !node.FixedY() {
			node.VY += dy * k
		}
	}
}
