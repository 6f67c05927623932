package sim

// ForceCenter recenters the whole node set around (X, Y) by translating
// every node's position by the offset between the current centroid and
// the target — unlike every other force, it adjusts position directly
// rather than accumulating into velocity, since there is no meaningful
// "pull toward center" spring to integrate.
type ForceCenter struct {
	X, Y     float64
	Strength float64 // default 1

	nodes []*Node
}

// NewForceCenter returns a center force with strength 1.
func NewForceCenter(x, y float64) *ForceCenter {
	return &ForceCenter{X: x, Y: y, Strength: 1}
}

func (f *ForceCenter) Initialize(nodes []*Node, rng *PRNG) {
	f.nodes = nodes
}

func (f *ForceCenter) Apply(alpha float64) {
	n := len(f.nodes)
	if n == 0 {
		return
	}
	var sx, sy float64
	for _, node := range f.nodes {
		sx += node.X
		sy += node.Y
	}
	dx := (sx/float64(n) - f.X) * f.Strength
	dy := (sy/float64(n) - f.Y) * f.Strength
	for _, node := range f.nodes {
		node.X -= dx
		node.Y -= dy
	}
}
