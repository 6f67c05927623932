package sim

// ForceX pulls every node toward a per-node target x, at a per-node
// strength, each tick contributing vx += (target - x) * strength * alpha.
// ForceY is its mirror on the y axis. They are separate types (rather than
// one axis-parameterized force) because that is how the accessor pairs
// naturally split: a caller wanting both wires two forces under two
// distinct names.
type ForceX struct {
	X        NodeAccessor
	Strength NodeAccessor

	nodes []*Node
	x     []float64
	str   []float64
}

// NewForceX defaults X to 0 and Strength to 0.1, the values a caller must
// override via the accessor fields for anything other than "pull toward
// the y axis, gently."
func NewForceX() *ForceX {
	return &ForceX{X: Const(0), Strength: Const(0.1)}
}

func (f *ForceX) Initialize(nodes []*Node, rng *PRNG) {
	f.nodes = nodes
	f.x = materializeNodes(nodes, f.X)
	f.str = materializeNodes(nodes, f.Strength)
}

func (f *ForceX) Apply(alpha float64) {
	for i, node := range f.nodes {
		if node.FixedX() {
			continue
		}
		node.VX += (f.x[i] - node.X) * f.str[i] * alpha
	}
}

// ForceY is ForceX's mirror on the y axis.
type ForceY struct {
	Y        NodeAccessor
	Strength NodeAccessor

	nodes []*Node
	y     []float64
	str   []float64
}

func NewForceY() *ForceY {
	return &ForceY{Y: Const(0), Strength: Const(0.1)}
}

func (f *ForceY) Initialize(nodes []*Node, rng *PRNG) {
	f.nodes = nodes
	f.y = materializeNodes(nodes, f.Y)
	f.str = materializeNodes(nodes, f.Strength)
}

func (f *ForceY) Apply(alpha float64) {
	for i, node := range f.nodes {
		if node.FixedY() {
			continue
		}
		node.VY += (f.y[i] - node.Y) * f.str[i] * alpha
	}
}
