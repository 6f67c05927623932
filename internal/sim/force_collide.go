package sim

import "math"

// ForceCollide resolves overlaps between circular nodes of per-node
// Radius: on each of Iterations passes it rebuilds a quadtree over the
// nodes' anticipated positions (X + VX, Y + VY) and, for every pair whose
// circles overlap, splits the overlap between them proportionally to the
// other's radius. Two coincident nodes are nudged apart via the shared
// PRNG rather than left with an undefined direction.
type ForceCollide struct {
	Radius     NodeAccessor
	Strength   float64 // default 1
	Iterations int     // default 1

	nodes   []*Node
	radii   []float64
	rng     *PRNG
}

// NewForceCollide requires the radius accessor; strength defaults to 1
// and iterations to 1.
func NewForceCollide(radius NodeAccessor) *ForceCollide {
	return &ForceCollide{Radius: radius, Strength: 1, Iterations: 1}
}

func (f *ForceCollide) Initialize(nodes []*Node, rng *PRNG) {
	f.nodes = nodes
	f.rng = rng
	f.radii = materializeNodes(nodes, f.Radius)
}

func (f *ForceCollide) Apply(alpha float64) {
	iterations := f.Iterations
	if iterations < 1 {
		iterations = 1
	}
	for k := 0; k < iterations; k++ {
		tree := NewQuadtree(func(n *Node) (float64, float64) { return n.X + n.VX, n.Y + n.VY })
		tree.AddAll(f.nodes)
		tree.VisitAfter(f.prepare)

		for i, node := range f.nodes {
			ri := f.radii[node.Index]
			ri2 := ri * ri
			xi := node.X + node.VX
			yi := node.Y + node.VY
			f.apply(tree.Root(), node, i, xi, yi, ri, ri2)
		}
	}
}

// prepare stores the maximum radius among a cell's descendants, so apply
// can prune whole cells whose farthest possible circle can't reach the
// query node.
func (f *ForceCollide) prepare(n *QuadNode[*Node], x0, y0, x1, y1 float64) {
	var maxR float64
	if n.IsLeaf() {
		for _, node := range n.Data() {
			if r := f.radii[node.Index]; r > maxR {
				maxR = r
			}
		}
	} else {
		for q := 0; q < 4; q++ {
			child := n.Child(q)
			if child == nil {
				continue
			}
			if r, ok := child.Aggregate.(float64); ok && r > maxR {
				maxR = r
			}
		}
	}
	n.Aggregate = maxR
}

func (f *ForceCollide) apply(qn *QuadNode[*Node], node *Node, index int, xi, yi, ri, ri2 float64) {
	if qn == nil {
		return
	}
	maxR, _ := qn.Aggregate.(float64)
	r := ri + maxR
	x0, y0, x1, y1 := qn.Bounds()
	if x0 > xi+r || x1 < xi-r || y0 > yi+r || y1 < yi-r {
		return
	}

	if qn.IsLeaf() {
		for _, other := range qn.Data() {
			if other.Index <= node.Index {
				continue
			}
			rj := f.radii[other.Index]
			rr := ri + rj
			dx := xi - other.X - other.VX
			dy := yi - other.Y - other.VY
			l := dx*dx + dy*dy
			if l >= rr*rr {
				continue
			}
			if dx == 0 {
				dx = jiggle(f.rng)
				l += dx * dx
			}
			if dy == 0 {
				dy = jiggle(f.rng)
				l += dy * dy
			}
			dist := math.Sqrt(l)
			k := (rr - dist) / dist * f.Strength
			dx *= k
			dy *= k
			share := (rj * rj) / (ri*ri + rj*rj)
			node.VX += dx * share
			node.VY += dy * share
			other.VX -= dx * (1 - share)
			other.VY -= dy * (1 - share)
		}
		return
	}

	for q := 0; q < 4; q++ {
		f.apply(qn.Child(q), node, index, xi, yi, ri, ri2)
	}
}
