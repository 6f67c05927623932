package sim

import "math"

// manyBodyAggregate is the center-of-mass payload ForceManyBody attaches
// to each interior quadtree node via VisitAfter: total charge and the
// charge-weighted centroid of every node beneath it.
type manyBodyAggregate struct {
	charge float64
	x, y   float64 // charge-weighted centroid; meaningless if charge == 0
}

// ForceManyBody applies an inverse-square repulsion (negative Strength) or
// attraction (positive) between every pair of nodes, approximated via the
// Barnes-Hut criterion: a quadtree cell is treated as a single point mass
// at its center of charge whenever its width divided by the distance to
// the node under consideration is less than Theta. Generalized from a
// fixed-mass gravity model to a signed per-node charge with configurable
// distance clamps.
type ForceManyBody struct {
	Strength     NodeAccessor
	Theta        float64 // default 0.9
	DistanceMin  float64 // default 1
	DistanceMax  float64 // default +Inf

	nodes      []*Node
	strengths  []float64
	rng        *PRNG
	tree       *Quadtree[*Node]
}

// NewForceManyBody returns a repulsive many-body force (strength -30,
// matching the usual "keep nodes apart" default) with theta 0.9,
// distanceMin 1 and no distanceMax.
func NewForceManyBody() *ForceManyBody {
	return &ForceManyBody{
		Strength:    Const(-30),
		Theta:       0.9,
		DistanceMin: 1,
		DistanceMax: math.Inf(1),
	}
}

func (f *ForceManyBody) Initialize(nodes []*Node, rng *PRNG) {
	f.nodes = nodes
	f.rng = rng
	f.strengths = materializeNodes(nodes, f.Strength)
}

func (f *ForceManyBody) Apply(alpha float64) {
	n := len(f.nodes)
	if n == 0 {
		return
	}

	var totalStrength float64
	for _, s := range f.strengths {
		totalStrength += s
	}

	f.tree = NewQuadtree(func(node *Node) (float64, float64) { return node.X, node.Y })
	f.tree.AddAll(f.nodes)
	f.tree.VisitAfter(f.accumulate)

	theta2 := f.Theta * f.Theta
	distanceMin2 := f.DistanceMin * f.DistanceMin
	distanceMax2 := f.DistanceMax * f.DistanceMax

	for i, node := range f.nodes {
		f.apply(f.tree.Root(), node, i, theta2, distanceMin2, distanceMax2, alpha)
	}
}

// accumulate computes the center-of-charge for one quadtree node from its
// children (interior) or its leaf chain, storing the result as the node's
// Aggregate. Called post-order, so children are already populated.
func (f *ForceManyBody) accumulate(n *QuadNode[*Node], x0, y0, x1, y1 float64) {
	agg := manyBodyAggregate{}
	if n.IsLeaf() {
		for _, node := range n.Data() {
			c := f.strengths[node.Index]
			agg.charge += c
			agg.x += c * node.X
			agg.y += c * node.Y
		}
	} else {
		for q := 0; q < 4; q++ {
			child := n.Child(q)
			if child == nil {
				continue
			}
			ca, ok := child.Aggregate.(manyBodyAggregate)
			if !ok {
				continue
			}
			agg.charge += ca.charge
			agg.x += ca.charge * ca.x
			agg.y += ca.charge * ca.y
		}
	}
	if agg.charge != 0 {
		agg.x /= agg.charge
		agg.y /= agg.charge
	}
	n.Aggregate = agg
}

func (f *ForceManyBody) apply(qn *QuadNode[*Node], node *Node, index int, theta2, distanceMin2, distanceMax2, alpha float64) {
	if qn == nil {
		return
	}
	agg, ok := qn.Aggregate.(manyBodyAggregate)
	if !ok || agg.charge == 0 {
		return
	}

	x0, _, x1, _ := qn.Bounds()
	dx := agg.x - node.X
	dy := agg.y - node.Y
	w := x1 - x0
	l := dx*dx + dy*dy

	if w*w/theta2 < l {
		// Cell is far enough away, relative to its size, to treat as one
		// point mass.
		if l < distanceMax2 {
			if l == 0 {
				if dx == 0 {
					dx = jiggle(f.rng)
					l += dx * dx
				}
				if dy == 0 {
					dy = jiggle(f.rng)
					l += dy * dy
				}
			}
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			node.VX += dx * agg.charge * alpha / l
			node.VY += dy * agg.charge * alpha / l
		}
		return
	}

	if !qn.IsLeaf() {
		if l >= distanceMax2 {
			return
		}
		for q := 0; q < 4; q++ {
			f.apply(qn.Child(q), node, index, theta2, distanceMin2, distanceMax2, alpha)
		}
		return
	}

	// Leaf: apply pairwise against every coincident point except the node
	// itself.
	for _, other := range qn.Data() {
		if other == node {
			continue
		}
		ddx := other.X - node.X
		ddy := other.Y - node.Y
		ll := ddx*ddx + ddy*ddy
		if ll >= distanceMax2 {
			continue
		}
		if ll == 0 {
			if ddx == 0 {
				ddx = jiggle(f.rng)
				ll += ddx * ddx
			}
			if ddy == 0 {
				ddy = jiggle(f.rng)
				ll += ddy * ddy
			}
		}
		if ll < distanceMin2 {
			ll = math.Sqrt(distanceMin2 * ll)
		}
		w := f.strengths[other.Index] * alpha / ll
		node.VX += ddx * w
		node.VY += ddy * w
	}
}
