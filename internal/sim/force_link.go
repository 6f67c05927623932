package sim

import "math"

// ForceLink pulls linked node pairs toward a target Distance, at a
// per-link Strength, splitting the correction between source and target
// according to a bias computed from their relative degree (a node with
// many links moves less than one with few) unless a link's bias is
// overridden.
//
// Link.SourceID/TargetID are resolved against the current node set's ids
// (by default a node's positional index, see DefaultID) on Initialize; a
// link whose id has no matching node is dropped rather than causing a
// panic mid-tick, and its drop is observable via UnresolvedCount.
type ForceLink struct {
	Links      []*Link
	ID         IDAccessor
	Distance   LinkAccessor
	Strength   LinkAccessor // nil means "compute the default 1/min(degree)"
	Iterations int          // default 1

	strengths []float64
	distances []float64
	bias      []float64
	resolved   []*Link
	unresolved int
	rng        *PRNG
}

// NewForceLink returns a link force over links, with distance 30 and the
// default degree-based strength.
func NewForceLink(links []*Link) *ForceLink {
	return &ForceLink{
		Links:      links,
		ID:         DefaultID,
		Distance:   ConstLink(30),
		Iterations: 1,
	}
}

// UnresolvedCount reports how many links were dropped at the last
// Initialize because their SourceID or TargetID matched no node.
func (f *ForceLink) UnresolvedCount() int { return f.unresolved }

func (f *ForceLink) Initialize(nodes []*Node, rng *PRNG) {
	f.rng = rng
	ids := materializeIDs(nodes, f.ID)

	f.resolved = f.resolved[:0]
	f.unresolved = 0
	for _, l := range f.Links {
		si, sok := ids[l.SourceID]
		ti, tok := ids[l.TargetID]
		if !sok || !tok {
			f.unresolved++
			continue
		}
		l.Source = nodes[si]
		l.Target = nodes[ti]
		f.resolved = append(f.resolved, l)
	}

	count := make(map[*Node]int, len(nodes))
	for _, l := range f.resolved {
		count[l.Source]++
		count[l.Target]++
	}

	f.bias = make([]float64, len(f.resolved))
	for i, l := range f.resolved {
		f.bias[i] = float64(count[l.Source]) / float64(count[l.Source]+count[l.Target])
	}

	if f.Distance == nil {
		f.Distance = ConstLink(30)
	}
	f.distances = materializeLinks(f.resolved, f.Distance)

	if f.Strength != nil {
		f.strengths = materializeLinks(f.resolved, f.Strength)
	} else {
		f.strengths = make([]float64, len(f.resolved))
		for i, l := range f.resolved {
			f.strengths[i] = 1 / math.Min(float64(count[l.Source]), float64(count[l.Target]))
		}
	}
}

func (f *ForceLink) Apply(alpha float64) {
	iterations := f.Iterations
	if iterations < 1 {
		iterations = 1
	}
	for k := 0; k < iterations; k++ {
		for i, l := range f.resolved {
			source, target := l.Source, l.Target
			x := target.X + target.VX - source.X - source.VX
			y := target.Y + target.VY - source.Y - source.VY
			if x == 0 {
				x = jiggle(f.rng)
			}
			if y == 0 {
				y = jiggle(f.rng)
			}
			length := math.Sqrt(x*x + y*y)
			factor := (length - f.distances[i]) / length * alpha * f.strengths[i]
			x *= factor
			y *= factor
			b := f.bias[i]

			if !target.FixedX() {
				target.VX -= x * b
			}
			if !target.FixedY() {
				target.VY -= y * b
			}
			if !source.FixedX() {
				source.VX += x * (1 - b)
			}
			if !source.FixedY() {
				source.VY += y * (1 - b)
			}
		}
	}
}
