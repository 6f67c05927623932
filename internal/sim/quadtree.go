package sim

import "math"

// QuadNode is one node of a Quadtree: either an interior node with up to
// four children (nw, ne, sw, se) or a leaf holding a chain of coincident
// points. The aggregate payload attached to interior nodes by VisitAfter
// is force-specific (center of mass for many-body, max radius for
// collide), so it is stored as an opaque value rather than a fixed
// mass/centroid pair.
type QuadNode[D any] struct {
	x0, y0, x1, y1 float64
	children       [4]*QuadNode[D]
	data           []D
	leaf           bool

	// Aggregate is set by VisitAfter and read back during a force's own
	// tree walk; its concrete type is owned by whichever force populated
	// it (see force_manybody.go, force_collide.go).
	Aggregate any
}

func (n *QuadNode[D]) Bounds() (x0, y0, x1, y1 float64) { return n.x0, n.y0, n.x1, n.y1 }
func (n *QuadNode[D]) IsLeaf() bool                     { return n.leaf }
func (n *QuadNode[D]) Data() []D                        { return n.data }

// Child returns the child at the given quadrant: 0=nw, 1=ne, 2=sw, 3=se.
// nil if absent.
func (n *QuadNode[D]) Child(quadrant int) *QuadNode[D] { return n.children[quadrant] }

// Quadtree is a mutable 2D spatial index over an axis-aligned square region
// that grows automatically to cover inserted points, used by the collide
// and many-body forces to avoid pairwise O(n^2) comparisons.
type Quadtree[D any] struct {
	root                   *QuadNode[D]
	x0, y0, x1, y1         float64
	hasExtent              bool
	coord                  func(D) (float64, float64)
}

// NewQuadtree returns an empty tree that reads the (x, y) position of a
// point via coord.
func NewQuadtree[D any](coord func(D) (float64, float64)) *Quadtree[D] {
	return &Quadtree[D]{coord: coord}
}

// Root returns the tree's root node, or nil if the tree is empty.
func (q *Quadtree[D]) Root() *QuadNode[D] { return q.root }

// Extent returns the tree's current bounding square.
func (q *Quadtree[D]) Extent() (x0, y0, x1, y1 float64) { return q.x0, q.y0, q.x1, q.y1 }

// Cover extends the tree's bounds, if necessary, to include (x, y). The
// bounding square is repeatedly doubled, nesting the existing root inside
// the quadrant opposite the direction of growth, until the point is
// covered. A no-op for NaN coordinates.
func (q *Quadtree[D]) Cover(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	if !q.hasExtent {
		q.x0, q.y0 = math.Floor(x), math.Floor(y)
		q.x1, q.y1 = q.x0+1, q.y0+1
		q.hasExtent = true
		return
	}
	for x < q.x0 || x >= q.x1 || y < q.y0 || y >= q.y1 {
		right, bottom := 0, 0
		if x < q.x0 {
			right = 1
		}
		if y < q.y0 {
			bottom = 1
		}
		quadrant := bottom<<1 | right
		z := q.x1 - q.x0
		if z == 0 {
			z = 1
		}
		z *= 2

		var nx0, ny0, nx1, ny1 float64
		switch quadrant {
		case 0:
			nx0, ny0, nx1, ny1 = q.x0, q.y0, q.x0+z, q.y0+z
		case 1:
			nx0, ny0, nx1, ny1 = q.x1-z, q.y0, q.x1, q.y0+z
		case 2:
			nx0, ny0, nx1, ny1 = q.x0, q.y1-z, q.x0+z, q.y1
		default:
			nx0, ny0, nx1, ny1 = q.x1-z, q.y1-z, q.x1, q.y1
		}

		if q.root != nil {
			parent := &QuadNode[D]{x0: nx0, y0: ny0, x1: nx1, y1: ny1}
			parent.children[quadrant] = q.root
			q.root = parent
		}
		q.x0, q.y0, q.x1, q.y1 = nx0, ny0, nx1, ny1
	}
}

// Add inserts a single point, extending the tree's bounds as needed.
func (q *Quadtree[D]) Add(p D) {
	x, y := q.coord(p)
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	q.Cover(x, y)
	q.root = q.insert(q.root, q.x0, q.y0, q.x1, q.y1, x, y, p)
}

// AddAll inserts every point in points, computing the tree's bounds from
// the full set up front rather than growing incrementally per point. This
// is the path every force takes: a fresh tree is built from all node
// positions once per tick.
func (q *Quadtree[D]) AddAll(points []D) {
	if len(points) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	hasAny := false
	for _, p := range points {
		x, y := q.coord(p)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		hasAny = true
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	if !hasAny {
		return
	}
	q.Cover(minX, minY)
	q.Cover(maxX, maxY)
	for _, p := range points {
		x, y := q.coord(p)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		q.root = q.insert(q.root, q.x0, q.y0, q.x1, q.y1, x, y, p)
	}
}

func (q *Quadtree[D]) insert(node *QuadNode[D], x0, y0, x1, y1, x, y float64, p D) *QuadNode[D] {
	if node == nil {
		return &QuadNode[D]{x0: x0, y0: y0, x1: x1, y1: y1, leaf: true, data: []D{p}}
	}
	if node.leaf {
		xp, yp := q.coord(node.data[0])
		if xp == x && yp == y {
			node.data = append(node.data, p)
			return node
		}
		existing := node.data
		interior := &QuadNode[D]{x0: x0, y0: y0, x1: x1, y1: y1}
		for _, e := range existing {
			ex, ey := q.coord(e)
			interior = q.insertInto(interior, ex, ey, e)
		}
		return q.insertInto(interior, x, y, p)
	}
	return q.insertInto(node, x, y, p)
}

func (q *Quadtree[D]) insertInto(node *QuadNode[D], x, y float64, p D) *QuadNode[D] {
	xm := (node.x0 + node.x1) / 2
	ym := (node.y0 + node.y1) / 2
	right, bottom := 0, 0
	if x >= xm {
		right = 1
	}
	if y >= ym {
		bottom = 1
	}
	i := bottom<<1 | right

	var cx0, cy0, cx1, cy1 float64
	switch i {
	case 0:
		cx0, cy0, cx1, cy1 = node.x0, node.y0, xm, ym
	case 1:
		cx0, cy0, cx1, cy1 = xm, node.y0, node.x1, ym
	case 2:
		cx0, cy0, cx1, cy1 = node.x0, ym, xm, node.y1
	default:
		cx0, cy0, cx1, cy1 = xm, ym, node.x1, node.y1
	}
	node.children[i] = q.insert(node.children[i], cx0, cy0, cx1, cy1, x, y, p)
	return node
}

// QuadVisitor is called during a pre-order traversal of the tree. Returning
// true prunes the subtree rooted at node.
type QuadVisitor[D any] func(node *QuadNode[D], x0, y0, x1, y1 float64) bool

// QuadAfterVisitor is called during a post-order traversal, used to compute
// per-cell aggregates bottom-up: every child of a node is visited (and has
// had its own Aggregate set, if interior) before the node itself.
type QuadAfterVisitor[D any] func(node *QuadNode[D], x0, y0, x1, y1 float64)

// Visit walks the tree pre-order from the root.
func (q *Quadtree[D]) Visit(cb QuadVisitor[D]) {
	if q.root == nil {
		return
	}
	var walk func(n *QuadNode[D])
	walk = func(n *QuadNode[D]) {
		if n == nil {
			return
		}
		if cb(n, n.x0, n.y0, n.x1, n.y1) || n.leaf {
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(q.root)
}

// VisitAfter walks the tree post-order from the root, so a force can
// accumulate each interior node's Aggregate from its children's.
func (q *Quadtree[D]) VisitAfter(cb QuadAfterVisitor[D]) {
	if q.root == nil {
		return
	}
	var walk func(n *QuadNode[D])
	walk = func(n *QuadNode[D]) {
		if n == nil {
			return
		}
		if !n.leaf {
			for _, c := range n.children {
				walk(c)
			}
		}
		cb(n, n.x0, n.y0, n.x1, n.y1)
	}
	walk(q.root)
}
