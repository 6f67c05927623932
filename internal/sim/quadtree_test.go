package sim

import (
	"math"
	"testing"
)

type point struct{ x, y float64 }

func pointCoord(p point) (float64, float64) { return p.x, p.y }

func TestQuadtreeEmptyHasNilRoot(t *testing.T) {
	q := NewQuadtree(pointCoord)
	if q.Root() != nil {
		t.Fatal("empty quadtree should have a nil root")
	}
}

func TestQuadtreeCoverGrowsToContainPoint(t *testing.T) {
	q := NewQuadtree(pointCoord)
	q.Cover(5, 5)
	x0, y0, x1, y1 := q.Extent()
	if 5 < x0 || 5 >= x1 || 5 < y0 || 5 >= y1 {
		t.Fatalf("extent (%v,%v)-(%v,%v) does not contain (5,5)", x0, y0, x1, y1)
	}
	q.Cover(-100, 200)
	x0, y0, x1, y1 = q.Extent()
	if -100 < x0 || -100 >= x1 || 200 < y0 || 200 >= y1 {
		t.Fatalf("extent (%v,%v)-(%v,%v) does not contain (-100,200) after growth", x0, y0, x1, y1)
	}
}

func TestQuadtreeAddAllCoversEveryPoint(t *testing.T) {
	pts := []point{{0, 0}, {10, 10}, {-5, 3}, {7, -8}}
	q := NewQuadtree(pointCoord)
	q.AddAll(pts)
	x0, y0, x1, y1 := q.Extent()
	for _, p := range pts {
		if p.x < x0 || p.x >= x1 || p.y < y0 || p.y >= y1 {
			t.Fatalf("point %v not covered by extent (%v,%v)-(%v,%v)", p, x0, y0, x1, y1)
		}
	}
}

func TestQuadtreeCoincidentPointsShareOneLeaf(t *testing.T) {
	pts := []point{{3, 3}, {3, 3}, {3, 3}}
	q := NewQuadtree(pointCoord)
	q.AddAll(pts)
	root := q.Root()
	if root == nil || !root.IsLeaf() {
		t.Fatal("a single coincident cluster should collapse to one leaf at the root")
	}
	if len(root.Data()) != 3 {
		t.Fatalf("leaf holds %d points, want 3", len(root.Data()))
	}
}

func TestQuadtreeSeparatedPointsSplitIntoChildren(t *testing.T) {
	pts := []point{{0, 0}, {9, 9}}
	q := NewQuadtree(pointCoord)
	q.AddAll(pts)
	root := q.Root()
	if root == nil {
		t.Fatal("expected a non-nil root")
	}
	if root.IsLeaf() {
		t.Fatal("two well-separated points should not collapse into a single leaf")
	}
}

func TestQuadtreeVisitCanPruneSubtree(t *testing.T) {
	pts := []point{{0, 0}, {1, 0}, {9, 9}, {9, 0}}
	q := NewQuadtree(pointCoord)
	q.AddAll(pts)

	visited := 0
	q.Visit(func(n *QuadNode[point], x0, y0, x1, y1 float64) bool {
		visited++
		return true // prune everything immediately below the root
	})
	if visited != 1 {
		t.Fatalf("pruning at the first callback should visit exactly 1 node, got %d", visited)
	}
}

func TestQuadtreeVisitAfterIsPostOrder(t *testing.T) {
	pts := []point{{0, 0}, {1, 0}, {9, 9}, {9, 0}}
	q := NewQuadtree(pointCoord)
	q.AddAll(pts)

	var order []*QuadNode[point]
	q.VisitAfter(func(n *QuadNode[point], x0, y0, x1, y1 float64) {
		order = append(order, n)
	})
	if len(order) == 0 {
		t.Fatal("expected at least one visited node")
	}
	// The root must be visited last in a post-order walk.
	if order[len(order)-1] != q.Root() {
		t.Fatal("VisitAfter should visit the root last")
	}
}

func TestQuadtreeAddAllSkipsNaN(t *testing.T) {
	pts := []point{{0, 0}, {math.NaN(), 5}}
	q := NewQuadtree(pointCoord)
	q.AddAll(pts)
	if q.Root() == nil {
		t.Fatal("expected the valid point to still be inserted")
	}
}
