package sim

import "testing"

func TestForceCenterRecenters(t *testing.T) {
	nodes := []*Node{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}
	f := NewForceCenter(0, 0)
	f.Initialize(nodes, NewPRNG())
	f.Apply(1)

	// centroid was (5, 10/3); every node shifts by -(centroid - target).
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	if sx/3 > 1e-9 || sx/3 < -1e-9 {
		t.Fatalf("centroid x after Apply = %v, want ~0", sx/3)
	}
	if sy/3 > 1e-9 || sy/3 < -1e-9 {
		t.Fatalf("centroid y after Apply = %v, want ~0", sy/3)
	}
}

func TestForceCenterOffTarget(t *testing.T) {
	nodes := []*Node{{X: 2, Y: 2}, {X: 4, Y: 4}}
	f := NewForceCenter(10, 10)
	f.Initialize(nodes, NewPRNG())
	f.Apply(1)
	// centroid (3,3), target (10,10): dx = 3-10 = -7, every node -= dx -> +7
	if nodes[0].X != 9 || nodes[0].Y != 9 {
		t.Fatalf("nodes[0] = (%v, %v), want (9, 9)", nodes[0].X, nodes[0].Y)
	}
	if nodes[1].X != 11 || nodes[1].Y != 11 {
		t.Fatalf("nodes[1] = (%v, %v), want (11, 11)", nodes[1].X, nodes[1].Y)
	}
}

func TestForceCenterEmptyIsNoOp(t *testing.T) {
	f := NewForceCenter(1, 1)
	f.Initialize(nil, NewPRNG())
	f.Apply(1) // must not panic on empty node set
}

func TestForceCenterAlsoShiftsFixedNodesRawPosition(t *testing.T) {
	// ForceCenter has no fixed-node special case: it directly moves every
	// node's position, including fixed ones. The driver re-snaps fixed
	// nodes back to FX/FY at tick integration, not the force itself.
	fx, fy := 5.0, 5.0
	nodes := []*Node{{X: 0, Y: 0, FX: &fx, FY: &fy}, {X: 10, Y: 0}}
	f := NewForceCenter(0, 0)
	f.Initialize(nodes, NewPRNG())
	f.Apply(1)
	if nodes[0].X == 0 {
		t.Fatal("expected ForceCenter to move the fixed node's raw position; the driver undoes this at integration")
	}
}
