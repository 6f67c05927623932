package sim

import (
	"math"
	"testing"
)

func TestNewSimulationSeedsUnplacedNodesAlongPhyllotaxis(t *testing.T) {
	nodes := []*Node{Unplaced(), Unplaced(), Unplaced()}
	NewSimulation(nodes)

	want := [][2]float64{
		{7.0710678118654755, 0.0},
		{-9.03088751750192, 8.273032735715967},
		{1.3823220809823638, -15.750847141167634},
	}
	for i, w := range want {
		if math.Abs(nodes[i].X-w[0]) > 1e-9 || math.Abs(nodes[i].Y-w[1]) > 1e-9 {
			t.Fatalf("node %d = (%v, %v), want (%v, %v)", i, nodes[i].X, nodes[i].Y, w[0], w[1])
		}
		if nodes[i].VX != 0 || nodes[i].VY != 0 {
			t.Fatalf("node %d velocity = (%v, %v), want (0, 0)", i, nodes[i].VX, nodes[i].VY)
		}
	}
}

func TestNewSimulationPreservesPlacedNodes(t *testing.T) {
	nodes := []*Node{{X: 42, Y: -7, VX: 1, VY: 2}}
	NewSimulation(nodes)
	if nodes[0].X != 42 || nodes[0].Y != -7 {
		t.Fatalf("placed node was re-seeded: (%v, %v)", nodes[0].X, nodes[0].Y)
	}
}

func TestNewSimulationSnapsFixedNodesToFXFY(t *testing.T) {
	fx, fy := 3.0, 4.0
	nodes := []*Node{{X: 0, Y: 0, FX: &fx, FY: &fy}}
	NewSimulation(nodes)
	if nodes[0].X != 3 || nodes[0].Y != 4 {
		t.Fatalf("fixed node = (%v, %v), want (3, 4)", nodes[0].X, nodes[0].Y)
	}
}

func TestNewSimulationSeedsOnlyUnpinnedAxis(t *testing.T) {
	fx := 5.0
	n := Unplaced()
	n.FX = &fx
	NewSimulation([]*Node{n})
	if n.X != 5 {
		t.Fatalf("X = %v, want pinned value 5 to survive seeding", n.X)
	}
	if math.IsNaN(n.Y) {
		t.Fatal("Y left NaN; unpinned axis should have been phyllotaxis-seeded")
	}
}

func TestTickDecaysAlphaTowardTarget(t *testing.T) {
	s := NewSimulation([]*Node{{X: 0, Y: 0}})
	s.Tick(1)
	want := DefaultAlpha + (DefaultAlphaTarget-DefaultAlpha)*DefaultAlphaDecay
	if s.Alpha() != want {
		t.Fatalf("Alpha() = %v, want %v", s.Alpha(), want)
	}
}

func TestTickNEquivalentToNSingleTicks(t *testing.T) {
	a := NewSimulation([]*Node{{X: 1, Y: 1}, {X: 5, Y: 5}})
	a.Force("x", NewForceX())
	b := NewSimulation([]*Node{{X: 1, Y: 1}, {X: 5, Y: 5}})
	b.Force("x", NewForceX())

	a.Tick(5)
	for i := 0; i < 5; i++ {
		b.Tick(1)
	}

	for i := range a.Nodes() {
		if a.Nodes()[i].X != b.Nodes()[i].X || a.Nodes()[i].Y != b.Nodes()[i].Y {
			t.Fatalf("node %d diverged: Tick(5)=(%v,%v) vs 5xTick(1)=(%v,%v)",
				i, a.Nodes()[i].X, a.Nodes()[i].Y, b.Nodes()[i].X, b.Nodes()[i].Y)
		}
	}
	if a.Generation() != b.Generation() || a.Generation() != 5 {
		t.Fatalf("generation = %d/%d, want 5/5", a.Generation(), b.Generation())
	}
}

func TestTickIntegratesVelocityWithDecay(t *testing.T) {
	s := NewSimulation([]*Node{{X: 0, Y: 0, VX: 10, VY: 0}})
	// no forces: velocity is simply damped then integrated. The stored
	// multiplier DefaultVelocityDecay 0.6 retains 60% of velocity per tick
	// (the user-facing VelocityDecay() is 1 - 0.6 = 0.4).
	s.Tick(1)
	wantV := 10 * DefaultVelocityDecay
	if s.Nodes()[0].VX != wantV {
		t.Fatalf("VX = %v, want %v", s.Nodes()[0].VX, wantV)
	}
	if s.Nodes()[0].X != wantV {
		t.Fatalf("X = %v, want %v", s.Nodes()[0].X, wantV)
	}
}

func TestTickKeepsFixedNodesClamped(t *testing.T) {
	fx, fy := 9.0, 9.0
	n := &Node{X: 9, Y: 9, FX: &fx, FY: &fy}
	s := NewSimulation([]*Node{n})
	s.Force("center", NewForceCenter(0, 0))
	s.Tick(3)
	if n.X != 9 || n.Y != 9 || n.VX != 0 || n.VY != 0 {
		t.Fatalf("fixed node drifted: (%v,%v) v=(%v,%v)", n.X, n.Y, n.VX, n.VY)
	}
}

func TestForceReplaceAndRemove(t *testing.T) {
	s := NewSimulation([]*Node{{X: 1, Y: 1}})
	f1 := NewForceX()
	s.Force("x", f1)
	if s.GetForce("x") != Force(f1) {
		t.Fatal("GetForce did not return the registered force")
	}
	f2 := NewForceX()
	s.Force("x", f2)
	if s.GetForce("x") != Force(f2) {
		t.Fatal("Force did not replace the existing entry under the same name")
	}
	s.Force("x", nil)
	if s.GetForce("x") != nil {
		t.Fatal("Force(name, nil) did not remove the force")
	}
}

func TestForceLinkTracksLinksOnSimulation(t *testing.T) {
	s := NewSimulation([]*Node{{X: 0, Y: 0}, {X: 10, Y: 0}})
	links := []*Link{{SourceID: "0", TargetID: "1"}}
	s.Force("link", NewForceLink(links))
	if got := s.Links(); len(got) != 1 || got[0] != links[0] {
		t.Fatalf("Links() = %v, want %v", got, links)
	}
}

func TestTickDoesNotDispatchEvents(t *testing.T) {
	s := NewSimulation([]*Node{{X: 0, Y: 0}})
	s.SetAlphaMin(0.999) // so a single step would already drop below alphaMin
	var ticks, ends int
	s.On("tick", func(*Simulation) { ticks++ })
	s.On("end", func(*Simulation) { ends++ })
	s.Tick(1)
	if ticks != 0 || ends != 0 {
		t.Fatalf("Tick dispatched events (ticks=%d, ends=%d), want silent", ticks, ends)
	}
}

func TestStepDispatchesTickAndEnd(t *testing.T) {
	s := NewSimulation([]*Node{{X: 0, Y: 0}})
	s.SetAlphaMin(0.999) // so a single step already drops below alphaMin
	var ticks, ends int
	s.On("tick", func(*Simulation) { ticks++ })
	s.On("end", func(*Simulation) { ends++ })
	s.Step()
	if ticks != 1 {
		t.Fatalf("tick listener fired %d times, want 1", ticks)
	}
	if ends != 1 {
		t.Fatalf("end listener fired %d times, want 1", ends)
	}
}

func TestStepAdvancesGenerationLikeTick(t *testing.T) {
	s := NewSimulation([]*Node{{X: 0, Y: 0}})
	s.Step()
	if s.Generation() != 1 {
		t.Fatalf("Generation() = %d after Step, want 1", s.Generation())
	}
}

func TestFindReturnsNearestNode(t *testing.T) {
	s := NewSimulation([]*Node{{X: 0, Y: 0}, {X: 100, Y: 100}, {X: 5, Y: 5}})
	found := s.Find(4, 4, 0)
	if found == nil || found.X != 5 || found.Y != 5 {
		t.Fatalf("Find(4,4,0) = %+v, want node at (5,5)", found)
	}
}

func TestFindRespectsRadius(t *testing.T) {
	s := NewSimulation([]*Node{{X: 100, Y: 100}})
	if got := s.Find(0, 0, 1); got != nil {
		t.Fatalf("Find with radius 1 should not reach a node 141 away, got %+v", got)
	}
}

func TestFindOnEmptySimulationReturnsNil(t *testing.T) {
	s := NewSimulation(nil)
	if got := s.Find(0, 0, 0); got != nil {
		t.Fatalf("Find on an empty simulation = %+v, want nil", got)
	}
}
