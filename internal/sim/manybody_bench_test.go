package sim

import (
	"fmt"
	"math"
	"testing"
)

// ringNodes places n nodes evenly around a circle, the same layout the
// benchmark data in this file and manybody_quality_test.go both start
// from so their node counts are comparable across benchmarks.
func ringNodes(n int) []*Node {
	nodes := make([]*Node, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		radius := 100 * math.Sqrt(float64(n)/1000+1)
		nodes[i] = &Node{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
		nodes[i].Index = i
	}
	return nodes
}

// BenchmarkForceManyBodyTheta compares the default Barnes-Hut theta
// against theta=0 (which forces every quadtree cell open down to its
// leaves, i.e. brute-force O(n^2) pairwise repulsion) across a range of
// node counts.
func BenchmarkForceManyBodyTheta(b *testing.B) {
	sizes := []int{100, 500, 1000, 2000, 5000}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("BarnesHut_N=%d", n), func(b *testing.B) {
			nodes := ringNodes(n)
			f := NewForceManyBody()
			f.Initialize(nodes, NewPRNG())
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f.Apply(1)
			}
		})
		b.Run(fmt.Sprintf("BruteForce_N=%d", n), func(b *testing.B) {
			nodes := ringNodes(n)
			f := NewForceManyBody()
			f.Theta = 0
			f.Initialize(nodes, NewPRNG())
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f.Apply(1)
			}
		})
	}
}

// BenchmarkSimulationTickScalability measures how a full tick (many-body
// plus link plus center) scales with node count, mirroring the layout
// iteration cost a caller running Simulation.Tick in a loop would pay.
func BenchmarkSimulationTickScalability(b *testing.B) {
	sizes := []int{100, 500, 1000, 2000, 5000}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("N=%d", n), func(b *testing.B) {
			nodes := ringNodes(n)
			links := make([]*Link, 0, n)
			for i := 1; i < n; i++ {
				links = append(links, &Link{SourceID: fmt.Sprint(i - 1), TargetID: fmt.Sprint(i)})
			}
			s := NewSimulation(nodes)
			s.Force("charge", NewForceManyBody())
			s.Force("link", NewForceLink(links))
			s.Force("center", NewForceCenter(0, 0))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Tick(1)
			}
		})
	}
}

// BenchmarkForceManyBodyThetaParameter isolates the cost of theta itself,
// holding node count fixed.
func BenchmarkForceManyBodyThetaParameter(b *testing.B) {
	nodes := ringNodes(1000)
	thetaValues := []float64{0, 0.5, 0.9, 1.2}
	for _, theta := range thetaValues {
		b.Run(fmt.Sprintf("Theta=%.1f", theta), func(b *testing.B) {
			f := NewForceManyBody()
			f.Theta = theta
			f.Initialize(nodes, NewPRNG())
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f.Apply(1)
			}
		})
	}
}

// BenchmarkQuadtreeConstruction isolates tree-building cost from force
// application, since Apply rebuilds the tree from scratch every tick.
func BenchmarkQuadtreeConstruction(b *testing.B) {
	sizes := []int{100, 500, 1000, 5000, 10000}
	for _, n := range sizes {
		nodes := ringNodes(n)
		b.Run(fmt.Sprintf("N=%d", n), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tree := NewQuadtree(func(node *Node) (float64, float64) { return node.X, node.Y })
				tree.AddAll(nodes)
			}
		})
	}
}
