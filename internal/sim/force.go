package sim

// Force is one term of the simulation's velocity update. Initialize is
// called whenever the node set changes (construction, or a later call to
// Simulation.SetNodes) so a force can materialize its accessors into dense
// arrays before the hot per-tick loop runs. Apply mutates node velocities
// (or, for ForceCenter, positions) in place.
type Force interface {
	Initialize(nodes []*Node, rng *PRNG)
	Apply(alpha float64)
}

// namedForce pairs a force with the name it was registered under, so
// Simulation.Forces() can report registration order and Force(name) can
// look one back up.
type namedForce struct {
	name  string
	force Force
}
