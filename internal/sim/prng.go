package sim

// PRNG is a deterministic linear congruential generator, used anywhere a
// force must break ties (e.g. jittering coincident points). The parameters
// match the classic Numerical Recipes LCG: multiplier 1664525, increment
// 1013904223, modulus 2^32. State is carried in a uint32 so the modulus
// reduction happens for free via unsigned integer wraparound.
type PRNG struct {
	state uint32
}

// NewPRNG returns a generator seeded to the fixed initial state 1, so that
// two simulations constructed independently produce identical sequences.
func NewPRNG() *PRNG {
	return &PRNG{state: 1}
}

// Float64 returns the next value in [0, 1).
func (p *PRNG) Float64() float64 {
	p.state = p.state*1664525 + 1013904223
	return float64(p.state) / 4294967296
}

// jiggle returns a small, sign-random, deterministic perturbation used when
// an inverse-distance denominator collapses to zero.
func jiggle(rng *PRNG) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
