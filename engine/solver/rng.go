package solver

import "math/rand"

// RNG is a seeded source with a draw counter, so a sampling run can be
// reproduced from its seed and checked against the recorded position.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Pick returns a uniform index in [0, n).
func (r *RNG) Pick(n int) int {
	r.pos++
	return int(r.src.Int63() % int64(n))
}

// WeightedSelect returns an index chosen with probability proportional to
// its weight. weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := r.Pick(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
