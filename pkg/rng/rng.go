// Package rng provides the deterministic random source used by world
// generation. The same seed replayed through the same call sequence
// reproduces an identical stream, which is what makes populations
// reproducible across save/load.
package rng

import "math/rand"

// Source is a seeded random source. It is not safe for concurrent use;
// generation is single-caller by design.
type Source struct {
	r    *rand.Rand
	seed int64
}

// New creates a Source from a seed.
func New(seed int64) *Source {
	return &Source{
		r:    rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Next returns the next value in [0, 1).
func (s *Source) Next() float64 {
	return s.r.Float64()
}

// IntRange returns a uniform integer in [min, max], inclusive on both ends.
// If max < min the arguments are swapped rather than panicking.
func (s *Source) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.r.Intn(max-min+1)
}

// Choice returns a uniformly chosen element of list. It panics on an empty
// list, same as indexing would.
func Choice[T any](s *Source, list []T) T {
	return list[s.r.Intn(len(list))]
}
