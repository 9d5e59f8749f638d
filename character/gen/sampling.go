// Package gen holds the faction-conditioned trait databases and the
// generation pipeline that assembles Character Records from them. Every
// generator is a pure function of (faction, gender, rng); there is no
// hidden state beyond RNG consumption, so identical streams reproduce
// identical records.
package gen

import "island-npc-engine/backend/pkg/rng"

// WeightedOption pairs a candidate value with a positive weight. Weights
// need not sum to 1, only to a positive total.
type WeightedOption[T any] struct {
	Value  T
	Weight float64
}

// WeightedChoice draws one option with probability weight/totalWeight. The
// pool is walked in declared order; pool order is part of the determinism
// contract, so options must never be re-sorted. If floating-point rounding
// exhausts the walk without a pick, the first option is returned.
func WeightedChoice[T any](src *rng.Source, pool []WeightedOption[T]) T {
	var total float64
	for _, o := range pool {
		total += o.Weight
	}
	threshold := src.Next() * total
	for _, o := range pool {
		threshold -= o.Weight
		if threshold <= 0 {
			return o.Value
		}
	}
	return pool[0].Value
}

// UniqueDraw picks count distinct elements from pool by bounded rejection
// sampling: draw an index, reject repeats, give up after 3×len(pool)
// attempts. A count beyond the pool size is silently capped, and an early
// attempt exhaustion returns whatever was collected, an accepted
// probabilistic under-fill, not an error.
func UniqueDraw[T any](src *rng.Source, pool []T, count int) []T {
	if count > len(pool) {
		count = len(pool)
	}
	if count <= 0 {
		return nil
	}

	chosen := make(map[int]struct{}, count)
	out := make([]T, 0, count)
	maxAttempts := 3 * len(pool)
	for attempts := 0; len(out) < count && attempts < maxAttempts; attempts++ {
		i := src.IntRange(0, len(pool)-1)
		if _, dup := chosen[i]; dup {
			continue
		}
		chosen[i] = struct{}{}
		out = append(out, pool[i])
	}
	return out
}
