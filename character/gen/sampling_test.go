package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-npc-engine/backend/pkg/rng"
)

func TestWeightedChoiceConvergesToRatios(t *testing.T) {
	src := rng.New(1234)
	pool := []WeightedOption[string]{
		{Value: "common", Weight: 6},
		{Value: "uncommon", Weight: 3},
		{Value: "rare", Weight: 1},
	}

	const draws = 100000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[WeightedChoice(src, pool)]++
	}

	assert.InDelta(t, 0.6, float64(counts["common"])/draws, 0.02)
	assert.InDelta(t, 0.3, float64(counts["uncommon"])/draws, 0.02)
	assert.InDelta(t, 0.1, float64(counts["rare"])/draws, 0.02)
}

func TestWeightedChoiceSingleOption(t *testing.T) {
	src := rng.New(5)
	pool := []WeightedOption[int]{{Value: 42, Weight: 0.25}}
	for i := 0; i < 100; i++ {
		assert.Equal(t, 42, WeightedChoice(src, pool))
	}
}

func TestWeightedChoiceDeterministic(t *testing.T) {
	pool := []WeightedOption[string]{
		{Value: "a", Weight: 1},
		{Value: "b", Weight: 2},
		{Value: "c", Weight: 3},
	}
	a := rng.New(77)
	b := rng.New(77)
	for i := 0; i < 500; i++ {
		assert.Equal(t, WeightedChoice(a, pool), WeightedChoice(b, pool))
	}
}

func TestUniqueDrawNoDuplicates(t *testing.T) {
	src := rng.New(9)
	pool := []string{"scar", "tattoo", "limp", "eyepatch", "burn", "brand"}

	for i := 0; i < 200; i++ {
		got := UniqueDraw(src, pool, 3)
		require.Len(t, got, 3)
		seen := map[string]bool{}
		for _, v := range got {
			assert.False(t, seen[v], "duplicate %q in %v", v, got)
			seen[v] = true
		}
	}
}

func TestUniqueDrawCapsAtPoolSize(t *testing.T) {
	src := rng.New(3)
	pool := []int{1, 2}
	got := UniqueDraw(src, pool, 10)
	assert.LessOrEqual(t, len(got), 2)
}

func TestUniqueDrawEmptyPool(t *testing.T) {
	src := rng.New(3)
	assert.Nil(t, UniqueDraw(src, []int{}, 3))
	assert.Nil(t, UniqueDraw(src, []int{1, 2, 3}, 0))
}
