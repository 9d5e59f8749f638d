package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdjustClampsAllScalars(t *testing.T) {
	r := NewRelationship()

	// Arbitrary sequences never escape the ranges.
	deltas := []RelationshipDelta{
		{Opinion: 500, Trust: 500, Respect: 500, Fear: 500, Romantic: 500},
		{Opinion: -1000, Trust: -1000, Respect: -1000, Fear: -1000, Romantic: -1000},
		{Opinion: 37, Trust: -3, Fear: 12},
		{Opinion: -250},
		{Opinion: 175, Trust: 90, Respect: 101, Fear: -7, Romantic: 42},
	}
	for _, d := range deltas {
		r.Adjust(d)
		assert.GreaterOrEqual(t, r.Opinion, -100)
		assert.LessOrEqual(t, r.Opinion, 100)
		for _, v := range []int{r.Trust, r.Respect, r.Fear, r.Romantic} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
	}
}

func TestTouchTracksInteractions(t *testing.T) {
	r := NewRelationship()
	first := time.Now()
	later := first.Add(time.Hour)

	r.Touch(first)
	r.Touch(later)

	assert.Equal(t, 2, r.InteractionCount)
	assert.Equal(t, first, r.FirstInteraction)
	assert.Equal(t, later, r.LastInteraction)
}

func TestPhaseThresholds(t *testing.T) {
	tests := []struct {
		name                     string
		opinion, trust, romantic int
		want                     ConversationPhase
	}{
		{"stranger", 0, 20, 0, PhaseEarly},
		{"just over familiar", 60, 40, 25, PhaseFamiliar}, // avg 41.67
		{"exactly 40 stays early", 40, 40, 40, PhaseEarly},
		{"exactly 70 stays familiar", 70, 70, 70, PhaseFamiliar},
		{"intimate", 90, 80, 50, PhaseIntimate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Relationship{Opinion: tt.opinion, Trust: tt.trust, Romantic: tt.romantic}
			assert.Equal(t, tt.want, PhaseFor(r))
		})
	}
}

func TestPhaseRegresses(t *testing.T) {
	r := &Relationship{Opinion: 90, Trust: 80, Romantic: 60}
	assert.Equal(t, PhaseIntimate, PhaseFor(r))

	// No latch: falling scalars pull the phase straight back down.
	r.Adjust(RelationshipDelta{Opinion: -120, Trust: -60, Romantic: -60})
	assert.Equal(t, PhaseEarly, PhaseFor(r))

	r.Adjust(RelationshipDelta{Opinion: 80, Trust: 50, Romantic: 30})
	assert.Equal(t, PhaseFamiliar, PhaseFor(r))
}
