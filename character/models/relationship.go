package models

import "time"

// Relationship is the scalar bundle one character holds toward the player
// or toward another character. Opinion spans [-100,100]; the rest span
// [0,100]. Every mutation clamps back into range, so arbitrary adjustment
// sequences can never push a scalar out of bounds.
type Relationship struct {
	Opinion  int `json:"opinion"`
	Trust    int `json:"trust"`
	Respect  int `json:"respect"`
	Fear     int `json:"fear"`
	Romantic int `json:"romantic"`

	InteractionCount int       `json:"interaction_count"`
	FirstInteraction time.Time `json:"first_interaction,omitempty"`
	LastInteraction  time.Time `json:"last_interaction,omitempty"`
}

// RelationshipDelta is a signed adjustment applied to a Relationship.
type RelationshipDelta struct {
	Opinion  int `json:"opinion,omitempty"`
	Trust    int `json:"trust,omitempty"`
	Respect  int `json:"respect,omitempty"`
	Fear     int `json:"fear,omitempty"`
	Romantic int `json:"romantic,omitempty"`
}

// NewRelationship returns the neutral starting scalars.
func NewRelationship() *Relationship {
	return &Relationship{
		Opinion:  0,
		Trust:    20,
		Respect:  20,
		Fear:     0,
		Romantic: 0,
	}
}

// Adjust applies a delta and clamps every scalar into its range.
func (r *Relationship) Adjust(d RelationshipDelta) {
	r.Opinion = clamp(r.Opinion+d.Opinion, -100, 100)
	r.Trust = clamp(r.Trust+d.Trust, 0, 100)
	r.Respect = clamp(r.Respect+d.Respect, 0, 100)
	r.Fear = clamp(r.Fear+d.Fear, 0, 100)
	r.Romantic = clamp(r.Romantic+d.Romantic, 0, 100)
}

// Touch records an interaction happening now.
func (r *Relationship) Touch(now time.Time) {
	if r.FirstInteraction.IsZero() {
		r.FirstInteraction = now
	}
	r.LastInteraction = now
	r.InteractionCount++
}

// ConversationPhase is the coarse intimacy stage of a character's dialogue
// with the player.
type ConversationPhase string

const (
	PhaseEarly    ConversationPhase = "early"
	PhaseFamiliar ConversationPhase = "familiar"
	PhaseIntimate ConversationPhase = "intimate"
)

// PhaseFor recomputes the conversation phase from current scalars. It is a
// pure function with no hysteresis: the phase regresses as readily as it
// advances when scalars fall.
func PhaseFor(r *Relationship) ConversationPhase {
	score := float64(r.Opinion+r.Trust+r.Romantic) / 3
	switch {
	case score > 70:
		return PhaseIntimate
	case score > 40:
		return PhaseFamiliar
	default:
		return PhaseEarly
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
