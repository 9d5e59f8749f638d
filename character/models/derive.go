package models

import "math"

// Derived metrics are pure functions over current state, recomputed on
// demand. Mood gets opportunistically cached on the record after
// relationship-affecting operations (see Character.RefreshMood).

// DeriveAggression combines disagreeableness, neuroticism, and
// dishonorability.
func DeriveAggression(c *Character) int {
	t := c.Personality.Traits
	v := c.Personality.Values
	raw := 0.4*float64(100-t.Agreeableness) +
		0.3*float64(t.Neuroticism) +
		0.3*float64(100-v.Honor)
	return int(math.Round(raw))
}

// DeriveCourage combines composure, honor, and loyalty.
func DeriveCourage(c *Character) int {
	t := c.Personality.Traits
	v := c.Personality.Values
	raw := 0.5*float64(100-t.Neuroticism) +
		0.25*float64(v.Honor) +
		0.25*float64(v.Loyalty)
	return int(math.Round(raw))
}

// DeriveMood bands the character's condition and player relationship into a
// mood label. Physical distress dominates fear, which dominates the
// opinion/trust banding.
func DeriveMood(c *Character) string {
	switch {
	case c.Stats.Health < 30:
		return "suffering"
	case c.Stats.Needs.Hunger < 30 || c.Stats.Needs.Thirst < 30:
		return "desperate"
	}

	rel := c.Relationships.Player
	if rel == nil {
		rel = NewRelationship()
	}
	switch {
	case rel.Fear > 70:
		return "terrified"
	case rel.Fear > 40:
		return "afraid"
	}

	band := float64(rel.Opinion+rel.Trust) / 2
	switch {
	case band > 80:
		return "joyful"
	case band > 60:
		return "friendly"
	case band > 40:
		return "neutral"
	case band > 20:
		return "wary"
	default:
		return "hostile"
	}
}
