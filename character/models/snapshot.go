package models

import "sort"

// KnownNPCEntry is one flattened (id, relationship) pair in a snapshot.
// The in-memory map form is flattened to an ordered list so the persisted
// payload is byte-stable across saves of the same state.
type KnownNPCEntry struct {
	ID           string       `json:"id"`
	Relationship Relationship `json:"relationship"`
}

// CharacterSnapshot is the save/load form of a Character. It is the
// Character itself plus the KnownNPCs map in flattened, id-sorted order.
type CharacterSnapshot struct {
	Character
	KnownNPCs []KnownNPCEntry `json:"known_npcs"`
}

// Snapshot produces the serializable form of a character.
func (c *Character) Snapshot() CharacterSnapshot {
	snap := CharacterSnapshot{Character: *c}

	ids := make([]string, 0, len(c.Relationships.KnownNPCs))
	for id := range c.Relationships.KnownNPCs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		snap.KnownNPCs = append(snap.KnownNPCs, KnownNPCEntry{
			ID:           id,
			Relationship: *c.Relationships.KnownNPCs[id],
		})
	}
	// The embedded copy must not alias live map state.
	snap.Character.Relationships.KnownNPCs = nil
	return snap
}

// Restore rebuilds a live Character from its snapshot form.
func (s *CharacterSnapshot) Restore() *Character {
	c := s.Character
	c.Relationships.KnownNPCs = make(map[string]*Relationship, len(s.KnownNPCs))
	for _, e := range s.KnownNPCs {
		rel := e.Relationship
		c.Relationships.KnownNPCs[e.ID] = &rel
	}
	if c.Relationships.Player == nil {
		c.Relationships.Player = NewRelationship()
	}
	return &c
}
