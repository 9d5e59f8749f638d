package gen

import (
	"time"

	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/hex"
	"island-npc-engine/backend/pkg/rng"
)

// Template is the minimal spawn request. Every field is optional: faction
// defaults to castaway, gender to a coin flip, age and role to faction
// draws, tile to the origin.
type Template struct {
	Faction string     `json:"faction,omitempty"`
	Gender  string     `json:"gender,omitempty"`
	Age     int        `json:"age,omitempty"`
	Role    string     `json:"role,omitempty"`
	Tile    *hex.Coord `json:"tile,omitempty"`
}

// resolvedTemplate is the template after the single defaulting step. All
// fallback decisions happen here, once, instead of scattered through the
// generators.
type resolvedTemplate struct {
	Faction models.Faction
	Gender  models.Gender
	Age     int // 0 means draw from the faction range
	Role    string
	Tile    hex.Coord
}

// resolve normalizes a template. The gender coin flip is the only RNG
// consumption, and only happens when the template leaves gender empty.
func resolve(tpl Template, src *rng.Source) resolvedTemplate {
	r := resolvedTemplate{
		Faction: models.NormalizeFaction(tpl.Faction),
		Age:     tpl.Age,
		Role:    tpl.Role,
	}
	if tpl.Gender == "" {
		if src.Next() < 0.5 {
			r.Gender = models.GenderFemale
		} else {
			r.Gender = models.GenderMale
		}
	} else {
		r.Gender = models.NormalizeGender(tpl.Gender)
	}
	if tpl.Tile != nil {
		r.Tile = *tpl.Tile
	}
	return r
}

// Pipeline assembles Character Records from the trait databases. It holds
// the session's name allocator; everything else it needs arrives per call.
type Pipeline struct {
	names *NameAllocator
}

// NewPipeline creates a pipeline around a name allocator.
func NewPipeline(names *NameAllocator) *Pipeline {
	return &Pipeline{names: names}
}

// Names exposes the allocator for persistence of the used-name set.
func (p *Pipeline) Names() *NameAllocator {
	return p.names
}

// Generate builds one Character Record from a template. The record id and
// creation time are assigned by the directory at spawn, so Generate itself
// is a pure function of (template, rng stream): identical streams yield
// identical records.
//
// Generator order is fixed: template resolution, name, appearance,
// personality, background, role, stats, skills, behavior. Reordering any
// of these changes every downstream draw.
func (p *Pipeline) Generate(tpl Template, src *rng.Source) *models.Character {
	r := resolve(tpl, src)

	name := p.names.Generate(r.Faction, r.Gender, src)
	appearance := GenerateAppearance(r.Faction, r.Gender, src)
	if r.Age > 0 {
		appearance.Age = r.Age
	}
	personality := GeneratePersonality(r.Faction, src)
	background := GenerateBackground(r.Faction, src)

	role := r.Role
	if role == "" {
		role = GenerateRole(r.Faction, src)
	}

	stats := GenerateStats(r.Faction, src)
	skills := GenerateSkills(r.Faction, src)
	behavior := GenerateBehavior(src)

	return &models.Character{
		Faction:     r.Faction,
		Role:        role,
		Name:        name,
		Appearance:  appearance,
		Personality: personality,
		Background:  background,
		Stats:       stats,
		Skills:      skills,
		Relationships: models.Relationships{
			Player:    models.NewRelationship(),
			KnownNPCs: make(map[string]*models.Relationship),
		},
		Location: r.Tile,
		State: models.State{
			Alive:    true,
			Activity: "idle",
		},
		Inventory: []string{},
		Memory: models.MemoryLog{
			Phase: models.PhaseEarly,
		},
		Behavior: behavior,
		Meta: models.Meta{
			Importance: 0.5,
		},
	}
}

// Stamp finalizes a freshly generated record with identity and creation
// time. Split out of Generate so generation stays reproducible under a
// fixed RNG stream.
func Stamp(c *models.Character, id string, now time.Time) {
	c.ID = id
	c.Meta.CreatedAt = now
	c.RefreshMood()
}
