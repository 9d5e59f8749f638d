package models

import (
	"time"

	"island-npc-engine/backend/pkg/hex"
)

// NameRecord holds a character's generated name. The (faction, FullName)
// pair is unique within a session; the allocator in character/gen enforces
// this.
type NameRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// Appearance is the physical description block produced by generation.
// DistinctiveFeatures are drawn without replacement, so they never repeat
// within one character.
type Appearance struct {
	Gender              Gender   `json:"gender"`
	Age                 int      `json:"age"`
	HeightCM            int      `json:"height_cm"`
	SkinTone            string   `json:"skin_tone"`
	HairColor           string   `json:"hair_color"`
	HairStyle           string   `json:"hair_style"`
	HairLength          string   `json:"hair_length"`
	EyeColor            string   `json:"eye_color"`
	Build               string   `json:"build"`
	Clothing            string   `json:"clothing"`
	DistinctiveFeatures []string `json:"distinctive_features"`

	// PortraitRef is written back by the image-generation side channel.
	// Empty until a portrait has been produced.
	PortraitRef string `json:"portrait_ref,omitempty"`
}

// Traits are the five personality axes, each bounded by a faction-specific
// range at generation time.
type Traits struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

// Values are the moral scalars used by the derived aggression/courage
// metrics.
type Values struct {
	Honor   int `json:"honor"`
	Loyalty int `json:"loyalty"`
}

// Sexuality is the generated sexuality sub-record.
type Sexuality struct {
	Orientation string   `json:"orientation"`
	Dominance   int      `json:"dominance"`
	Intensity   int      `json:"intensity"`
	Interests   []string `json:"interests"`
}

// Personality groups traits, values, and the flavor lists drawn from the
// faction pools.
type Personality struct {
	Traits      Traits    `json:"traits"`
	Values      Values    `json:"values"`
	Sexuality   Sexuality `json:"sexuality"`
	Quirks      []string  `json:"quirks"`
	Fears       []string  `json:"fears"`
	Desires     []string  `json:"desires"`
	Motivations []string  `json:"motivations"`
}

// Attributes are the physical/mental stat block.
type Attributes struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Endurance    int `json:"endurance"`
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
}

// Needs track survival pressures; they feed mood derivation.
type Needs struct {
	Hunger int `json:"hunger"`
	Thirst int `json:"thirst"`
	Rest   int `json:"rest"`
}

// Stats is the character's physical condition.
type Stats struct {
	Health     int        `json:"health"`
	Stamina    int        `json:"stamina"`
	Attributes Attributes `json:"attributes"`
	Needs      Needs      `json:"needs"`
}

// State is the mutable status block.
type State struct {
	Alive    bool            `json:"alive"`
	Mood     string          `json:"mood"`
	Activity string          `json:"activity"`
	Flags    map[string]bool `json:"flags,omitempty"`
}

// AIBehavior holds the behavior-tuning scalars handed to the dialogue
// layer. Aggression and courage are derived on demand, not stored here.
type AIBehavior struct {
	Sociability int `json:"sociability"`
	Curiosity   int `json:"curiosity"`
	Caution     int `json:"caution"`
}

// Meta is bookkeeping about the record itself. Backstory and Secrets are
// filled by enrichment only, and only additively: deterministic fields are
// never overwritten.
type Meta struct {
	Importance float64   `json:"importance"`
	AIEnriched bool      `json:"ai_enriched"`
	Backstory  string    `json:"backstory,omitempty"`
	Secrets    []string  `json:"secrets,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Relationships bundles the scalars toward the player and the non-owning
// id-keyed map toward other characters. Entries in KnownNPCs are lookups
// into the population directory, never embedded records; a despawned id may
// linger here and a lookup miss means "no longer present".
type Relationships struct {
	Player    *Relationship            `json:"player"`
	KnownNPCs map[string]*Relationship `json:"-"`
}

// Character is the aggregate record for one NPC. Records are owned
// exclusively by the population directory; everything else refers to them
// by id. Mutation is single-caller; the engine holds no locks.
type Character struct {
	ID            string         `json:"id"`
	Faction       Faction        `json:"faction"`
	Role          string         `json:"role"`
	Name          NameRecord     `json:"name"`
	Appearance    Appearance     `json:"appearance"`
	Personality   Personality    `json:"personality"`
	Background    Background     `json:"background"`
	Stats         Stats          `json:"stats"`
	Skills        map[string]int `json:"skills"`
	Relationships Relationships  `json:"relationships"`
	Location      hex.Coord      `json:"location"`
	State         State          `json:"state"`
	Inventory     []string       `json:"inventory"`
	Memory        MemoryLog      `json:"memory"`
	Behavior      AIBehavior     `json:"behavior"`
	Meta          Meta           `json:"meta"`
}

// RelationshipWith returns the scalars this character holds toward another
// id, creating a neutral entry on first contact.
func (c *Character) RelationshipWith(id string) *Relationship {
	if c.Relationships.KnownNPCs == nil {
		c.Relationships.KnownNPCs = make(map[string]*Relationship)
	}
	rel, ok := c.Relationships.KnownNPCs[id]
	if !ok {
		rel = NewRelationship()
		c.Relationships.KnownNPCs[id] = rel
	}
	return rel
}

// RefreshMood recomputes and caches the mood string. Mood is always
// recomputable from current state; the cache just avoids rederiving it on
// every read between relationship changes.
func (c *Character) RefreshMood() string {
	c.State.Mood = DeriveMood(c)
	return c.State.Mood
}
