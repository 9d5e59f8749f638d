package models

// UnknownAmnesia is the sentinel biographical value for castaways, who wake
// on the island with no continuity to their former life.
const UnknownAmnesia = "unknown (amnesia)"

// MercenaryEmployer is fixed for every mercenary contract on the island.
const MercenaryEmployer = "the Syndicate"

// BackgroundKind tags which faction-shaped variant a Background carries.
type BackgroundKind string

const (
	BackgroundCastaway  BackgroundKind = "castaway"
	BackgroundNative    BackgroundKind = "native"
	BackgroundMercenary BackgroundKind = "mercenary"
)

// Biography is the shared subset every background carries. For castaways
// the continuity fields hold the amnesia sentinel.
type Biography struct {
	Origin        string `json:"origin"`
	FormerLife    string `json:"former_life"`
	DefiningEvent string `json:"defining_event"`
}

// CastawayBackground covers characters with no biographical continuity:
// what they carry instead is what the island gave them.
type CastawayBackground struct {
	MysteriousSkill string `json:"mysterious_skill"`
	DreamMotif      string `json:"dream_motif"`
	IslandIdentity  string `json:"island_identity"`
}

// NativeBackground carries tribal and cultural continuity.
type NativeBackground struct {
	Tribe           string `json:"tribe"`
	Lineage         string `json:"lineage"`
	CulturalRole    string `json:"cultural_role"`
	SacredKnowledge string `json:"sacred_knowledge"`
}

// MercenaryBackground carries the contract details. Employer is always
// MercenaryEmployer.
type MercenaryBackground struct {
	Employer        string `json:"employer"`
	Rank            string `json:"rank"`
	Specialization  string `json:"specialization"`
	PriorExperience string `json:"prior_experience"`
	Mission         string `json:"mission"`
	Contractor      string `json:"contractor"`
}

// Background is a tagged variant over faction. Exactly one of the
// faction-specific pointers is non-nil, matching Kind.
type Background struct {
	Kind      BackgroundKind       `json:"kind"`
	Bio       Biography            `json:"bio"`
	Castaway  *CastawayBackground  `json:"castaway,omitempty"`
	Native    *NativeBackground    `json:"native,omitempty"`
	Mercenary *MercenaryBackground `json:"mercenary,omitempty"`
}
