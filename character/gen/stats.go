package gen

import (
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/rng"
)

// statProfile skews the attribute draws per faction: mercenaries toward
// combat, natives toward endurance and fieldcraft, castaways balanced.
type statProfile struct {
	Strength, Agility, Endurance, Intelligence, Charisma intRange
}

var statProfiles = map[models.Faction]statProfile{
	models.FactionCastaway: {
		Strength:     intRange{30, 70},
		Agility:      intRange{30, 70},
		Endurance:    intRange{30, 70},
		Intelligence: intRange{35, 80},
		Charisma:     intRange{30, 75},
	},
	models.FactionNative: {
		Strength:     intRange{40, 75},
		Agility:      intRange{45, 85},
		Endurance:    intRange{50, 90},
		Intelligence: intRange{35, 75},
		Charisma:     intRange{35, 75},
	},
	models.FactionMercenary: {
		Strength:     intRange{50, 90},
		Agility:      intRange{45, 85},
		Endurance:    intRange{50, 85},
		Intelligence: intRange{30, 70},
		Charisma:     intRange{20, 60},
	},
}

var skillSets = map[models.Faction][]string{
	models.FactionCastaway:  {"foraging", "crafting", "first aid", "swimming"},
	models.FactionNative:    {"fishing", "herbalism", "tracking", "canoeing"},
	models.FactionMercenary: {"firearms", "tactics", "survival", "intimidation"},
}

// GenerateStats rolls the stat block: health, stamina, five attributes,
// then the three needs, in that order.
func GenerateStats(faction models.Faction, src *rng.Source) models.Stats {
	p := statProfiles[faction]
	return models.Stats{
		Health:  src.IntRange(70, 100),
		Stamina: src.IntRange(60, 100),
		Attributes: models.Attributes{
			Strength:     src.IntRange(p.Strength.Min, p.Strength.Max),
			Agility:      src.IntRange(p.Agility.Min, p.Agility.Max),
			Endurance:    src.IntRange(p.Endurance.Min, p.Endurance.Max),
			Intelligence: src.IntRange(p.Intelligence.Min, p.Intelligence.Max),
			Charisma:     src.IntRange(p.Charisma.Min, p.Charisma.Max),
		},
		Needs: models.Needs{
			Hunger: src.IntRange(50, 90),
			Thirst: src.IntRange(50, 90),
			Rest:   src.IntRange(40, 90),
		},
	}
}

// GenerateSkills assigns the faction skill set with rolled proficiency.
func GenerateSkills(faction models.Faction, src *rng.Source) map[string]int {
	skills := make(map[string]int, len(skillSets[faction]))
	for _, s := range skillSets[faction] {
		skills[s] = src.IntRange(20, 80)
	}
	return skills
}

// GenerateBehavior rolls the AI behavior scalars handed to dialogue.
func GenerateBehavior(src *rng.Source) models.AIBehavior {
	return models.AIBehavior{
		Sociability: src.IntRange(20, 90),
		Curiosity:   src.IntRange(20, 90),
		Caution:     src.IntRange(20, 90),
	}
}
