package gen

import (
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/rng"
)

var mysteriousSkills = []string{
	"field surgery they cannot explain knowing",
	"fluent signing in a language no one here speaks",
	"celestial navigation by instinct",
	"lock-picking with improvised tools",
	"perfect-pitch birdsong mimicry",
	"knot work of a deep-sea rigger",
	"reading weather hours ahead",
}

var dreamMotifs = []string{
	"a corridor of doors that all open onto water",
	"a lighthouse with no keeper",
	"hands pulling them down through warm sand",
	"a city skyline they half recognize",
	"the same stranger waving from the treeline",
	"a song played backwards",
	"black sails on a white sea",
}

var islandIdentities = []string{
	"the quiet one by the signal fire",
	"the forager who maps the interior",
	"the keeper of the water cache",
	"the one who repairs what washes ashore",
	"the night watch",
	"the cook who stretches every ration",
}

var nativeTribes = []string{
	"Kaimana", "Te Rahu", "Vailoa", "Ngaru", "Hakirau",
}

var nativeLineages = []string{
	"descended from the first canoe",
	"of the reef-keepers' line",
	"child of the mountain clan",
	"born to the navigators",
	"of the firekeeper's house",
	"last of a healer's lineage",
}

var nativeRoles = []string{
	"fisher", "healer", "carver", "chant-keeper", "scout",
	"tattooist", "canoe-builder", "midwife", "shark-caller",
}

var sacredKnowledge = []string{
	"the tide caves where the ancestors sleep",
	"which plants dull pain and which kill",
	"the star path to the far islands",
	"the mountain's warning signs",
	"the words that calm a storm",
	"where the freshwater spring hides in drought",
}

var mercenaryRanks = []string{
	"grunt", "corporal", "sergeant", "lieutenant", "specialist", "captain",
}

var mercenarySpecs = []string{
	"demolitions", "recon", "marksmanship", "field medicine",
	"signals", "close protection", "interrogation", "logistics",
}

var mercenaryHistories = []string{
	"three tours in a war nobody names",
	"ex-military police, dishonorably discharged",
	"private security on tankers",
	"cartel escort work, never discussed",
	"peacekeeping that kept no peace",
	"a coup that failed on the second day",
}

var mercenaryMissions = []string{
	"secure the excavation site",
	"locate the missing survey team",
	"recover the flight recorder",
	"map the interior and report",
	"keep the castaways away from the ruins",
	"extract a person of interest",
}

var mercenaryContractors = []string{
	"a shell company out of Singapore",
	"an anonymous broker known only as 'Marlow'",
	"a mining concern with no listed address",
	"a collector of pre-colonial artifacts",
	"someone inside the insurance syndicate",
}

var bioOrigins = map[models.Faction][]string{
	models.FactionNative: {
		"born in the lagoon village",
		"born in the cliff settlement",
		"born during the long voyage",
		"raised on the windward shore",
	},
	models.FactionMercenary: {
		"a port city childhood",
		"an army family, always moving",
		"grew up in a mining camp",
		"raised by the state",
	},
}

var bioFormerLives = map[models.Faction][]string{
	models.FactionNative: {
		"apprenticed to an elder from a young age",
		"spent youth diving the outer reef",
		"traded with passing ships as a child",
		"tended the terraced gardens",
	},
	models.FactionMercenary: {
		"regular army before going private",
		"merchant marine before the money ran out",
		"police work before the scandal",
		"smuggling before it got organized",
	},
}

var bioDefiningEvents = map[models.Faction][]string{
	models.FactionNative: {
		"survived the great storm as a child",
		"witnessed the last eruption ceremony",
		"lost family to an outsiders' fever",
		"completed the rite of the deep dive",
	},
	models.FactionMercenary: {
		"the ambush that wiped out their first unit",
		"a contract that went very wrong",
		"the one hostage they couldn't save",
		"a payout that vanished with the broker",
	},
}

// GenerateBackground builds the faction-shaped background variant. A
// castaway has no biographical continuity: the shared fields carry the
// amnesia sentinel and the variant holds what the island gave them
// instead.
func GenerateBackground(faction models.Faction, src *rng.Source) models.Background {
	switch faction {
	case models.FactionNative:
		return models.Background{
			Kind: models.BackgroundNative,
			Bio: models.Biography{
				Origin:        rng.Choice(src, bioOrigins[faction]),
				FormerLife:    rng.Choice(src, bioFormerLives[faction]),
				DefiningEvent: rng.Choice(src, bioDefiningEvents[faction]),
			},
			Native: &models.NativeBackground{
				Tribe:           rng.Choice(src, nativeTribes),
				Lineage:         rng.Choice(src, nativeLineages),
				CulturalRole:    rng.Choice(src, nativeRoles),
				SacredKnowledge: rng.Choice(src, sacredKnowledge),
			},
		}
	case models.FactionMercenary:
		return models.Background{
			Kind: models.BackgroundMercenary,
			Bio: models.Biography{
				Origin:        rng.Choice(src, bioOrigins[faction]),
				FormerLife:    rng.Choice(src, bioFormerLives[faction]),
				DefiningEvent: rng.Choice(src, bioDefiningEvents[faction]),
			},
			Mercenary: &models.MercenaryBackground{
				Employer:        models.MercenaryEmployer,
				Rank:            rng.Choice(src, mercenaryRanks),
				Specialization:  rng.Choice(src, mercenarySpecs),
				PriorExperience: rng.Choice(src, mercenaryHistories),
				Mission:         rng.Choice(src, mercenaryMissions),
				Contractor:      rng.Choice(src, mercenaryContractors),
			},
		}
	default:
		return models.Background{
			Kind: models.BackgroundCastaway,
			Bio: models.Biography{
				Origin:        models.UnknownAmnesia,
				FormerLife:    models.UnknownAmnesia,
				DefiningEvent: models.UnknownAmnesia,
			},
			Castaway: &models.CastawayBackground{
				MysteriousSkill: rng.Choice(src, mysteriousSkills),
				DreamMotif:      rng.Choice(src, dreamMotifs),
				IslandIdentity:  rng.Choice(src, islandIdentities),
			},
		}
	}
}
