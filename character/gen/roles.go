package gen

import (
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/rng"
)

var rolePools = map[models.Faction][]WeightedOption[string]{
	models.FactionCastaway: {
		{Value: "survivor", Weight: 5},
		{Value: "scavenger", Weight: 3},
		{Value: "camp medic", Weight: 1.5},
		{Value: "lookout", Weight: 2},
		{Value: "tinkerer", Weight: 1.5},
	},
	models.FactionNative: {
		{Value: "villager", Weight: 5},
		{Value: "hunter", Weight: 3},
		{Value: "elder", Weight: 1},
		{Value: "warden of the grove", Weight: 1},
		{Value: "trader", Weight: 2},
	},
	models.FactionMercenary: {
		{Value: "soldier", Weight: 5},
		{Value: "scout", Weight: 2.5},
		{Value: "quartermaster", Weight: 1},
		{Value: "squad leader", Weight: 1.5},
		{Value: "handler", Weight: 1},
	},
}

// GenerateRole draws a faction-appropriate role. The pipeline skips this
// draw entirely when the template pins a role, keeping RNG consumption
// consistent for a given template shape.
func GenerateRole(faction models.Faction, src *rng.Source) string {
	return WeightedChoice(src, rolePools[faction])
}
