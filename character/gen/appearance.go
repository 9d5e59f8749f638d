package gen

import (
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/rng"
)

// intRange is an inclusive [Min, Max] bound for integer draws.
type intRange struct {
	Min, Max int
}

var ageRanges = map[models.Faction]intRange{
	models.FactionCastaway:  {18, 50},
	models.FactionNative:    {16, 60},
	models.FactionMercenary: {25, 45},
}

var heightRanges = map[models.Gender]intRange{
	models.GenderMale:   {165, 195},
	models.GenderFemale: {152, 182},
}

var skinTones = map[models.Faction][]WeightedOption[string]{
	models.FactionCastaway: {
		{Value: "pale", Weight: 2},
		{Value: "fair", Weight: 4},
		{Value: "tanned", Weight: 3},
		{Value: "olive", Weight: 2},
		{Value: "brown", Weight: 2},
	},
	models.FactionNative: {
		{Value: "bronze", Weight: 4},
		{Value: "brown", Weight: 4},
		{Value: "deep brown", Weight: 3},
		{Value: "golden", Weight: 2},
	},
	models.FactionMercenary: {
		{Value: "weathered tan", Weight: 4},
		{Value: "fair", Weight: 2},
		{Value: "olive", Weight: 3},
		{Value: "brown", Weight: 2},
		{Value: "scarred pale", Weight: 1},
	},
}

var hairColors = map[models.Faction][]WeightedOption[string]{
	models.FactionCastaway: {
		{Value: "brown", Weight: 4},
		{Value: "black", Weight: 3},
		{Value: "blonde", Weight: 2},
		{Value: "auburn", Weight: 1.5},
		{Value: "red", Weight: 0.8},
		{Value: "graying", Weight: 0.7},
	},
	models.FactionNative: {
		{Value: "black", Weight: 6},
		{Value: "dark brown", Weight: 3},
		{Value: "sun-bleached black", Weight: 1},
	},
	models.FactionMercenary: {
		{Value: "black", Weight: 3},
		{Value: "brown", Weight: 3},
		{Value: "shaved", Weight: 2},
		{Value: "blonde", Weight: 1},
		{Value: "graying", Weight: 1.5},
	},
}

var hairStyles = map[models.Gender][]WeightedOption[string]{
	models.GenderMale: {
		{Value: "cropped", Weight: 3},
		{Value: "tousled", Weight: 3},
		{Value: "tied back", Weight: 2},
		{Value: "braided", Weight: 1},
		{Value: "matted", Weight: 1},
	},
	models.GenderFemale: {
		{Value: "loose", Weight: 3},
		{Value: "braided", Weight: 3},
		{Value: "tied back", Weight: 2.5},
		{Value: "cropped", Weight: 1},
		{Value: "windswept", Weight: 1.5},
	},
}

var hairLengths = map[models.Gender][]WeightedOption[string]{
	models.GenderMale: {
		{Value: "short", Weight: 4},
		{Value: "medium", Weight: 2.5},
		{Value: "long", Weight: 1},
	},
	models.GenderFemale: {
		{Value: "short", Weight: 1},
		{Value: "medium", Weight: 3},
		{Value: "long", Weight: 4},
	},
}

var eyeColors = []WeightedOption[string]{
	{Value: "brown", Weight: 5},
	{Value: "dark brown", Weight: 3},
	{Value: "hazel", Weight: 2},
	{Value: "green", Weight: 1.5},
	{Value: "blue", Weight: 1.5},
	{Value: "gray", Weight: 1},
}

var builds = map[models.Gender][]WeightedOption[string]{
	models.GenderMale: {
		{Value: "lean", Weight: 3},
		{Value: "wiry", Weight: 2.5},
		{Value: "muscular", Weight: 2},
		{Value: "stocky", Weight: 1.5},
		{Value: "gaunt", Weight: 1},
	},
	models.GenderFemale: {
		{Value: "slender", Weight: 3},
		{Value: "lean", Weight: 2.5},
		{Value: "athletic", Weight: 2},
		{Value: "curvy", Weight: 1.5},
		{Value: "wiry", Weight: 1},
	},
}

// clothing is a uniform pool keyed by faction and gender.
var clothing = map[models.Faction]map[models.Gender][]string{
	models.FactionCastaway: {
		models.GenderMale: {
			"torn shirt and salt-stained trousers",
			"improvised poncho of sailcloth",
			"rolled-up sleeves and frayed shorts",
			"a weathered jacket over bare chest",
		},
		models.GenderFemale: {
			"a salt-bleached sundress, hemmed with twine",
			"torn blouse and cut-off trousers",
			"sailcloth wrap and a frayed straw hat",
			"an oversized shirt belted with rope",
		},
	},
	models.FactionNative: {
		models.GenderMale: {
			"a woven bark-fiber kilt and shell necklace",
			"tapa cloth wrap with bone ornaments",
			"a fisherman's loincloth and reed armbands",
			"ceremonial feathered sash over plain wrap",
		},
		models.GenderFemale: {
			"a pandanus-leaf skirt and flower lei",
			"tapa cloth dress with shell beading",
			"woven top and dyed fiber skirt",
			"ceremonial wrap with feather trim",
		},
	},
	models.FactionMercenary: {
		models.GenderMale: {
			"faded fatigues and a cut-down plate carrier",
			"black tactical gear, sleeves torn off",
			"jungle camo and a battered boonie hat",
			"a scavenged uniform with mismatched webbing",
		},
		models.GenderFemale: {
			"fitted fatigues and a sidearm rig",
			"jungle camo with a bandana at the throat",
			"black tactical gear and fingerless gloves",
			"a patched uniform jacket over field trousers",
		},
	},
}

// distinctiveFeatures is a uniform pool keyed by faction; 2-3 are drawn
// without replacement at generation.
var distinctiveFeatures = map[models.Faction][]string{
	models.FactionCastaway: {
		"a sunburn that never quite heals",
		"rope-callused hands",
		"a thousand-yard stare toward the horizon",
		"a faded wristwatch stopped at 3:12",
		"salt-cracked lips",
		"an old scar of unknown origin",
		"nervous habit of counting waves",
		"a locket they cannot remember receiving",
	},
	models.FactionNative: {
		"intricate tattoos tracing the left arm",
		"a carved bone pendant",
		"ritual scarification across the shoulders",
		"eyes that track the weather",
		"dye-stained fingertips",
		"a ceremonial tooth inlay",
		"braided cord worn at the ankle",
		"a voice trained for chant",
	},
	models.FactionMercenary: {
		"a bullet scar below the collarbone",
		"dog tags with the name filed off",
		"a burn mark along the jaw",
		"knuckles split and re-split",
		"a tattooed unit insignia, inked over",
		"one ear deafened by blast",
		"trigger-finger calluses",
		"a limp that worsens in rain",
	},
}

// GenerateAppearance builds the physical description block. RNG call order
// is fixed: age, height, skin, hair color/style/length, eyes, build,
// clothing, feature count, features.
func GenerateAppearance(faction models.Faction, gender models.Gender, src *rng.Source) models.Appearance {
	lookup := models.LookupGender(gender)

	ar := ageRanges[faction]
	hr := heightRanges[lookup]

	app := models.Appearance{
		Gender:     gender,
		Age:        src.IntRange(ar.Min, ar.Max),
		HeightCM:   src.IntRange(hr.Min, hr.Max),
		SkinTone:   WeightedChoice(src, skinTones[faction]),
		HairColor:  WeightedChoice(src, hairColors[faction]),
		HairStyle:  WeightedChoice(src, hairStyles[lookup]),
		HairLength: WeightedChoice(src, hairLengths[lookup]),
		EyeColor:   WeightedChoice(src, eyeColors),
		Build:      WeightedChoice(src, builds[lookup]),
		Clothing:   rng.Choice(src, clothing[faction][lookup]),
	}

	featureCount := src.IntRange(2, 3)
	app.DistinctiveFeatures = UniqueDraw(src, distinctiveFeatures[faction], featureCount)
	return app
}
