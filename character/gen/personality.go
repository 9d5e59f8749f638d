package gen

import (
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/rng"
)

// traitBounds bounds each of the five axes per faction.
type traitBounds struct {
	Openness          intRange
	Conscientiousness intRange
	Extraversion      intRange
	Agreeableness     intRange
	Neuroticism       intRange
}

var traitRanges = map[models.Faction]traitBounds{
	models.FactionCastaway: {
		Openness:          intRange{40, 90},
		Conscientiousness: intRange{30, 80},
		Extraversion:      intRange{30, 80},
		Agreeableness:     intRange{40, 85},
		Neuroticism:       intRange{35, 90},
	},
	models.FactionNative: {
		Openness:          intRange{30, 75},
		Conscientiousness: intRange{50, 90},
		Extraversion:      intRange{35, 80},
		Agreeableness:     intRange{45, 90},
		Neuroticism:       intRange{15, 60},
	},
	models.FactionMercenary: {
		Openness:          intRange{30, 70},
		Conscientiousness: intRange{55, 95},
		Extraversion:      intRange{25, 75},
		Agreeableness:     intRange{15, 60},
		Neuroticism:       intRange{25, 70},
	},
}

var valueRanges = map[models.Faction]struct {
	Honor   intRange
	Loyalty intRange
}{
	models.FactionCastaway:  {Honor: intRange{30, 85}, Loyalty: intRange{25, 80}},
	models.FactionNative:    {Honor: intRange{55, 95}, Loyalty: intRange{60, 95}},
	models.FactionMercenary: {Honor: intRange{15, 65}, Loyalty: intRange{35, 90}},
}

var orientations = []WeightedOption[string]{
	{Value: "heterosexual", Weight: 70},
	{Value: "bisexual", Weight: 15},
	{Value: "homosexual", Weight: 10},
	{Value: "asexual", Weight: 5},
}

var romanticInterests = []string{
	"long walks at dusk", "stargazing", "storytelling by firelight",
	"shared silence", "teasing banter", "acts of protection",
	"gift-giving", "dancing", "swimming together", "whispered secrets",
}

var quirkPools = map[models.Faction][]string{
	models.FactionCastaway: {
		"hoards bottle caps", "talks to the ocean", "sleeps facing the shore",
		"hums a tune they cannot place", "writes letters no one will read",
		"refuses to eat fish heads", "names every gull on the beach",
		"keeps a pebble from the day they woke",
	},
	models.FactionNative: {
		"touches the earth before speaking of the dead",
		"will not point at the moon", "hums planting songs while working",
		"collects unusual shells", "reads omens in bird flight",
		"never steps over a sleeping person", "whistles to the wind",
		"braids leaves while thinking",
	},
	models.FactionMercenary: {
		"cleans their weapon twice a day", "sits facing the door",
		"counts ammunition aloud", "sharpens knives when anxious",
		"never says goodbyes", "sleeps in boots",
		"checks the perimeter before eating", "collects enemy insignia",
	},
}

var fearPools = map[models.Faction][]string{
	models.FactionCastaway: {
		"the open ocean at night", "forgetting their own face",
		"being the last one left", "the dreams coming true",
		"deep water", "never being found", "the island itself",
		"remembering who they were",
	},
	models.FactionNative: {
		"angering the ancestors", "the sacred grove falling silent",
		"outsiders' diseases", "the fish leaving the reef",
		"dying away from the island", "broken taboos",
		"the mountain smoking again", "losing the old songs",
	},
	models.FactionMercenary: {
		"dying for nothing", "capture and interrogation",
		"going soft", "the contract being a lie",
		"owing anyone anything", "jungle rot", "friendly fire",
		"being the last of the unit",
	},
}

var desirePools = map[models.Faction][]string{
	models.FactionCastaway: {
		"to remember", "rescue", "a reason to stay",
		"one good night's sleep", "to build something lasting",
		"to decode the dreams", "someone who believes them",
		"a map off the island",
	},
	models.FactionNative: {
		"to protect the sacred places", "a worthy heir to the traditions",
		"peace with the outsiders", "the chief's respect",
		"a bountiful season", "to master the old knowledge",
		"to see the far islands", "a strong family",
	},
	models.FactionMercenary: {
		"one last big payout", "a clean exit from the life",
		"revenge on the contractor", "a crew worth trusting",
		"to finish the mission", "a quiet piece of land somewhere",
		"their name cleared", "to outlive the contract",
	},
}

var motivationPools = map[models.Faction][]string{
	models.FactionCastaway: {
		"survival", "recovering the past", "belonging",
		"understanding the island", "escape",
	},
	models.FactionNative: {
		"duty to the tribe", "honoring the ancestors", "guarding the land",
		"curiosity about the newcomers", "prestige",
	},
	models.FactionMercenary: {
		"the paycheck", "professional pride", "loyalty to the unit",
		"ambition", "self-preservation",
	},
}

// GeneratePersonality builds the trait/value/flavor block. RNG call order
// is fixed: five traits, two values, orientation, dominance, intensity,
// interest count, interests, then quirk/fear/desire counts and draws, then
// motivations.
func GeneratePersonality(faction models.Faction, src *rng.Source) models.Personality {
	tb := traitRanges[faction]
	vb := valueRanges[faction]

	p := models.Personality{
		Traits: models.Traits{
			Openness:          src.IntRange(tb.Openness.Min, tb.Openness.Max),
			Conscientiousness: src.IntRange(tb.Conscientiousness.Min, tb.Conscientiousness.Max),
			Extraversion:      src.IntRange(tb.Extraversion.Min, tb.Extraversion.Max),
			Agreeableness:     src.IntRange(tb.Agreeableness.Min, tb.Agreeableness.Max),
			Neuroticism:       src.IntRange(tb.Neuroticism.Min, tb.Neuroticism.Max),
		},
		Values: models.Values{
			Honor:   src.IntRange(vb.Honor.Min, vb.Honor.Max),
			Loyalty: src.IntRange(vb.Loyalty.Min, vb.Loyalty.Max),
		},
	}

	p.Sexuality = models.Sexuality{
		Orientation: WeightedChoice(src, orientations),
		Dominance:   src.IntRange(10, 90),
		Intensity:   src.IntRange(20, 90),
	}
	interestCount := src.IntRange(2, 4)
	p.Sexuality.Interests = UniqueDraw(src, romanticInterests, interestCount)

	p.Quirks = UniqueDraw(src, quirkPools[faction], src.IntRange(2, 3))
	p.Fears = UniqueDraw(src, fearPools[faction], src.IntRange(2, 3))
	p.Desires = UniqueDraw(src, desirePools[faction], src.IntRange(2, 3))
	p.Motivations = UniqueDraw(src, motivationPools[faction], 2)

	return p
}
