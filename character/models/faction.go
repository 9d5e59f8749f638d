package models

import "strings"

// Faction is the closed classification driving every trait pool.
type Faction string

const (
	FactionCastaway  Faction = "castaway"
	FactionNative    Faction = "native"
	FactionMercenary Faction = "mercenary"
)

// Factions lists the valid factions in a stable order.
var Factions = []Faction{FactionCastaway, FactionNative, FactionMercenary}

// NormalizeFaction maps a raw identifier onto the closed faction set.
// Unrecognized input falls back to castaway rather than erroring.
func NormalizeFaction(raw string) Faction {
	switch Faction(strings.ToLower(strings.TrimSpace(raw))) {
	case FactionNative:
		return FactionNative
	case FactionMercenary:
		return FactionMercenary
	case FactionCastaway:
		return FactionCastaway
	default:
		return FactionCastaway
	}
}

// Gender is the recorded gender of a character. Trait lookup for values
// outside the known set falls back to the female pools, but the original
// value is preserved on the record.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// NormalizeGender lowercases and trims a raw gender string. It does not
// collapse unknown values; pool lookup handles the fallback so the record
// keeps what the caller asked for.
func NormalizeGender(raw string) Gender {
	return Gender(strings.ToLower(strings.TrimSpace(raw)))
}

// LookupGender returns the gender to use for pool lookups: male stays male,
// everything else uses the female pools.
func LookupGender(g Gender) Gender {
	if g == GenderMale {
		return GenderMale
	}
	return GenderFemale
}
