package gen

import (
	"fmt"
	"sort"

	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/logger"
	"island-npc-engine/backend/pkg/rng"
)

// maleFirstNames, femaleFirstNames, and lastNames index the name pools by
// faction. Unknown gender uses the female pool; unknown faction was already
// normalized to castaway upstream.
var maleFirstNames = map[models.Faction][]string{
	models.FactionCastaway: {
		"Adam", "Ben", "Carter", "Daniel", "Elliott", "Finn", "Gabriel",
		"Harry", "Isaac", "Jonah", "Lucas", "Marcus", "Nathan", "Oliver",
		"Patrick", "Quentin", "Reuben", "Samuel", "Theo", "Victor",
	},
	models.FactionNative: {
		"Akamu", "Etano", "Hiko", "Ioane", "Kainoa", "Keanu", "Lotu",
		"Manu", "Moana", "Ngata", "Rangi", "Tane", "Tavita", "Temana",
		"Tui", "Vailea",
	},
	models.FactionMercenary: {
		"Axel", "Brock", "Cole", "Dmitri", "Erik", "Gunnar", "Hale",
		"Jax", "Kane", "Lars", "Magnus", "Niko", "Reyes", "Silas",
		"Vance", "Wade",
	},
}

var femaleFirstNames = map[models.Faction][]string{
	models.FactionCastaway: {
		"Alice", "Beth", "Clara", "Daphne", "Elena", "Faye", "Grace",
		"Hazel", "Iris", "June", "Kate", "Lily", "Mara", "Nora",
		"Olivia", "Penny", "Rose", "Sadie", "Tess", "Vera",
	},
	models.FactionNative: {
		"Alana", "Hina", "Kailani", "Kiona", "Leilani", "Lani", "Maeva",
		"Malia", "Moea", "Nalani", "Noelani", "Sina", "Teuila", "Uila",
		"Vaiana", "Waina",
	},
	models.FactionMercenary: {
		"Ada", "Briar", "Cass", "Dara", "Freya", "Greta", "Ingrid",
		"Jona", "Kira", "Lena", "Mika", "Nadia", "Petra", "Sloane",
		"Valka", "Zara",
	},
}

var lastNames = map[models.Faction][]string{
	models.FactionCastaway: {
		"Ashford", "Blake", "Carver", "Dunmore", "Ellery", "Fairchild",
		"Gray", "Hollis", "Ingram", "Kessler", "Lane", "Merrow",
		"Norwood", "Pemberton", "Quill", "Rourke", "Sutton", "Thorne",
		"Vale", "Whitlock",
	},
	models.FactionNative: {
		"Ahoturu", "Faleolo", "Kahale", "Kealoha", "Mahelona", "Maivia",
		"Ngatai", "Paraone", "Tagaloa", "Taufa", "Te Ariki", "Tuilagi",
		"Vaka", "Waititi",
	},
	models.FactionMercenary: {
		"Asher", "Blackwood", "Creed", "Drake", "Frost", "Graves",
		"Holt", "Kessek", "Locke", "Mercer", "Pike", "Ryker", "Steele",
		"Voss", "Wolfe", "Zoric",
	},
}

// nameRetryLimit bounds how many draws Generate makes while seeking an
// unused (faction, full name) pair.
const nameRetryLimit = 1000

// NameAllocator hands out names and tracks the used (faction, fullName)
// combinations for a session. It is an explicit, serializable object (the
// directory owns one and threads it through the pipeline), so tests and
// save/load never share hidden global state.
type NameAllocator struct {
	used map[string]struct{}
	log  *logger.Logger
}

// NewNameAllocator creates an allocator with an empty used set.
func NewNameAllocator(log *logger.Logger) *NameAllocator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &NameAllocator{
		used: make(map[string]struct{}),
		log:  log,
	}
}

func usedKey(faction models.Faction, fullName string) string {
	return fmt.Sprintf("%s:%s", faction, fullName)
}

// Generate draws a first and last name independently and retries until the
// (faction, fullName) pair is unused, marking it used atomically with
// selection. Once the retry budget is exhausted the name space is treated
// as full: a duplicate is returned with a logged warning rather than an
// error.
func (a *NameAllocator) Generate(faction models.Faction, gender models.Gender, src *rng.Source) models.NameRecord {
	firsts := femaleFirstNames[faction]
	if models.LookupGender(gender) == models.GenderMale {
		firsts = maleFirstNames[faction]
	}
	lasts := lastNames[faction]

	var rec models.NameRecord
	for attempt := 0; attempt < nameRetryLimit; attempt++ {
		first := rng.Choice(src, firsts)
		last := rng.Choice(src, lasts)
		rec = models.NameRecord{
			FirstName: first,
			LastName:  last,
			FullName:  first + " " + last,
		}
		key := usedKey(faction, rec.FullName)
		if _, taken := a.used[key]; !taken {
			a.used[key] = struct{}{}
			return rec
		}
	}

	a.log.Warn("name space exhausted, issuing duplicate name",
		"faction", string(faction), "name", rec.FullName)
	return rec
}

// IsUsed reports whether a (faction, fullName) pair has been issued.
func (a *NameAllocator) IsUsed(faction models.Faction, fullName string) bool {
	_, ok := a.used[usedKey(faction, fullName)]
	return ok
}

// Used returns the used-combination keys in sorted order for persistence.
func (a *NameAllocator) Used() []string {
	keys := make([]string, 0, len(a.used))
	for k := range a.used {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RestoreUsed reloads the used set from a persisted key list, replacing
// the current contents. Reloaded sessions never reissue a restored name.
func (a *NameAllocator) RestoreUsed(keys []string) {
	a.used = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		a.used[k] = struct{}{}
	}
}
