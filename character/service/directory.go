// Package service implements the population directory: the owning index of
// all Character Records plus their spawn/despawn lifecycle and save/load.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"island-npc-engine/backend/character/gen"
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/hex"
	"island-npc-engine/backend/pkg/logger"
	"island-npc-engine/backend/pkg/rng"
)

// DefaultPopulationCap is the spawn limit when the config leaves it unset.
const DefaultPopulationCap = 50

// ErrPopulationFull rejects spawns at the cap.
var ErrPopulationFull = errors.New("population cap reached")

// Enricher is the optional AI pass run at spawn. Enrichment is additive
// only: it may append backstory, quirks, or secrets but never overwrites
// deterministic fields. Failures degrade gracefully.
type Enricher interface {
	Enrich(ctx context.Context, c *models.Character) error
}

// DirectoryConfig configures a Directory.
type DirectoryConfig struct {
	Cap  int
	Seed int64
}

// Directory owns every Character Record and the id/tile/faction indices
// over them. All other components refer to characters by id through it.
// It assumes a single logical caller; the host serializes access.
type Directory struct {
	cap      int
	src      *rng.Source
	pipeline *gen.Pipeline
	enricher Enricher
	log      *logger.Logger

	byID      map[string]*models.Character
	byTile    map[hex.Coord][]string
	byFaction map[models.Faction][]string
}

// NewDirectory creates a directory with its own generation pipeline and
// RNG stream seeded from cfg.Seed.
func NewDirectory(cfg DirectoryConfig, enricher Enricher, log *logger.Logger) *Directory {
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultPopulationCap
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Directory{
		cap:       cfg.Cap,
		src:       rng.New(cfg.Seed),
		pipeline:  gen.NewPipeline(gen.NewNameAllocator(log)),
		enricher:  enricher,
		log:       log,
		byID:      make(map[string]*models.Character),
		byTile:    make(map[hex.Coord][]string),
		byFaction: make(map[models.Faction][]string),
	}
}

// Spawn generates a character from the template and inserts it into all
// three indices together. The spawn is rejected outright at the population
// cap. Enrichment is best-effort: a failure leaves the deterministic
// fields untouched and the AIEnriched flag cleared.
func (d *Directory) Spawn(ctx context.Context, tpl gen.Template) (*models.Character, error) {
	if len(d.byID) >= d.cap {
		return nil, ErrPopulationFull
	}

	c := d.pipeline.Generate(tpl, d.src)
	gen.Stamp(c, uuid.NewString(), time.Now())

	if d.enricher != nil {
		if err := d.enricher.Enrich(ctx, c); err != nil {
			c.Meta.AIEnriched = false
			d.log.WithCharacterID(c.ID).Warn("enrichment failed, keeping deterministic record",
				"error", err.Error())
		} else {
			c.Meta.AIEnriched = true
		}
	}

	d.insert(c)
	return c, nil
}

func (d *Directory) insert(c *models.Character) {
	d.byID[c.ID] = c
	d.byTile[c.Location] = append(d.byTile[c.Location], c.ID)
	d.byFaction[c.Faction] = append(d.byFaction[c.Faction], c.ID)
}

// Despawn removes a character from all indices. It does not cascade into
// other records' relationship maps; those may retain the dangling id, and
// consumers treat a lookup miss as "no longer present". Unknown ids are a
// no-op.
func (d *Directory) Despawn(id string) bool {
	c, ok := d.byID[id]
	if !ok {
		return false
	}
	delete(d.byID, id)
	d.byTile[c.Location] = removeID(d.byTile[c.Location], id)
	if len(d.byTile[c.Location]) == 0 {
		delete(d.byTile, c.Location)
	}
	d.byFaction[c.Faction] = removeID(d.byFaction[c.Faction], id)
	if len(d.byFaction[c.Faction]) == 0 {
		delete(d.byFaction, c.Faction)
	}
	return true
}

// MarkDead soft-retires a character: the record and its index entries stay,
// only the alive flag drops.
func (d *Directory) MarkDead(id string) bool {
	c, ok := d.byID[id]
	if !ok {
		return false
	}
	c.State.Alive = false
	return true
}

// Get looks up a record by id.
func (d *Directory) Get(id string) (*models.Character, bool) {
	c, ok := d.byID[id]
	return c, ok
}

// AtTile returns the characters on one tile, id-sorted.
func (d *Directory) AtTile(tile hex.Coord) []*models.Character {
	return d.collect(d.byTile[tile])
}

// ByFaction returns the characters of one faction, id-sorted.
func (d *Directory) ByFaction(f models.Faction) []*models.Character {
	return d.collect(d.byFaction[f])
}

// All returns every record, id-sorted for stable iteration.
func (d *Directory) All() []*models.Character {
	ids := make([]string, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	return d.collect(ids)
}

// Count reports the current population size.
func (d *Directory) Count() int {
	return len(d.byID)
}

// Cap reports the spawn limit.
func (d *Directory) Cap() int {
	return d.cap
}

func (d *Directory) collect(ids []string) []*models.Character {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make([]*models.Character, 0, len(sorted))
	for _, id := range sorted {
		if c, ok := d.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// WorldSave is the persisted state payload. Characters carry flattened
// relationship maps; UsedNames restores the name allocator so a reloaded
// session never reissues an already-used name.
type WorldSave struct {
	Characters []models.CharacterSnapshot `json:"characters"`
	UsedNames  []string                   `json:"used_names"`
}

// Save builds the persistable world state, characters id-sorted.
func (d *Directory) Save() WorldSave {
	save := WorldSave{
		UsedNames: d.pipeline.Names().Used(),
	}
	for _, c := range d.All() {
		save.Characters = append(save.Characters, c.Snapshot())
	}
	return save
}

// Load replaces the directory contents from a save. Malformed input (a
// blank or duplicated id) is the one condition allowed to surface as a
// hard failure; on error the directory is left unchanged.
func (d *Directory) Load(save WorldSave) error {
	byID := make(map[string]*models.Character, len(save.Characters))
	byTile := make(map[hex.Coord][]string)
	byFaction := make(map[models.Faction][]string)

	for i := range save.Characters {
		snap := save.Characters[i]
		if snap.ID == "" {
			return fmt.Errorf("load: character %d has no id", i)
		}
		if _, dup := byID[snap.ID]; dup {
			return fmt.Errorf("load: duplicate character id %q", snap.ID)
		}
		c := snap.Restore()
		byID[c.ID] = c
		byTile[c.Location] = append(byTile[c.Location], c.ID)
		byFaction[c.Faction] = append(byFaction[c.Faction], c.ID)
	}

	d.byID = byID
	d.byTile = byTile
	d.byFaction = byFaction
	d.pipeline.Names().RestoreUsed(save.UsedNames)
	return nil
}
