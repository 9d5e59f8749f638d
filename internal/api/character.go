package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"island-npc-engine/backend/ai"
	"island-npc-engine/backend/character/gen"
	"island-npc-engine/backend/character/models"
	charsvc "island-npc-engine/backend/character/service"
	"island-npc-engine/backend/pkg/cache"
	"island-npc-engine/backend/pkg/hex"
	"island-npc-engine/backend/shared/observability"

	"github.com/gin-gonic/gin"
)

// CharacterSummary is the compact listing shape returned by List.
type CharacterSummary struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Faction models.Faction `json:"faction"`
	Role    string         `json:"role"`
	Age     int            `json:"age"`
	Tile    hex.Coord      `json:"tile"`
	Alive   bool           `json:"alive"`
	Mood    string         `json:"mood"`
}

type CharacterHandler struct {
	// mu serializes engine access; the directory and character records
	// are not safe for concurrent use. Shared with every other handler
	// that touches the engine.
	mu *sync.Mutex

	directory *charsvc.Directory
	portraits ai.ImageGenerator
	profiles  *cache.Cache
	metrics   *observability.Metrics
}

func NewCharacterHandler(mu *sync.Mutex, directory *charsvc.Directory, portraits ai.ImageGenerator, profiles *cache.Cache, metrics *observability.Metrics) *CharacterHandler {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &CharacterHandler{
		mu:        mu,
		directory: directory,
		portraits: portraits,
		profiles:  profiles,
		metrics:   metrics,
	}
}

// Spawn generates a new character from an optional template.
func (h *CharacterHandler) Spawn(c *gin.Context) {
	var tpl gen.Template
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&tpl); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	character, err := h.directory.Spawn(c.Request.Context(), tpl)
	if err != nil {
		if errors.Is(err, charsvc.ErrPopulationFull) {
			c.JSON(http.StatusConflict, gin.H{"error": "population cap reached"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.Spawns.Add(c.Request.Context(), 1)
	}

	c.JSON(http.StatusCreated, character)
}

// Get returns the full character profile, flattened for serialization.
func (h *CharacterHandler) Get(c *gin.Context) {
	id := c.Param("id")

	if h.profiles != nil {
		if cached, ok := h.profiles.Get(profileKey(id)); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	character, ok := h.directory.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	snapshot := character.Snapshot()
	if h.profiles != nil {
		h.profiles.Set(profileKey(id), snapshot)
	}

	c.JSON(http.StatusOK, snapshot)
}

// List returns summaries, optionally filtered by faction or tile.
func (h *CharacterHandler) List(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var characters []*models.Character

	switch {
	case c.Query("faction") != "":
		characters = h.directory.ByFaction(models.NormalizeFaction(c.Query("faction")))
	case c.Query("q") != "" || c.Query("r") != "":
		q, err := strconv.Atoi(c.DefaultQuery("q", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid q coordinate"})
			return
		}
		r, err := strconv.Atoi(c.DefaultQuery("r", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid r coordinate"})
			return
		}
		characters = h.directory.AtTile(hex.Coord{Q: q, R: r})
	default:
		characters = h.directory.All()
	}

	summaries := make([]CharacterSummary, 0, len(characters))
	for _, ch := range characters {
		summaries = append(summaries, CharacterSummary{
			ID:      ch.ID,
			Name:    ch.Name.FullName,
			Faction: ch.Faction,
			Role:    ch.Role,
			Age:     ch.Appearance.Age,
			Tile:    ch.Location,
			Alive:   ch.State.Alive,
			Mood:    ch.State.Mood,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"characters": summaries,
		"count":      len(summaries),
		"cap":        h.directory.Cap(),
	})
}

// Despawn removes a character from the directory.
func (h *CharacterHandler) Despawn(c *gin.Context) {
	id := c.Param("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.directory.Despawn(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	if h.profiles != nil {
		h.profiles.Delete(profileKey(id))
	}
	if h.metrics != nil {
		h.metrics.Despawns.Add(c.Request.Context(), 1)
	}

	c.Status(http.StatusNoContent)
}

// Kill marks a character dead without removing it.
func (h *CharacterHandler) Kill(c *gin.Context) {
	id := c.Param("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.directory.MarkDead(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	if h.profiles != nil {
		h.profiles.Delete(profileKey(id))
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "alive": false})
}

// Portrait requests an image for the character and stores the reference.
func (h *CharacterHandler) Portrait(c *gin.Context) {
	if h.portraits == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image generation not configured"})
		return
	}

	id := c.Param("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	character, ok := h.directory.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	prompt := portraitPrompt(character)
	ref, err := h.portraits.GenerateImage(c.Request.Context(), prompt)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	character.Appearance.PortraitRef = ref
	if h.profiles != nil {
		h.profiles.Delete(profileKey(id))
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "portrait_ref": ref})
}

func portraitPrompt(ch *models.Character) string {
	a := ch.Appearance
	return fmt.Sprintf("Portrait of %s, a %d year old %s %s. %s hair (%s, %s), %s eyes, %s skin, %s build. Wearing %s.",
		ch.Name.FullName, a.Age, ch.Faction, ch.Role,
		a.HairColor, a.HairStyle, a.HairLength, a.EyeColor, a.SkinTone, a.Build, a.Clothing)
}

func profileKey(id string) string {
	return "profile:" + id
}
