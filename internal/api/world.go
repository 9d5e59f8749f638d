package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	charsvc "island-npc-engine/backend/character/service"
	"island-npc-engine/backend/pkg/cache"
	"island-npc-engine/backend/world/repository"

	"github.com/gin-gonic/gin"
)

// WorldHandler exposes save and load of the whole population. Named slots
// go through the database; export and import move the raw payload.
type WorldHandler struct {
	// mu serializes engine access, shared with the other handlers.
	mu *sync.Mutex

	directory *charsvc.Directory
	saves     repository.SaveRepository
	profiles  *cache.Cache
}

func NewWorldHandler(mu *sync.Mutex, directory *charsvc.Directory, saves repository.SaveRepository, profiles *cache.Cache) *WorldHandler {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &WorldHandler{mu: mu, directory: directory, saves: saves, profiles: profiles}
}

// Export returns the serialized world state.
func (h *WorldHandler) Export(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.JSON(http.StatusOK, h.directory.Save())
}

// Import replaces the population with the posted world state.
func (h *WorldHandler) Import(c *gin.Context) {
	var save charsvc.WorldSave
	if err := c.ShouldBindJSON(&save); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.directory.Load(save); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.flush()
	c.JSON(http.StatusOK, gin.H{"characters": h.directory.Count()})
}

type slotRequest struct {
	Name string `json:"name" binding:"required"`
}

// SaveSlot persists the current world state under a named slot.
func (h *WorldHandler) SaveSlot(c *gin.Context) {
	if h.saves == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "save storage not configured"})
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	payload, err := json.Marshal(h.directory.Save())
	count := h.directory.Count()
	h.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.saves.Put(req.Name, payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": req.Name, "characters": count})
}

// LoadSlot restores the world state from a named slot.
func (h *WorldHandler) LoadSlot(c *gin.Context) {
	if h.saves == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "save storage not configured"})
		return
	}

	slot, err := h.saves.Get(c.Param("name"))
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "save slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var save charsvc.WorldSave
	if err := json.Unmarshal(slot.Payload, &save); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed save payload: " + err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.directory.Load(save); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.flush()
	c.JSON(http.StatusOK, gin.H{"name": slot.Name, "characters": h.directory.Count()})
}

// ListSlots returns the stored slots, newest first.
func (h *WorldHandler) ListSlots(c *gin.Context) {
	if h.saves == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "save storage not configured"})
		return
	}

	slots, err := h.saves.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// DeleteSlot removes a stored slot.
func (h *WorldHandler) DeleteSlot(c *gin.Context) {
	if h.saves == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "save storage not configured"})
		return
	}

	if err := h.saves.Delete(c.Param("name")); err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "save slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WorldHandler) flush() {
	if h.profiles != nil {
		h.profiles.Flush()
	}
}
