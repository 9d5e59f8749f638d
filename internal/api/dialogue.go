package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"island-npc-engine/backend/character/models"
	charsvc "island-npc-engine/backend/character/service"
	convsvc "island-npc-engine/backend/conversation/service"
	"island-npc-engine/backend/pkg/cache"
	"island-npc-engine/backend/shared/observability"

	"github.com/gin-gonic/gin"
)

type DialogueHandler struct {
	// mu serializes engine access, shared with the other handlers.
	mu *sync.Mutex

	orchestrator *convsvc.Orchestrator
	directory    *charsvc.Directory
	profiles     *cache.Cache
	metrics      *observability.Metrics
}

func NewDialogueHandler(mu *sync.Mutex, orchestrator *convsvc.Orchestrator, directory *charsvc.Directory, profiles *cache.Cache, metrics *observability.Metrics) *DialogueHandler {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &DialogueHandler{
		mu:           mu,
		orchestrator: orchestrator,
		directory:    directory,
		profiles:     profiles,
		metrics:      metrics,
	}
}

type talkRequest struct {
	Message string `json:"message" binding:"required"`
}

type talkResponse struct {
	Reply string `json:"reply"`
	Mood  string `json:"mood"`
	Phase string `json:"phase"`
	Turns int    `json:"turns"`
}

// Talk runs one dialogue exchange with the character.
func (h *DialogueHandler) Talk(c *gin.Context) {
	id := c.Param("id")

	var req talkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	reply, err := h.orchestrator.Converse(c.Request.Context(), id, req.Message)
	if err != nil {
		if errors.Is(err, convsvc.ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.invalidate(id)
	if h.metrics != nil {
		h.metrics.DialogueTurns.Add(c.Request.Context(), 1)
	}

	resp := talkResponse{Reply: reply}
	if character, ok := h.directory.Get(id); ok {
		resp.Mood = character.State.Mood
		resp.Phase = string(character.Memory.Phase)
	}
	if session := h.orchestrator.ActiveSession(); session != nil && session.CharacterID == id {
		resp.Turns = session.Turns
	}

	c.JSON(http.StatusOK, resp)
}

// AdjustRelationship applies clamped deltas to the player relationship.
func (h *DialogueHandler) AdjustRelationship(c *gin.Context) {
	id := c.Param("id")

	var delta models.RelationshipDelta
	if err := c.ShouldBindJSON(&delta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.orchestrator.AdjustRelationship(id, delta); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	h.invalidate(id)

	character, _ := h.directory.Get(id)
	c.JSON(http.StatusOK, character.Relationships.Player)
}

type memoryRequest struct {
	Content    string  `json:"content" binding:"required"`
	Importance float64 `json:"importance"`
}

// RecordMemory writes an event into the character's memory log.
func (h *DialogueHandler) RecordMemory(c *gin.Context) {
	id := c.Param("id")

	var req memoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.orchestrator.RecordMemory(id, req.Content, req.Importance); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	h.invalidate(id)
	c.Status(http.StatusCreated)
}

// RelevantMemories returns the memories scored against a context string.
func (h *DialogueHandler) RelevantMemories(c *gin.Context) {
	id := c.Param("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	character, ok := h.directory.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	memories := character.Memory.RelevantMemories(c.Query("context"), limit, time.Now())
	c.JSON(http.StatusOK, gin.H{"memories": memories})
}

type rumorRequest struct {
	Event     string `json:"event" binding:"required"`
	WitnessID string `json:"witness_id" binding:"required"`
	Radius    int    `json:"radius"`
}

// SpreadRumor propagates an event from a witness to nearby characters.
func (h *DialogueHandler) SpreadRumor(c *gin.Context) {
	var req rumorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	heard, err := h.orchestrator.SpreadRumor(c.Request.Context(), req.Event, req.WitnessID, req.Radius)
	if err != nil {
		if errors.Is(err, convsvc.ErrCharacterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "witness not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Rumors touch every character in range, so drop all cached profiles.
	if h.profiles != nil {
		h.profiles.Flush()
	}
	if h.metrics != nil {
		h.metrics.RumorHearers.Add(c.Request.Context(), int64(heard))
	}

	c.JSON(http.StatusOK, gin.H{"heard": heard})
}

func (h *DialogueHandler) invalidate(id string) {
	if h.profiles != nil {
		h.profiles.Delete(profileKey(id))
	}
}
