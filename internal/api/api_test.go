package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"island-npc-engine/backend/ai"
	"island-npc-engine/backend/character/models"
	charsvc "island-npc-engine/backend/character/service"
	convsvc "island-npc-engine/backend/conversation/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedText struct {
	reply string
}

func (f *fixedText) GenerateText(ctx context.Context, prompt string, opts ai.Options) (string, error) {
	return f.reply, nil
}

type approveJudge struct{}

func (approveJudge) TooSimilar(ctx context.Context, candidate string, recent []string) (bool, error) {
	return false, nil
}

type fixedImage struct {
	ref string
}

func (f fixedImage) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return f.ref, nil
}

func newTestEngine(t *testing.T, cap int) (*gin.Engine, *charsvc.Directory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	directory := charsvc.NewDirectory(charsvc.DirectoryConfig{Cap: cap, Seed: 99}, nil, nil)
	orchestrator := convsvc.NewOrchestrator(directory, &fixedText{reply: "The tide was rough this morning."}, approveJudge{}, nil, nil)

	mu := &sync.Mutex{}
	characterHandler := NewCharacterHandler(mu, directory, fixedImage{ref: "portraits/abc123"}, nil, nil)
	dialogueHandler := NewDialogueHandler(mu, orchestrator, directory, nil, nil)
	worldHandler := NewWorldHandler(mu, directory, nil, nil)

	engine := gin.New()
	v1 := engine.Group("/api/v1")

	characters := v1.Group("/characters")
	characters.POST("", characterHandler.Spawn)
	characters.GET("", characterHandler.List)
	characters.GET("/:id", characterHandler.Get)
	characters.DELETE("/:id", characterHandler.Despawn)
	characters.POST("/:id/kill", characterHandler.Kill)
	characters.POST("/:id/portrait", characterHandler.Portrait)
	characters.POST("/:id/dialogue", dialogueHandler.Talk)
	characters.POST("/:id/relationship", dialogueHandler.AdjustRelationship)
	characters.POST("/:id/memories", dialogueHandler.RecordMemory)
	characters.GET("/:id/memories", dialogueHandler.RelevantMemories)

	v1.POST("/rumors", dialogueHandler.SpreadRumor)
	v1.GET("/world/export", worldHandler.Export)
	v1.POST("/world/import", worldHandler.Import)
	v1.GET("/world/saves", worldHandler.ListSlots)

	return engine, directory
}

func doJSON(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSpawnAndGetCharacter(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "native", "gender": "female"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.FactionNative, created.Faction)
	assert.NotEmpty(t, created.Name.FullName)
	assert.True(t, created.State.Alive)

	w = doJSON(engine, http.MethodGet, "/api/v1/characters/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CharacterSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, created.ID, snap.ID)
}

func TestGetUnknownCharacter(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodGet, "/api/v1/characters/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpawnPopulationCap(t *testing.T) {
	engine, _ := newTestEngine(t, 2)

	for i := 0; i < 2; i++ {
		w := doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "castaway"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "castaway"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListFilters(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "native"})
	doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "mercenary"})
	doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "mercenary", "tile": gin.H{"q": 3, "r": -1}})

	var list struct {
		Characters []CharacterSummary `json:"characters"`
		Count      int                `json:"count"`
		Cap        int                `json:"cap"`
	}

	w := doJSON(engine, http.MethodGet, "/api/v1/characters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Count)
	assert.Equal(t, 10, list.Cap)

	w = doJSON(engine, http.MethodGet, "/api/v1/characters?faction=mercenary", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	w = doJSON(engine, http.MethodGet, "/api/v1/characters?q=3&r=-1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 3, list.Characters[0].Tile.Q)
}

func TestKillAndDespawn(t *testing.T) {
	engine, directory := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/characters", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(engine, http.MethodPost, "/api/v1/characters/"+created.ID+"/kill", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stored, ok := directory.Get(created.ID)
	require.True(t, ok)
	assert.False(t, stored.State.Alive)

	w = doJSON(engine, http.MethodDelete, "/api/v1/characters/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(engine, http.MethodDelete, "/api/v1/characters/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortraitSideChannel(t *testing.T) {
	engine, directory := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/characters", nil)
	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(engine, http.MethodPost, "/api/v1/characters/"+created.ID+"/portrait", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portraits/abc123")

	stored, _ := directory.Get(created.ID)
	assert.Equal(t, "portraits/abc123", stored.Appearance.PortraitRef)
}

func TestDialogueEndpoint(t *testing.T) {
	engine, directory := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/characters", nil)
	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(engine, http.MethodPost, "/api/v1/characters/"+created.ID+"/dialogue", gin.H{"message": "hello there"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reply string `json:"reply"`
		Mood  string `json:"mood"`
		Phase string `json:"phase"`
		Turns int    `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The tide was rough this morning.", resp.Reply)
	assert.NotEmpty(t, resp.Mood)
	assert.Equal(t, string(models.PhaseEarly), resp.Phase)
	assert.Equal(t, 1, resp.Turns)

	stored, _ := directory.Get(created.ID)
	assert.Equal(t, 1, stored.Relationships.Player.InteractionCount)
}

func TestDialogueUnknownCharacter(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/characters/no-such-id/dialogue", gin.H{"message": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDialogueMissingMessage(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/characters/any/dialogue", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelationshipAndMemoryEndpoints(t *testing.T) {
	engine, directory := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/characters", nil)
	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(engine, http.MethodPost, "/api/v1/characters/"+created.ID+"/relationship", gin.H{"opinion": 50, "trust": 200})
	require.Equal(t, http.StatusOK, w.Code)

	var rel models.Relationship
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rel))
	assert.Equal(t, 50, rel.Opinion)
	assert.Equal(t, 100, rel.Trust)

	w = doJSON(engine, http.MethodPost, "/api/v1/characters/"+created.ID+"/memories", gin.H{
		"content":    "The player helped me mend the fishing nets",
		"importance": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	stored, _ := directory.Get(created.ID)
	require.Len(t, stored.Memory.Events, 1)

	w = doJSON(engine, http.MethodGet, "/api/v1/characters/"+created.ID+"/memories?context=fishing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fishing nets")
}

func TestRumorEndpoint(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	var ids []string
	for _, tile := range []gin.H{
		{"q": 0, "r": 0},
		{"q": 1, "r": 0},
		{"q": 5, "r": 5},
	} {
		w := doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"tile": tile})
		require.Equal(t, http.StatusCreated, w.Code)
		var created models.Character
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		ids = append(ids, created.ID)
	}

	w := doJSON(engine, http.MethodPost, "/api/v1/rumors", gin.H{
		"event":      "a mercenary attacked a fisherman at the cove",
		"witness_id": ids[0],
		"radius":     2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"heard":%d`, 2))
}

func TestRumorUnknownWitness(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodPost, "/api/v1/rumors", gin.H{
		"event":      "something happened",
		"witness_id": "no-such-id",
		"radius":     1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorldExportImport(t *testing.T) {
	engine, directory := newTestEngine(t, 10)

	doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "native"})
	doJSON(engine, http.MethodPost, "/api/v1/characters", gin.H{"faction": "castaway"})

	w := doJSON(engine, http.MethodGet, "/api/v1/world/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var save charsvc.WorldSave
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &save))
	require.Len(t, save.Characters, 2)

	// Import into a fresh engine and verify the population carries over
	fresh, freshDir := newTestEngine(t, 10)
	w = doJSON(fresh, http.MethodPost, "/api/v1/world/import", save)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, directory.Count(), freshDir.Count())
}

func TestWorldImportRejectsMalformed(t *testing.T) {
	engine, directory := newTestEngine(t, 10)
	doJSON(engine, http.MethodPost, "/api/v1/characters", nil)

	w := doJSON(engine, http.MethodPost, "/api/v1/world/import", gin.H{
		"characters": []gin.H{{"id": ""}},
		"used_names": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, directory.Count())
}

func TestConcurrentSpawnAndDialogue(t *testing.T) {
	engine, directory := newTestEngine(t, 50)

	// Parallel spawns must not corrupt the directory indices.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doJSON(engine, http.MethodPost, "/api/v1/characters", nil)
			assert.Equal(t, http.StatusCreated, w.Code)
		}()
	}
	wg.Wait()
	require.Equal(t, 16, directory.Count())

	w := doJSON(engine, http.MethodPost, "/api/v1/characters", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Character
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Parallel dialogue turns against one character serialize cleanly.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doJSON(engine, http.MethodPost, "/api/v1/characters/"+created.ID+"/dialogue", gin.H{"message": "hello"})
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	stored, ok := directory.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, 8, stored.Relationships.Player.InteractionCount)
	assert.Len(t, stored.Memory.History, 16)
}

func TestWorldSlotsUnavailableWithoutStorage(t *testing.T) {
	engine, _ := newTestEngine(t, 10)

	w := doJSON(engine, http.MethodGet, "/api/v1/world/saves", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
