package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-npc-engine/backend/ai"
	"island-npc-engine/backend/character/gen"
	"island-npc-engine/backend/character/models"
	charservice "island-npc-engine/backend/character/service"
	"island-npc-engine/backend/pkg/hex"
)

type scriptedText struct {
	replies []string
	errs    []error
	prompts []string
	opts    []ai.Options
}

func (s *scriptedText) GenerateText(_ context.Context, prompt string, o ai.Options) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	s.opts = append(s.opts, o)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "a generated line", nil
}

type scriptedJudge struct {
	verdicts []bool
	err      error
	calls    int
}

func (j *scriptedJudge) TooSimilar(context.Context, string, []string) (bool, error) {
	i := j.calls
	j.calls++
	if j.err != nil {
		return false, j.err
	}
	if i < len(j.verdicts) {
		return j.verdicts[i], nil
	}
	return false, nil
}

func spawnOne(t *testing.T, d *charservice.Directory, tpl gen.Template) *models.Character {
	t.Helper()
	c, err := d.Spawn(context.Background(), tpl)
	require.NoError(t, err)
	return c
}

func newTestOrchestrator(text ai.TextGenerator, judge ai.RepetitionJudge) (*Orchestrator, *charservice.Directory) {
	d := charservice.NewDirectory(charservice.DirectoryConfig{Cap: 20, Seed: 7}, nil, nil)
	return NewOrchestrator(d, text, judge, nil, nil), d
}

func TestConverseUnknownCharacter(t *testing.T) {
	o, _ := newTestOrchestrator(&scriptedText{}, nil)
	_, err := o.Converse(context.Background(), "ghost-id", "hello?")
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestConverseSuccessBookkeeping(t *testing.T) {
	text := &scriptedText{replies: []string{"The reef is no place after dark."}}
	o, d := newTestOrchestrator(text, &scriptedJudge{})
	c := spawnOne(t, d, gen.Template{Faction: "native"})

	reply, err := o.Converse(context.Background(), c.ID, "is the reef safe?")
	require.NoError(t, err)
	assert.Equal(t, "The reef is no place after dark.", reply)

	// One generation call, no retries.
	assert.Len(t, text.prompts, 1)
	assert.Contains(t, text.prompts[0], c.Name.FullName)
	assert.Contains(t, text.prompts[0], "is the reef safe?")

	// Memory event, interaction bookkeeping, phase, rolling history.
	require.NotEmpty(t, c.Memory.Events)
	assert.Contains(t, c.Memory.Events[len(c.Memory.Events)-1].Content, "is the reef safe?")
	assert.Equal(t, 1, c.Relationships.Player.InteractionCount)
	assert.False(t, c.Relationships.Player.LastInteraction.IsZero())
	assert.Equal(t, models.PhaseFor(c.Relationships.Player), c.Memory.Phase)
	require.Len(t, c.Memory.History, 2)
	assert.Equal(t, speakerPlayer, c.Memory.History[0].Speaker)
	assert.Equal(t, speakerNPC, c.Memory.History[1].Speaker)

	sess := o.ActiveSession()
	require.NotNil(t, sess)
	assert.Equal(t, c.ID, sess.CharacterID)
	assert.Equal(t, 1, sess.Turns)
}

func TestConverseRetriesOnRepetition(t *testing.T) {
	text := &scriptedText{replies: []string{"same old line", "same old line", "something fresh"}}
	judge := &scriptedJudge{verdicts: []bool{true, true, false}}
	o, d := newTestOrchestrator(text, judge)
	c := spawnOne(t, d, gen.Template{})
	c.Memory.AppendTurn(speakerNPC, "same old line", time.Now())

	reply, err := o.Converse(context.Background(), c.ID, "talk to me")
	require.NoError(t, err)
	assert.Equal(t, "something fresh", reply)
	assert.Equal(t, 3, judge.calls)
	require.Len(t, text.prompts, 3)

	// Each retry carries the reduce-repetition instruction.
	assert.NotContains(t, text.prompts[0], "Reduce repetition")
	assert.Contains(t, text.prompts[1], "Reduce repetition")
	assert.Contains(t, text.prompts[2], "Reduce repetition")

	// The variation strategy raises temperature per attempt.
	assert.Less(t, text.opts[0].Temperature, text.opts[1].Temperature)
	assert.Less(t, text.opts[1].Temperature, text.opts[2].Temperature)
}

func TestConverseReturnsLastCandidateWhenAllSimilar(t *testing.T) {
	text := &scriptedText{replies: []string{"echo one", "echo two", "echo three"}}
	judge := &scriptedJudge{verdicts: []bool{true, true, true}}
	o, d := newTestOrchestrator(text, judge)
	c := spawnOne(t, d, gen.Template{})
	c.Memory.AppendTurn(speakerNPC, "echo", time.Now())

	reply, err := o.Converse(context.Background(), c.ID, "again")
	require.NoError(t, err)
	// Retries exhausted; the last candidate ships as-is and still commits.
	assert.Equal(t, "echo three", reply)
	assert.Equal(t, 1, c.Relationships.Player.InteractionCount)
}

func TestConverseFallbackWhenServiceDown(t *testing.T) {
	down := errors.New("connection refused")
	text := &scriptedText{errs: []error{down, down, down}}
	o, d := newTestOrchestrator(text, &scriptedJudge{})
	c := spawnOne(t, d, gen.Template{})

	reply, err := o.Converse(context.Background(), c.ID, "anyone there?")
	require.NoError(t, err, "dialogue never throws past this layer")
	assert.NotEmpty(t, reply)
	assert.Contains(t, reply, c.Name.FirstName)

	// No memory event for words never generated, but the exchange is in
	// the rolling history.
	assert.Empty(t, c.Memory.Events)
	assert.Len(t, c.Memory.History, 2)
}

func TestConverseErrorThenSuccess(t *testing.T) {
	text := &scriptedText{
		replies: []string{"", "I heard you the first time."},
		errs:    []error{errors.New("timeout"), nil},
	}
	o, d := newTestOrchestrator(text, &scriptedJudge{})
	c := spawnOne(t, d, gen.Template{})

	reply, err := o.Converse(context.Background(), c.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "I heard you the first time.", reply)
}

func TestJudgeFailureAcceptsCandidate(t *testing.T) {
	text := &scriptedText{replies: []string{"first try"}}
	judge := &scriptedJudge{err: errors.New("judge offline")}
	o, d := newTestOrchestrator(text, judge)
	c := spawnOne(t, d, gen.Template{})
	c.Memory.AppendTurn(speakerNPC, "earlier line", time.Now())

	reply, err := o.Converse(context.Background(), c.ID, "go on")
	require.NoError(t, err)
	assert.Equal(t, "first try", reply)
	assert.Len(t, text.prompts, 1)
}

func TestNewConversationDiscardsActiveSession(t *testing.T) {
	o, d := newTestOrchestrator(&scriptedText{}, nil)
	a := spawnOne(t, d, gen.Template{})
	b := spawnOne(t, d, gen.Template{})

	_, err := o.Converse(context.Background(), a.ID, "hi")
	require.NoError(t, err)
	first := o.ActiveSession()
	require.Equal(t, a.ID, first.CharacterID)

	_, err = o.Converse(context.Background(), b.ID, "hi")
	require.NoError(t, err)
	second := o.ActiveSession()
	assert.Equal(t, b.ID, second.CharacterID)
	assert.NotSame(t, first, second)

	// The first character's persisted history is unaffected.
	assert.Len(t, a.Memory.History, 2)
}

func TestAdjustRelationshipRecomputesPhaseAndMood(t *testing.T) {
	o, d := newTestOrchestrator(&scriptedText{}, nil)
	c := spawnOne(t, d, gen.Template{})

	require.NoError(t, o.AdjustRelationship(c.ID, models.RelationshipDelta{Opinion: 80, Trust: 60, Romantic: 40}))
	assert.Equal(t, models.PhaseFamiliar, c.Memory.Phase)

	require.NoError(t, o.AdjustRelationship(c.ID, models.RelationshipDelta{Opinion: 40, Trust: 40, Romantic: 40}))
	assert.Equal(t, models.PhaseIntimate, c.Memory.Phase)

	// And back down: no latch.
	require.NoError(t, o.AdjustRelationship(c.ID, models.RelationshipDelta{Opinion: -200, Trust: -200, Romantic: -200}))
	assert.Equal(t, models.PhaseEarly, c.Memory.Phase)
	assert.Equal(t, -100, c.Relationships.Player.Opinion)

	assert.ErrorIs(t, o.AdjustRelationship("nobody", models.RelationshipDelta{}), ErrCharacterNotFound)
}

func TestConverseTruncatesLongLinesOnRuneBoundary(t *testing.T) {
	text := &scriptedText{replies: []string{"noted"}}
	o, d := newTestOrchestrator(text, &scriptedJudge{})
	c := spawnOne(t, d, gen.Template{})

	long := strings.Repeat("日本語テキスト", 30)
	_, err := o.Converse(context.Background(), c.ID, long)
	require.NoError(t, err)

	require.NotEmpty(t, c.Memory.Events)
	content := c.Memory.Events[len(c.Memory.Events)-1].Content
	assert.True(t, utf8.ValidString(content))
	assert.True(t, strings.HasSuffix(content, "..."))
}

func TestRecordMemory(t *testing.T) {
	o, d := newTestOrchestrator(&scriptedText{}, nil)
	c := spawnOne(t, d, gen.Template{Tile: &hex.Coord{Q: 1, R: 1}})

	require.NoError(t, o.RecordMemory(c.ID, "the player helped me patch the roof", 4))
	require.Len(t, c.Memory.Events, 1)
	assert.Equal(t, 2, c.Memory.Events[0].EmotionalImpact)

	assert.ErrorIs(t, o.RecordMemory("nobody", "x", 1), ErrCharacterNotFound)
}
