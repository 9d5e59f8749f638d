// Package service implements the interaction orchestrator: the dialogue
// loop against the external text service, relationship adjustment, memory
// writes, rumor propagation, and conversation-phase recomputation.
package service

import (
	"context"
	"errors"
	"time"

	"island-npc-engine/backend/ai"
	"island-npc-engine/backend/character/models"
	charservice "island-npc-engine/backend/character/service"
	"island-npc-engine/backend/pkg/logger"
)

const (
	// maxAttempts bounds the generation loop; after the last attempt the
	// last candidate is returned as-is.
	maxAttempts = 3

	// repetitionWindow is how many of the character's own recent lines
	// the candidate is judged against.
	repetitionWindow = 3

	// promptTurns is how much rolling history the prompt carries.
	promptTurns = 5

	speakerPlayer = "player"
	speakerNPC    = "npc"
)

// ErrCharacterNotFound is the sentinel for dialogue against an unknown id.
var ErrCharacterNotFound = errors.New("character not found")

// retryInstruction is appended to the prompt when a candidate is judged
// too similar to recent lines.
const retryInstruction = "\n\nYour previous answer repeated earlier lines. Reduce repetition: vary wording, bring up something new."

// Session tracks the one active conversation. Starting a conversation with
// a different character discards this pointer; per-character history
// already persisted on the records is unaffected.
type Session struct {
	CharacterID string
	StartedAt   time.Time
	Turns       int
}

// Orchestrator drives dialogue and social state changes. Like the rest of
// the engine it assumes one logical caller; retries run strictly
// sequentially so each can react to the prior result.
type Orchestrator struct {
	directory *charservice.Directory
	text      ai.TextGenerator
	judge     ai.RepetitionJudge
	vary      ai.VariationStrategy
	log       *logger.Logger
	now       func() time.Time

	active *Session
}

// NewOrchestrator wires the orchestrator. judge may be nil, in which case
// every candidate is accepted on the first attempt; vary defaults to the
// stock temperature schedule.
func NewOrchestrator(directory *charservice.Directory, text ai.TextGenerator, judge ai.RepetitionJudge, vary ai.VariationStrategy, log *logger.Logger) *Orchestrator {
	if vary == nil {
		vary = ai.DefaultSchedule()
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Orchestrator{
		directory: directory,
		text:      text,
		judge:     judge,
		vary:      vary,
		log:       log,
		now:       time.Now,
	}
}

// ActiveSession returns the current conversation session, if any.
func (o *Orchestrator) ActiveSession() *Session {
	return o.active
}

// Converse runs one dialogue turn with a character. The only error it
// returns is ErrCharacterNotFound; external service trouble is absorbed
// into a best-effort reply so the loop never throws past this layer.
func (o *Orchestrator) Converse(ctx context.Context, characterID, playerLine string) (string, error) {
	c, ok := o.directory.Get(characterID)
	if !ok {
		return "", ErrCharacterNotFound
	}

	if o.active == nil || o.active.CharacterID != characterID {
		// New target discards the prior in-memory session pointer.
		o.active = &Session{CharacterID: characterID, StartedAt: o.now()}
	}
	o.active.Turns++

	now := o.now()
	prompt := BuildDialoguePrompt(c, playerLine, now)
	recent := c.Memory.RecentUtterances(speakerNPC, repetitionWindow)

	var (
		last          string
		haveCandidate bool
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := o.text.GenerateText(ctx, prompt, o.vary.OptionsFor(attempt))
		if err != nil {
			o.log.WithCharacterID(characterID).Warn("text generation attempt failed",
				"attempt", attempt+1, "error", err.Error())
			continue
		}
		last, haveCandidate = candidate, true

		if !o.tooSimilar(ctx, candidate, recent) {
			return o.commitTurn(c, playerLine, candidate, now), nil
		}
		prompt += retryInstruction
	}

	if haveCandidate {
		// Retries exhausted on repetition: the last candidate ships as-is.
		return o.commitTurn(c, playerLine, last, now), nil
	}

	// Every attempt failed outright. A canned line keeps the scene moving;
	// no memory event is recorded for words the character never said.
	fallback := fallbackLine(c)
	c.Memory.AppendTurn(speakerPlayer, playerLine, now)
	c.Memory.AppendTurn(speakerNPC, fallback, now)
	return fallback, nil
}

func (o *Orchestrator) tooSimilar(ctx context.Context, candidate string, recent []string) bool {
	if o.judge == nil || len(recent) == 0 {
		return false
	}
	similar, err := o.judge.TooSimilar(ctx, candidate, recent)
	if err != nil {
		// Judgment is advisory; on judge failure the candidate passes.
		o.log.Warn("repetition judgment failed", "error", err.Error())
		return false
	}
	return similar
}

// commitTurn performs the success bookkeeping: memory event, interaction
// count and timestamps, phase recompute, rolling history, mood refresh.
func (o *Orchestrator) commitTurn(c *models.Character, playerLine, reply string, now time.Time) string {
	c.Memory.Remember("Talked with the player about: "+truncate(playerLine, 120), 2, now)

	rel := c.Relationships.Player
	rel.Touch(now)
	c.Memory.Phase = models.PhaseFor(rel)

	c.Memory.AppendTurn(speakerPlayer, playerLine, now)
	c.Memory.AppendTurn(speakerNPC, reply, now)
	c.RefreshMood()
	return reply
}

// AdjustRelationship applies a clamped delta to a character's scalars
// toward the player, then recomputes mood and conversation phase.
func (o *Orchestrator) AdjustRelationship(characterID string, d models.RelationshipDelta) error {
	c, ok := o.directory.Get(characterID)
	if !ok {
		return ErrCharacterNotFound
	}
	c.Relationships.Player.Adjust(d)
	c.Memory.Phase = models.PhaseFor(c.Relationships.Player)
	c.RefreshMood()
	return nil
}

// RecordMemory writes an event onto a character from outside dialogue.
func (o *Orchestrator) RecordMemory(characterID, content string, importance float64) error {
	c, ok := o.directory.Get(characterID)
	if !ok {
		return ErrCharacterNotFound
	}
	c.Memory.Remember(content, importance, o.now())
	return nil
}

// truncate cuts on rune boundaries so multibyte input never leaves an
// invalid tail in the stored event.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func fallbackLine(c *models.Character) string {
	switch c.RefreshMood() {
	case "hostile", "terrified", "afraid":
		return c.Name.FirstName + " eyes you warily and says nothing."
	case "suffering", "desperate":
		return c.Name.FirstName + " is in no state to talk."
	default:
		return c.Name.FirstName + " nods, distracted, and lets the silence hang."
	}
}
