package service

import (
	"context"
	"fmt"
	"strings"

	"island-npc-engine/backend/ai"
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/hex"
)

// rumorImportance is the memory weight of secondhand news.
const rumorImportance = 3

// violenceKeywords trigger the opinion/fear side effects on hearers.
var violenceKeywords = []string{"kill", "attack"}

// SpreadRumor turns a witnessed event into gossip. The witness's
// personality colors the rumor text (via the external text service, with
// the raw event as fallback); every character within the axial range,
// witness included, receives a memory event, and violent events also cost
// the player opinion and add fear. This is a single hop from the direct
// witness, not multi-hop diffusion. Returns how many characters heard it.
func (o *Orchestrator) SpreadRumor(ctx context.Context, event, witnessID string, radius int) (int, error) {
	witness, ok := o.directory.Get(witnessID)
	if !ok {
		return 0, ErrCharacterNotFound
	}

	rumorText := o.rumorText(ctx, witness, event)
	violent := containsViolence(event)
	now := o.now()

	heard := 0
	for _, c := range o.directory.All() {
		if hex.Distance(witness.Location, c.Location) > radius {
			continue
		}
		c.Memory.Remember("Heard a rumor: "+rumorText, rumorImportance, now)
		if violent {
			c.Relationships.Player.Adjust(models.RelationshipDelta{Opinion: -10, Fear: 5})
			c.Memory.Phase = models.PhaseFor(c.Relationships.Player)
			c.RefreshMood()
		}
		heard++
	}
	return heard, nil
}

func (o *Orchestrator) rumorText(ctx context.Context, witness *models.Character, event string) string {
	prompt := fmt.Sprintf(
		"Rewrite this event as a one-sentence rumor told by %s, whose quirks are %s and whose motivations are %s: %q",
		witness.Name.FullName,
		strings.Join(witness.Personality.Quirks, "; "),
		strings.Join(witness.Personality.Motivations, "; "),
		event,
	)
	text, err := o.text.GenerateText(ctx, prompt, ai.Options{Temperature: 0.9, MaxTokens: 120})
	if err != nil {
		o.log.WithCharacterID(witness.ID).Warn("rumor generation failed, spreading raw event",
			"error", err.Error())
		return event
	}
	return text
}

func containsViolence(event string) bool {
	lower := strings.ToLower(event)
	for _, kw := range violenceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
