package ai

import (
	"context"
	"fmt"
	"strings"

	"island-npc-engine/backend/character/models"
)

// Enricher augments a freshly generated character with AI-written color.
// Everything it writes is additive (a backstory paragraph, extra quirks,
// secrets), so the deterministic record survives any failure untouched.
type Enricher struct {
	text TextGenerator
}

// NewEnricher wraps a text generator.
func NewEnricher(text TextGenerator) *Enricher {
	return &Enricher{text: text}
}

// Enrich asks the backend for a short backstory and optional quirk/secret
// lines. Lines prefixed QUIRK: or SECRET: are split out; the rest becomes
// the backstory paragraph.
func (e *Enricher) Enrich(ctx context.Context, c *models.Character) error {
	prompt := fmt.Sprintf(
		"Write a brief backstory paragraph for %s, a %d-year-old %s %s on a remote island. "+
			"Personality quirks: %s. Fears: %s. Desires: %s. "+
			"Optionally add up to two lines starting with QUIRK: and one line starting with SECRET:.",
		c.Name.FullName,
		c.Appearance.Age,
		c.Faction,
		c.Role,
		strings.Join(c.Personality.Quirks, "; "),
		strings.Join(c.Personality.Fears, "; "),
		strings.Join(c.Personality.Desires, "; "),
	)

	out, err := e.text.GenerateText(ctx, prompt, Options{Temperature: 0.9, MaxTokens: 400})
	if err != nil {
		return err
	}

	var story []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "QUIRK:"):
			c.Personality.Quirks = append(c.Personality.Quirks,
				strings.TrimSpace(strings.TrimPrefix(line, "QUIRK:")))
		case strings.HasPrefix(line, "SECRET:"):
			c.Meta.Secrets = append(c.Meta.Secrets,
				strings.TrimSpace(strings.TrimPrefix(line, "SECRET:")))
		default:
			story = append(story, line)
		}
	}
	if c.Meta.Backstory == "" {
		c.Meta.Backstory = strings.Join(story, " ")
	}
	return nil
}
