package service

import (
	"fmt"
	"strings"
	"time"

	"island-npc-engine/backend/character/models"
)

// relevantMemoryCount is how many scored memories the prompt includes.
const relevantMemoryCount = 5

// BuildDialoguePrompt assembles the system prompt from the character's
// profile, mood, relationship scalars, relevant memories, and the last few
// turns. The external service sees everything it needs in one string.
func BuildDialoguePrompt(c *models.Character, playerLine string, now time.Time) string {
	var b strings.Builder

	rel := c.Relationships.Player
	fmt.Fprintf(&b, "You are %s, a %d-year-old %s %s on a remote island. Stay in character; reply with spoken dialogue only, one to three sentences.\n",
		c.Name.FullName, c.Appearance.Age, c.Faction, c.Role)

	fmt.Fprintf(&b, "Appearance: %s build, %s %s hair, %s eyes, wearing %s.\n",
		c.Appearance.Build, c.Appearance.HairLength, c.Appearance.HairColor,
		c.Appearance.EyeColor, c.Appearance.Clothing)

	fmt.Fprintf(&b, "Background: %s\n", backgroundSummary(c))

	if len(c.Personality.Quirks) > 0 {
		fmt.Fprintf(&b, "Quirks: %s.\n", strings.Join(c.Personality.Quirks, "; "))
	}
	if len(c.Personality.Fears) > 0 {
		fmt.Fprintf(&b, "Fears: %s.\n", strings.Join(c.Personality.Fears, "; "))
	}
	if c.Meta.Backstory != "" {
		fmt.Fprintf(&b, "Backstory: %s\n", c.Meta.Backstory)
	}

	fmt.Fprintf(&b, "Current mood: %s. Relationship with the player: opinion %d, trust %d, respect %d, fear %d, romantic %d. Conversation stage: %s.\n",
		c.RefreshMood(), rel.Opinion, rel.Trust, rel.Respect, rel.Fear, rel.Romantic, c.Memory.Phase)

	b.WriteString(phaseGuidance(c.Memory.Phase))

	if memories := c.Memory.RelevantMemories(playerLine, relevantMemoryCount, now); len(memories) > 0 {
		b.WriteString("You remember:\n")
		for _, m := range memories {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	if turns := c.Memory.RecentTurns(promptTurns); len(turns) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Text)
		}
	}

	fmt.Fprintf(&b, "The player says: %q\n", playerLine)
	return b.String()
}

func phaseGuidance(p models.ConversationPhase) string {
	switch p {
	case models.PhaseIntimate:
		return "You speak openly and personally; this person matters to you.\n"
	case models.PhaseFamiliar:
		return "You speak warmly but keep some things back.\n"
	default:
		return "You are guarded with this stranger; give little away.\n"
	}
}

func backgroundSummary(c *models.Character) string {
	bg := c.Background
	switch bg.Kind {
	case models.BackgroundNative:
		n := bg.Native
		return fmt.Sprintf("of the %s tribe, %s, serving as %s. %s.",
			n.Tribe, n.Lineage, n.CulturalRole, bg.Bio.DefiningEvent)
	case models.BackgroundMercenary:
		m := bg.Mercenary
		return fmt.Sprintf("%s %s under contract with %s, specialized in %s. Mission: %s.",
			m.Rank, c.Role, m.Employer, m.Specialization, m.Mission)
	default:
		cw := bg.Castaway
		return fmt.Sprintf("your past is %s; you are %s, haunted by dreams of %s.",
			models.UnknownAmnesia, cw.IslandIdentity, cw.DreamMotif)
	}
}
