package models

import (
	"sort"
	"strings"
	"time"
)

const (
	// MemoryCap is the maximum number of retained memory events. Inserts
	// past the cap evict the lowest-importance events, not the oldest.
	MemoryCap = 100

	// HistoryCap bounds the rolling dialogue history.
	HistoryCap = 50
)

// MemoryEvent is one timestamped thing the character experienced or heard.
type MemoryEvent struct {
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	Importance      float64   `json:"importance"`
	EmotionalImpact int       `json:"emotional_impact"`
}

// DialogueTurn is one exchange in the rolling conversation history.
type DialogueTurn struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MemoryLog is a character's bounded memory: the capped event list, the
// current conversation phase, and the rolling dialogue history.
type MemoryLog struct {
	Events  []MemoryEvent     `json:"events"`
	Phase   ConversationPhase `json:"phase"`
	History []DialogueTurn    `json:"history"`
}

// impactKeywords maps memory content keywords to the fixed emotional
// impact they imply. Checked in declaration order; first match wins.
var impactKeywords = []struct {
	words  []string
	impact int
}{
	{[]string{"saved", "rescued"}, 3},
	{[]string{"gift", "helped"}, 2},
	{[]string{"attacked", "threatened"}, -3},
	{[]string{"stole", "betrayed"}, -2},
}

// EmotionalImpactOf derives the impact scalar from content keywords.
func EmotionalImpactOf(content string) int {
	lower := strings.ToLower(content)
	for _, rule := range impactKeywords {
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				return rule.impact
			}
		}
	}
	return 0
}

// Remember appends a timestamped event and, if the cap is exceeded, keeps
// only the MemoryCap highest-importance events. Ties break in favor of the
// earlier event, and the survivors stay in their original order.
func (m *MemoryLog) Remember(content string, importance float64, now time.Time) {
	m.Events = append(m.Events, MemoryEvent{
		Content:         content,
		Timestamp:       now,
		Importance:      importance,
		EmotionalImpact: EmotionalImpactOf(content),
	})
	if len(m.Events) > MemoryCap {
		m.evict()
	}
}

// evict retains the MemoryCap highest-importance events in original order.
func (m *MemoryLog) evict() {
	idx := make([]int, len(m.Events))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return m.Events[idx[a]].Importance > m.Events[idx[b]].Importance
	})
	keep := idx[:MemoryCap]
	sort.Ints(keep)

	kept := make([]MemoryEvent, 0, MemoryCap)
	for _, i := range keep {
		kept = append(kept, m.Events[i])
	}
	m.Events = kept
}

// RelevantMemories scores every event against a context string and returns
// the contents of the top maxResults. Score is importance plus 0.5 per
// context keyword found in the event, plus a recency bonus (+1 under 24h,
// +0.5 under a week).
func (m *MemoryLog) RelevantMemories(context string, maxResults int, now time.Time) []string {
	if maxResults <= 0 || len(m.Events) == 0 {
		return nil
	}

	keywords := strings.Fields(strings.ToLower(context))

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(m.Events))
	for i, ev := range m.Events {
		s := ev.Importance
		lower := strings.ToLower(ev.Content)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				s += 0.5
			}
		}
		age := now.Sub(ev.Timestamp)
		if age < 24*time.Hour {
			s += 1
		} else if age < 168*time.Hour {
			s += 0.5
		}
		scores[i] = scored{idx: i, score: s}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})

	if maxResults > len(scores) {
		maxResults = len(scores)
	}
	out := make([]string, 0, maxResults)
	for _, s := range scores[:maxResults] {
		out = append(out, m.Events[s.idx].Content)
	}
	return out
}

// AppendTurn adds a dialogue turn to the rolling history, trimming the
// oldest entries past HistoryCap.
func (m *MemoryLog) AppendTurn(speaker, text string, now time.Time) {
	m.History = append(m.History, DialogueTurn{
		Speaker:   speaker,
		Text:      text,
		Timestamp: now,
	})
	if len(m.History) > HistoryCap {
		m.History = m.History[len(m.History)-HistoryCap:]
	}
}

// RecentTurns returns up to n of the most recent dialogue turns, oldest
// first.
func (m *MemoryLog) RecentTurns(n int) []DialogueTurn {
	if n <= 0 || len(m.History) == 0 {
		return nil
	}
	if n > len(m.History) {
		n = len(m.History)
	}
	return m.History[len(m.History)-n:]
}

// RecentUtterances returns the character's own last n lines, newest last.
// The dialogue loop uses these for repetition judging.
func (m *MemoryLog) RecentUtterances(speaker string, n int) []string {
	var out []string
	for i := len(m.History) - 1; i >= 0 && len(out) < n; i-- {
		if m.History[i].Speaker == speaker {
			out = append(out, m.History[i].Text)
		}
	}
	// Collected newest-first; reverse to chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
