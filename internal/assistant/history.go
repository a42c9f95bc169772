// Package assistant implements the conversational side of the funnel: a
// bounded per-conversation memory, a prompt composer, deterministic business
// rules and the orchestrated reply flow around a generative provider.
package assistant

import "sync"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one remembered exchange entry.
type Turn struct {
	Role string
	Text string
}

// History keeps a bounded, insertion-ordered window of turns per
// conversation. Entries are process-local and lost on restart.
type History struct {
	mu       sync.Mutex
	maxTurns int
	maxChars int
	byConv   map[string][]Turn
}

// NewHistory builds a history window. Capacity floors: 2 turns, 500 chars.
func NewHistory(maxTurns, maxChars int) *History {
	if maxTurns < 2 {
		maxTurns = 2
	}
	if maxChars < 500 {
		maxChars = 500
	}
	return &History{
		maxTurns: maxTurns,
		maxChars: maxChars,
		byConv:   make(map[string][]Turn),
	}
}

// Append records a turn, evicting oldest entries first when either the turn
// count or the summed character budget is exceeded.
func (h *History) Append(conversationID, role, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := append(h.byConv[conversationID], Turn{Role: role, Text: text})
	if len(turns) > h.maxTurns {
		turns = turns[len(turns)-h.maxTurns:]
	}

	total := 0
	for _, t := range turns {
		total += len(t.Text)
	}
	for len(turns) > 0 && total > h.maxChars {
		total -= len(turns[0].Text)
		turns = turns[1:]
	}

	h.byConv[conversationID] = turns
}

// Turns returns a copy of the conversation's remembered window.
func (h *History) Turns(conversationID string) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := h.byConv[conversationID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Forget drops a conversation's window entirely.
func (h *History) Forget(conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.byConv, conversationID)
}
