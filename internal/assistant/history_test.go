package assistant

import (
	"strings"
	"testing"
)

func TestHistoryAppendAndTurns(t *testing.T) {
	h := NewHistory(4, 10000)
	h.Append("c1", RoleUser, "hello")
	h.Append("c1", RoleAssistant, "hi, how can I help?")
	h.Append("c2", RoleUser, "other conversation")

	turns := h.Turns("c1")
	if len(turns) != 2 {
		t.Fatalf("Turns() = %d entries, want 2", len(turns))
	}
	if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
		t.Errorf("turns = %+v", turns)
	}
	if len(h.Turns("c2")) != 1 {
		t.Error("conversations should not share history")
	}
}

func TestHistoryCountEviction(t *testing.T) {
	h := NewHistory(3, 10000)
	for _, text := range []string{"one", "two", "three", "four"} {
		h.Append("c1", RoleUser, text)
	}
	turns := h.Turns("c1")
	if len(turns) != 3 {
		t.Fatalf("Turns() = %d entries, want 3", len(turns))
	}
	if turns[0].Text != "two" {
		t.Errorf("oldest surviving entry = %q, want %q", turns[0].Text, "two")
	}
}

func TestHistoryCharBudgetEvictsOldestFirst(t *testing.T) {
	h := NewHistory(50, 500)
	for i := 0; i < 10; i++ {
		h.Append("c1", RoleUser, strings.Repeat("x", 100))
	}

	turns := h.Turns("c1")
	total := 0
	for _, turn := range turns {
		total += len(turn.Text)
	}
	if total > 500 {
		t.Errorf("summed text length = %d, want <= 500", total)
	}
	if len(turns) != 5 {
		t.Errorf("surviving entries = %d, want 5", len(turns))
	}
}

func TestHistoryCharBudgetKeepsNewest(t *testing.T) {
	h := NewHistory(50, 500)
	h.Append("c1", RoleUser, strings.Repeat("a", 400))
	h.Append("c1", RoleUser, strings.Repeat("b", 400))

	turns := h.Turns("c1")
	if len(turns) != 1 {
		t.Fatalf("surviving entries = %d, want 1", len(turns))
	}
	if turns[0].Text[0] != 'b' {
		t.Error("eviction removed the newest entry instead of the oldest")
	}
}

func TestHistoryMinimumCapacities(t *testing.T) {
	h := NewHistory(0, 0)
	if h.maxTurns != 2 {
		t.Errorf("maxTurns = %d, want floor 2", h.maxTurns)
	}
	if h.maxChars != 500 {
		t.Errorf("maxChars = %d, want floor 500", h.maxChars)
	}
}

func TestHistoryForget(t *testing.T) {
	h := NewHistory(4, 1000)
	h.Append("c1", RoleUser, "hello")
	h.Forget("c1")
	if len(h.Turns("c1")) != 0 {
		t.Error("Forget() left entries behind")
	}
}
