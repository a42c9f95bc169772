package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/northstackhq/funnelbot/internal/override"
)

func TestBasePromptInterpolatesCeiling(t *testing.T) {
	composer := NewComposer(15, nil, nil)
	base := composer.BasePrompt()
	if !strings.Contains(base, "Maximum discount: 15%") {
		t.Errorf("base prompt missing ceiling: %q", base)
	}
	if !strings.Contains(base, override.DefaultContacts[override.ContactEmail]) {
		t.Error("base prompt missing default contacts")
	}
}

func TestSystemPromptWithoutOverride(t *testing.T) {
	composer := NewComposer(15, override.NewInMemoryStore(), nil)
	prompt := composer.SystemPrompt(context.Background())
	if strings.Contains(prompt, "Additional scenario") {
		t.Errorf("prompt should not mention an override when none is set: %q", prompt)
	}
}

func TestSystemPromptAppendsOverride(t *testing.T) {
	store := override.NewInMemoryStore()
	store.SetPrompt(context.Background(), "Always offer a free audit first.")

	composer := NewComposer(15, store, nil)
	prompt := composer.SystemPrompt(context.Background())
	if !strings.HasSuffix(prompt, "Always offer a free audit first.") {
		t.Errorf("override fragment not appended: %q", prompt)
	}
	if !strings.Contains(prompt, "Additional scenario from the administrator:") {
		t.Errorf("override separator missing: %q", prompt)
	}
}
