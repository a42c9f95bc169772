package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/northstackhq/funnelbot/internal/leads"
)

func TestInMemoryRepositorySaveAndGet(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	ctx := context.Background()

	p := &Profile{ConversationID: "tg:1001", Name: "Alice", MessageCount: 2}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p.ID == 0 {
		t.Fatal("Save() did not assign an id")
	}

	got, err := repo.GetByConversation(ctx, "tg:1001")
	if err != nil {
		t.Fatalf("GetByConversation() error = %v", err)
	}
	if got.Name != "Alice" || got.MessageCount != 2 {
		t.Errorf("got %+v", got)
	}

	// Updating the same conversation keeps the id.
	p.MessageCount = 3
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	again, _ := repo.GetByConversation(ctx, "tg:1001")
	if again.ID != got.ID || again.MessageCount != 3 {
		t.Errorf("after update got %+v, want same id %d and count 3", again, got.ID)
	}
}

func TestInMemoryRepositoryGetMissing(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	if _, err := repo.GetByConversation(context.Background(), "nope"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetByConversation() = %v, want %v", err, ErrProfileNotFound)
	}
}

func TestInMemoryRepositoryEmitLead(t *testing.T) {
	leadRepo := leads.NewInMemoryRepository()
	repo := NewInMemoryRepository(leadRepo)
	ctx := context.Background()

	p := &Profile{ConversationID: "tg:1002", Name: "Bob", MessageCount: 5}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	lead, err := repo.EmitLead(ctx, p, p.LeadRequest("telegram"))
	if err != nil {
		t.Fatalf("EmitLead() error = %v", err)
	}
	if lead.ID == 0 {
		t.Fatal("EmitLead() returned zero lead id")
	}
	if !p.SentToManagers || p.SentLeadID == nil || *p.SentLeadID != lead.ID {
		t.Errorf("profile not marked sent: %+v", p)
	}

	stored, err := repo.GetByConversation(ctx, "tg:1002")
	if err != nil {
		t.Fatalf("GetByConversation() error = %v", err)
	}
	if !stored.SentToManagers {
		t.Error("stored profile not marked sent")
	}
}
