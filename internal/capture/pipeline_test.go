package capture

import (
	"context"
	"strings"
	"testing"

	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/profiles"
)

type recordingNotifier struct {
	leads []*leads.Lead
	fail  error
}

func (n *recordingNotifier) NotifyCapturedLead(_ context.Context, lead *leads.Lead, _ *profiles.Profile) error {
	if n.fail != nil {
		return n.fail
	}
	n.leads = append(n.leads, lead)
	return nil
}

func newTestPipeline(t *testing.T) (*Pipeline, *leads.InMemoryRepository, *recordingNotifier) {
	t.Helper()
	leadRepo := leads.NewInMemoryRepository()
	profileRepo := profiles.NewInMemoryRepository(leadRepo)
	notifier := &recordingNotifier{}
	p := NewPipeline(true, profileRepo, testPolicy(), notifier, nil, nil)
	return p, leadRepo, notifier
}

func msg(text string) Message {
	return Message{
		ConversationID: "tg:1001",
		Channel:        "telegram",
		ChannelUserID:  "42",
		Text:           text,
	}
}

func TestPipelineRoundTrip(t *testing.T) {
	pipeline, leadRepo, notifier := newTestPipeline(t)
	ctx := context.Background()

	r1, err := pipeline.Process(ctx, msg("hello, we run an online store and want more leads"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if r1.Sent {
		t.Fatal("first message should not emit a lead")
	}

	r2, err := pipeline.Process(ctx, msg("our company: Acme Marketing, we need it launched within 2 weeks"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if r2.Sent {
		t.Fatal("second message should not emit a lead")
	}

	r3, err := pipeline.Process(ctx, msg("my name is Alice, I need a website, budget around $2000, call me +1-555-123-4567"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !r3.Sent {
		t.Fatalf("third message should emit a lead, missing = %v", r3.MissingFields)
	}

	lead, err := leadRepo.GetByID(ctx, r3.LeadID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if lead.Source != "telegram_ai" {
		t.Errorf("Source = %q, want telegram_ai", lead.Source)
	}
	if lead.Name != "Alice" {
		t.Errorf("Name = %q, want Alice", lead.Name)
	}
	if lead.Contact != "+1-555-123-4567" {
		t.Errorf("Contact = %q", lead.Contact)
	}
	if !strings.Contains(lead.Budget, "2000") {
		t.Errorf("Budget = %q, want a 2000-ish value", lead.Budget)
	}
	if len(notifier.leads) != 1 {
		t.Errorf("notifier received %d cards, want 1", len(notifier.leads))
	}
}

func TestPipelineNeverReEmits(t *testing.T) {
	pipeline, leadRepo, _ := newTestPipeline(t)
	ctx := context.Background()

	turns := []string{
		"hello, we run an online store and want more leads",
		"our company: Acme Marketing, we need it launched within 2 weeks",
		"my name is Alice, I need a website, budget around $2000, call me +1-555-123-4567",
		"one more thing, the design should be minimal",
		"also my name is Alice reminder with budget around $9000 extra",
	}
	var sentCount int
	for _, text := range turns {
		r, err := pipeline.Process(ctx, msg(text))
		if err != nil {
			t.Fatalf("Process(%q) error = %v", text, err)
		}
		if r.Sent {
			sentCount++
		}
	}
	if sentCount != 1 {
		t.Fatalf("emitted %d leads, want exactly 1", sentCount)
	}
	list, _ := leadRepo.List(ctx, 10, 0)
	if len(list) != 1 {
		t.Fatalf("stored %d leads, want 1", len(list))
	}
}

func TestPipelineFollowUpOnThirdMessage(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)
	ctx := context.Background()

	// Three sparse messages: nothing extractable, so fields stay missing.
	texts := []string{"hello", "are you there", "thinking about a project"}
	var results []*Result
	for _, text := range texts {
		r, err := pipeline.Process(ctx, Message{ConversationID: "tg:2", Channel: "telegram", Text: text})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		results = append(results, r)
	}

	if results[0].FollowUpQuestion != "" {
		t.Error("no follow-up expected on the first message")
	}
	if results[1].FollowUpQuestion != "" {
		t.Error("no follow-up expected on the second message")
	}
	if results[2].FollowUpQuestion == "" {
		t.Error("third message with missing fields should carry a follow-up")
	}
}

func TestPipelineDisabled(t *testing.T) {
	profileRepo := profiles.NewInMemoryRepository(nil)
	pipeline := NewPipeline(false, profileRepo, testPolicy(), nil, nil, nil)

	r, err := pipeline.Process(context.Background(), msg("my name is Alice"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if r.Sent || r.FollowUpQuestion != "" {
		t.Errorf("disabled pipeline produced %+v", r)
	}
	if _, err := profileRepo.GetByConversation(context.Background(), "tg:1001"); err == nil {
		t.Error("disabled pipeline should not create profiles")
	}
}

func TestPipelineEmptyTextIgnored(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)
	r, err := pipeline.Process(context.Background(), msg("   "))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if r.Sent || len(r.MissingFields) != 0 {
		t.Errorf("blank message produced %+v", r)
	}
}

func TestPipelineNotifierFailureDoesNotFailTurn(t *testing.T) {
	pipeline, leadRepo, notifier := newTestPipeline(t)
	notifier.fail = context.DeadlineExceeded
	ctx := context.Background()

	texts := []string{
		"hello, we run an online store and want more leads",
		"our company: Acme Marketing, we need it launched within 2 weeks",
		"my name is Alice, I need a website, budget around $2000, call me +1-555-123-4567",
	}
	var last *Result
	for _, text := range texts {
		r, err := pipeline.Process(ctx, msg(text))
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		last = r
	}
	if !last.Sent {
		t.Fatal("lead should still be emitted when notification fails")
	}
	list, _ := leadRepo.List(ctx, 10, 0)
	if len(list) != 1 {
		t.Fatalf("stored %d leads, want 1", len(list))
	}
}
