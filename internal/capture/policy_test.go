package capture

import (
	"strings"
	"testing"

	"github.com/northstackhq/funnelbot/internal/profiles"
)

func testPolicy() *Policy {
	return NewPolicy(3, 60, 6)
}

func completeProfile() *profiles.Profile {
	return &profiles.Profile{
		ConversationID: "tg:1",
		Name:           "Alice",
		Company:        "Acme Marketing",
		Service:        "Website development",
		Budget:         "$2000",
		Contact:        "+15551234567",
		Details: "- we run an online store and want more leads\n" +
			"- need it launched within 2 weeks\n" +
			"- checkout should talk to our CRM",
		MessageCount: 3,
	}
}

func TestMissingFieldsComplete(t *testing.T) {
	if missing := testPolicy().MissingFields(completeProfile()); len(missing) != 0 {
		t.Errorf("MissingFields() = %v, want none", missing)
	}
}

func TestMissingFieldsEmptyProfile(t *testing.T) {
	p := &profiles.Profile{ConversationID: "tg:2", MessageCount: 1}
	missing := testPolicy().MissingFields(p)
	for _, want := range []string{FieldName, FieldCompany, FieldService, FieldTimeline, FieldBudget, FieldContact, FieldDetails} {
		found := false
		for _, m := range missing {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Errorf("MissingFields() = %v, missing %q", missing, want)
		}
	}
}

func TestIsReady(t *testing.T) {
	policy := testPolicy()

	if !policy.IsReady(completeProfile()) {
		t.Error("complete profile at message 3 should be ready")
	}

	early := completeProfile()
	early.MessageCount = 2
	if policy.IsReady(early) {
		t.Error("profile below message minimum should not be ready")
	}

	gaps := completeProfile()
	gaps.Contact = ""
	if policy.IsReady(gaps) {
		t.Error("profile with missing contact should not be ready")
	}
}

func TestSentProfileNeverReadyAgain(t *testing.T) {
	policy := testPolicy()
	p := completeProfile()
	p.SentToManagers = true
	start := p.MessageCount
	for count := start; count < start+10; count++ {
		p.MessageCount = count
		if policy.IsReady(p) {
			t.Fatalf("sent profile became ready at message_count=%d", count)
		}
	}
}

func TestFollowUpCadence(t *testing.T) {
	policy := testPolicy()
	missing := []string{FieldContact}

	tests := []struct {
		messageCount int
		want         bool
	}{
		{1, false},
		{2, false},
		{3, true},
		{4, false},
		{5, true},
	}
	for _, tt := range tests {
		p := &profiles.Profile{MessageCount: tt.messageCount}
		if got := policy.ShouldFollowUp(p, missing); got != tt.want {
			t.Errorf("ShouldFollowUp(message_count=%d) = %v, want %v", tt.messageCount, got, tt.want)
		}
	}
}

func TestFollowUpSuppressedWhenNothingMissing(t *testing.T) {
	p := &profiles.Profile{MessageCount: 3}
	if testPolicy().ShouldFollowUp(p, nil) {
		t.Error("ShouldFollowUp() with no missing fields should be false")
	}
}

func TestFollowUpDetailsOnlyWaitsLonger(t *testing.T) {
	policy := testPolicy()
	missing := []string{FieldDetails}

	if policy.ShouldFollowUp(&profiles.Profile{MessageCount: 3}, missing) {
		t.Error("details-only gap should stay quiet before the configured turn")
	}
	if !policy.ShouldFollowUp(&profiles.Profile{MessageCount: 7}, missing) {
		t.Error("details-only gap should be asked about eventually")
	}
}

func TestFollowUpQuestionPriority(t *testing.T) {
	policy := testPolicy()

	missing := []string{FieldBudget, FieldContact, FieldCompany}
	if got := policy.FollowUpQuestion(missing); got != questionByField[FieldContact] {
		t.Errorf("FollowUpQuestion() = %q, want contact prompt", got)
	}
	if got := policy.FollowUpQuestion(nil); got != "" {
		t.Errorf("FollowUpQuestion(nil) = %q, want empty", got)
	}
}

func TestBuildLeadRequest(t *testing.T) {
	req := testPolicy().BuildLeadRequest(completeProfile(), "telegram")

	if req.Source != "telegram_ai" {
		t.Errorf("Source = %q, want telegram_ai", req.Source)
	}
	if req.Name != "Alice" || req.Budget != "$2000" {
		t.Errorf("req = %+v", req)
	}
	if !strings.Contains(req.Details, "Client: Alice") {
		t.Errorf("summary missing client line: %q", req.Details)
	}
	if !strings.Contains(req.Details, "Timeline: ") {
		t.Errorf("summary missing timeline line: %q", req.Details)
	}
	if !strings.Contains(req.Details, "Priorities: ") {
		t.Errorf("summary missing priorities line: %q", req.Details)
	}
	if len(req.Details) > maxSummaryLen {
		t.Errorf("summary length = %d, want <= %d", len(req.Details), maxSummaryLen)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("built request should validate, got %v", err)
	}
}

func TestBuildGoalAndScope(t *testing.T) {
	tags := []string{"Process automation", "Lead generation and sales"}
	if got := BuildGoal("CRM", tags); !strings.Contains(got, "pipeline") {
		t.Errorf("BuildGoal() = %q, want sales goal to win", got)
	}
	if got := BuildGoal("CRM", nil); !strings.Contains(got, "crm") {
		t.Errorf("BuildGoal() fallback = %q", got)
	}
	if got := BuildScope("CRM", tags); !strings.Contains(got, "Priority blocks") {
		t.Errorf("BuildScope() = %q", got)
	}
	if got := BuildScope("CRM", nil); got != "CRM." {
		t.Errorf("BuildScope() = %q, want CRM.", got)
	}
}
