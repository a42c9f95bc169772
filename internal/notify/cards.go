package notify

import (
	"fmt"
	"strings"

	"github.com/northstackhq/funnelbot/internal/capture"
	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/profiles"
)

// maxCardLen matches the outbound delivery limit for plain-text messages.
const maxCardLen = 3500

// FormatCapturedLeadCard renders the manager card for a passively captured
// lead, combining the stored lead with the profile's ledger context.
func FormatCapturedLeadCard(lead *leads.Lead, profile *profiles.Profile) string {
	items := capture.DetailItems(profile.Details)
	tags := capture.DeriveTags(items)
	timeline := capture.GuessTimeline(items)
	if timeline == "" {
		timeline = "Needs clarification"
	}

	username := profile.ChannelUsername
	if username == "" {
		username = "no_username"
	}

	contextItems := tags
	if len(contextItems) == 0 {
		contextItems = []string{"Functional scope still needs clarification"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New client card (#%d)\n\n", lead.ID)
	fmt.Fprintf(&b, "Client: %s\n", lead.Name)
	fmt.Fprintf(&b, "Company/niche: %s\n", lead.Company)
	fmt.Fprintf(&b, "Contact: %s\n", lead.Contact)
	fmt.Fprintf(&b, "Handle: %s\n", username)
	fmt.Fprintf(&b, "Conversation: %s\n", profile.ConversationID)
	fmt.Fprintf(&b, "Source: %s\n\n", lead.Source)
	fmt.Fprintf(&b, "Client goal\n%s\n\n", capture.BuildGoal(lead.Service, tags))
	fmt.Fprintf(&b, "Task context\n%s\n\n", capture.BuildScope(lead.Service, tags))
	fmt.Fprintf(&b, "Budget: %s\n", lead.Budget)
	fmt.Fprintf(&b, "Timeline: %s\n\n", timeline)
	b.WriteString("Key points\n")
	for _, item := range contextItems {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\nNext step for the manager\n")
	b.WriteString("Contact the client, confirm scope and timeline, and prepare a proposal.")

	return clampCard(b.String())
}

// FormatNewLeadCard renders the short card for a lead submitted through the
// intake wizard or HTTP API.
func FormatNewLeadCard(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New request (#%d)\n\n", lead.ID)
	fmt.Fprintf(&b, "Client: %s\n", lead.Name)
	fmt.Fprintf(&b, "Company/niche: %s\n", lead.Company)
	fmt.Fprintf(&b, "Service: %s\n", lead.Service)
	fmt.Fprintf(&b, "Budget: %s\n", lead.Budget)
	fmt.Fprintf(&b, "Contact: %s\n", lead.Contact)
	fmt.Fprintf(&b, "Source: %s\n\n", lead.Source)
	fmt.Fprintf(&b, "Details\n%s", lead.Details)
	return clampCard(b.String())
}

// FormatEscalationCard renders the hand-off alert for an escalated turn.
func FormatEscalationCard(conversationID, userText, reason string) string {
	if reason == "" {
		reason = "unspecified"
	}
	var b strings.Builder
	b.WriteString("Escalation: a client is waiting for a human\n\n")
	fmt.Fprintf(&b, "Conversation: %s\n", conversationID)
	fmt.Fprintf(&b, "Reason: %s\n\n", reason)
	fmt.Fprintf(&b, "Last message\n%s", userText)
	return clampCard(b.String())
}

func clampCard(card string) string {
	if len(card) > maxCardLen {
		return card[:maxCardLen]
	}
	return card
}
