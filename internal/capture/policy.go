package capture

import (
	"strings"

	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/profiles"
)

// Field names used in missing-field reports, ordered for display.
const (
	FieldName     = "name"
	FieldCompany  = "company"
	FieldService  = "service"
	FieldTimeline = "timeline"
	FieldBudget   = "budget"
	FieldContact  = "contact"
	FieldDetails  = "details"
)

// questionByField holds one canned follow-up prompt per field.
var questionByField = map[string]string{
	FieldName:     "If you don't mind, what name should we use for you?",
	FieldCompany:  "Could you tell us a bit about your company or niche?",
	FieldService:  "Which service matters most right now (website, bot, CRM, automation)?",
	FieldTimeline: "If you already have a launch date in mind, let us know.",
	FieldBudget:   "If you have a rough budget in mind, that helps us plan.",
	FieldContact:  "Leave a convenient contact (phone, @username or email) and we'll follow up.",
	FieldDetails:  "Feel free to add any key requirements for the result.",
}

// followUpPriority is the order in which missing fields are asked about.
var followUpPriority = []string{
	FieldName, FieldService, FieldContact, FieldCompany, FieldTimeline, FieldBudget, FieldDetails,
}

// Policy decides readiness and follow-up pacing for partial profiles.
type Policy struct {
	minMessages          int
	minDetailsChars      int
	detailsAfterMessages int
}

// NewPolicy builds a policy from the configured thresholds.
func NewPolicy(minMessages, minDetailsChars, detailsAfterMessages int) *Policy {
	if minMessages < 1 {
		minMessages = 1
	}
	if minDetailsChars < 20 {
		minDetailsChars = 20
	}
	if detailsAfterMessages < 1 {
		detailsAfterMessages = 6
	}
	return &Policy{
		minMessages:          minMessages,
		minDetailsChars:      minDetailsChars,
		detailsAfterMessages: detailsAfterMessages,
	}
}

// MissingFields reports which lead fields the profile still lacks.
func (p *Policy) MissingFields(profile *profiles.Profile) []string {
	items := DetailItems(profile.Details)
	timeline := GuessTimeline(items)

	var missing []string
	if profile.Name == "" {
		missing = append(missing, FieldName)
	}
	if profile.Company == "" {
		missing = append(missing, FieldCompany)
	}
	if profile.Service == "" {
		missing = append(missing, FieldService)
	}
	if timeline == "" {
		missing = append(missing, FieldTimeline)
	}
	if profile.Budget == "" {
		missing = append(missing, FieldBudget)
	}
	if profile.Contact == "" {
		missing = append(missing, FieldContact)
	}
	if len(strings.TrimSpace(profile.Details)) < p.minDetailsChars {
		missing = append(missing, FieldDetails)
	}
	return missing
}

// IsReady reports whether the profile can be emitted as a lead. A profile
// already sent to managers is never ready again.
func (p *Policy) IsReady(profile *profiles.Profile) bool {
	if profile.SentToManagers {
		return false
	}
	if profile.MessageCount < p.minMessages {
		return false
	}
	return len(p.MissingFields(profile)) == 0
}

// ShouldFollowUp decides whether this turn should carry a nudge for missing
// information. Questions go out every other message so the user is not
// pressured, and a details-only gap waits a few more turns.
func (p *Policy) ShouldFollowUp(profile *profiles.Profile, missing []string) bool {
	if len(missing) == 0 {
		return false
	}
	if profile.MessageCount < 2 {
		return false
	}
	if profile.MessageCount%2 == 0 {
		return false
	}
	if len(missing) == 1 && missing[0] == FieldDetails && profile.MessageCount < p.detailsAfterMessages {
		return false
	}
	return true
}

// FollowUpQuestion picks the canned prompt for the highest-priority missing
// field.
func (p *Policy) FollowUpQuestion(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	for _, key := range followUpPriority {
		for _, m := range missing {
			if m == key {
				return questionByField[key]
			}
		}
	}
	return questionByField[missing[0]]
}

// BuildLeadRequest assembles the finalized intake payload for a ready
// profile, composing the internal summary from everything the ledger knows.
func (p *Policy) BuildLeadRequest(profile *profiles.Profile, channel string) *leads.CreateLeadRequest {
	items := DetailItems(profile.Details)
	tags := DeriveTags(items)
	timeline := GuessTimeline(items)

	req := profile.LeadRequest(channel)
	req.Details = buildInternalSummary(req, timeline, tags)
	return req
}

const maxSummaryLen = 1200

func buildInternalSummary(req *leads.CreateLeadRequest, timeline string, tags []string) string {
	if timeline == "" {
		timeline = "not specified"
	}
	lines := []string{
		"Client: " + req.Name,
		"Company/niche: " + req.Company,
		"Service: " + req.Service,
		"Budget: " + req.Budget,
		"Timeline: " + timeline,
		"Contact: " + req.Contact,
	}
	if len(tags) > 0 {
		lines = append(lines, "Priorities: "+strings.Join(tags, ", "))
	}
	summary := strings.Join(lines, "\n")
	if len(summary) > maxSummaryLen {
		summary = summary[:maxSummaryLen]
	}
	return summary
}

// BuildGoal phrases the client's objective from the derived tags.
func BuildGoal(service string, tags []string) string {
	has := func(label string) bool {
		for _, tag := range tags {
			if tag == label {
				return true
			}
		}
		return false
	}
	switch {
	case has("Lead generation and sales"):
		return "Grow the inbound pipeline and speed up handling of prospects."
	case has("Process automation"):
		return "Reduce manual workload and speed up operational processes."
	case has("Customer support"):
		return "Raise the quality and speed of customer communication."
	}
	return "Deliver the client's request in the area of: " + strings.ToLower(service) + "."
}

// BuildScope phrases the engagement scope from the service and tags.
func BuildScope(service string, tags []string) string {
	if len(tags) == 0 {
		return service + "."
	}
	return service + ". Priority blocks: " + strings.Join(tags, ", ") + "."
}
