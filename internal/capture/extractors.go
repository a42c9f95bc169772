// Package capture mines free-form conversation text for lead fields and
// decides when an accumulated profile is ready to hand to the sales team.
package capture

import (
	"regexp"
	"strings"

	"github.com/northstackhq/funnelbot/internal/leads"
)

var (
	emailRE    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRE    = regexp.MustCompile(`\+?\d[\d\s()\-]{7,}\d`)
	usernameRE = regexp.MustCompile(`@[A-Za-z0-9_]{3,32}`)
	spaceRE    = regexp.MustCompile(`\s+`)

	budgetRE = regexp.MustCompile(`(?i)(?:budget|around|approximately|roughly|up to)\s*[:\-]?\s*([^\n]{2,50})`)
	numberRE = regexp.MustCompile(`\d[\d\s]{2,}`)

	nameRE = regexp.MustCompile(`(?i)(?:my name is|i am|i'm|this is)\s+([A-Za-z][A-Za-z\-\s]{1,60})`)

	companyRE = regexp.MustCompile(`(?i)(?:our company|my company|company|our niche|niche|industry)\s*(?:is)?\s*[:\-]?\s*([^\n,.]{2,100})`)

	serviceHintRE = regexp.MustCompile(`(?i)(?:i want to build|we want to build|i need|we need|i want|looking for|interested in)\s+([^\n]{3,100})`)

	timelineRE = regexp.MustCompile(`(?i)(?:deadline|due date|launch date|by\s+\d{1,2}[./]\d{1,2}|within\s+\d+|\d+\s*(?:day|days|week|weeks|month|months))`)
)

// serviceKeywords maps utterance substrings to a canonical service label.
var serviceKeywords = []struct {
	key   string
	label string
}{
	{"website", "Website development"},
	{"site", "Website development"},
	{"landing", "Landing page"},
	{"chatbot", "Bot development"},
	{"bot", "Bot development"},
	{"crm", "CRM"},
	{"mobile app", "Mobile app"},
	{"automation", "Automation"},
	{"integration", "Integrations"},
}

// ExtractContact returns the first email, phone-like digit run or @-handle in
// text, falling back to the channel-provided username hint.
func ExtractContact(text, username string) string {
	if m := emailRE.FindString(text); m != "" {
		return m
	}
	if m := phoneRE.FindString(text); m != "" {
		return strings.TrimSpace(spaceRE.ReplaceAllString(m, " "))
	}
	if m := usernameRE.FindString(text); m != "" {
		return m
	}
	if username != "" {
		return "@" + username
	}
	return ""
}

// ExtractBudget returns the text following a budget indicator, or a bare
// number when the message carries a currency marker.
func ExtractBudget(text string) string {
	if m := budgetRE.FindStringSubmatch(text); m != nil {
		return leads.Clamp(m[1], leads.MaxBudgetLen)
	}

	lowered := strings.ToLower(text)
	hasCurrency := strings.Contains(lowered, "$") ||
		strings.Contains(lowered, "usd") ||
		strings.Contains(lowered, "eur") ||
		strings.Contains(lowered, "dollar")
	if hasCurrency {
		if m := numberRE.FindString(text); m != "" {
			return leads.Clamp(m, leads.MaxBudgetLen)
		}
	}
	return ""
}

// ExtractName returns text following a self-introduction phrase, falling back
// to the channel display name hint.
func ExtractName(text, displayName string) string {
	if m := nameRE.FindStringSubmatch(text); m != nil {
		return leads.Clamp(m[1], leads.MaxNameLen)
	}
	return leads.Clamp(displayName, leads.MaxNameLen)
}

// ExtractCompany returns text following a company or niche indicator.
func ExtractCompany(text string) string {
	if m := companyRE.FindStringSubmatch(text); m != nil {
		return leads.Clamp(m[1], leads.MaxCompanyLen)
	}
	return ""
}

// ExtractService returns text following an intent phrase, else a canonical
// label from the keyword table.
func ExtractService(text string) string {
	if m := serviceHintRE.FindStringSubmatch(text); m != nil {
		return leads.Clamp(m[1], leads.MaxServiceLen)
	}

	lowered := strings.ToLower(text)
	for _, kw := range serviceKeywords {
		if strings.Contains(lowered, kw.key) {
			return kw.label
		}
	}
	return ""
}

// ExtractTimeline returns the whole clamped utterance when it carries a
// deadline or duration marker.
func ExtractTimeline(text string) string {
	if timelineRE.MatchString(text) {
		return leads.Clamp(text, 120)
	}
	return ""
}
