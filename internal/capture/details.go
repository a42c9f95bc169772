package capture

import "strings"

// MaxDetailsLedger caps the accumulated free-text ledger.
const MaxDetailsLedger = 4000

// requirementTags maps a display label to the utterance substrings that
// imply it. At most five labels are attached to a lead.
var requirementTags = []struct {
	label string
	keys  []string
}{
	{"Third-party integrations", []string{"integrat", "api", "zapier", "hubspot", "salesforce", "google"}},
	{"Process automation", []string{"automat", "optimiz", "manual work", "workflow"}},
	{"Lead generation and sales", []string{"lead", "sales", "funnel", "convers", "inquir"}},
	{"Customer support", []string{"support", "chat", "faq", "helpdesk"}},
	{"MVP launch", []string{"mvp", "prototype", "pilot"}},
	{"Mobile channel", []string{"mobile", "ios", "android", " app"}},
}

const maxTags = 5

// MergeDetails appends text to the bullet ledger, skipping fragments already
// contained in it.
func MergeDetails(oldValue, text string) string {
	chunk := strings.TrimSpace(text)
	previous := strings.TrimSpace(oldValue)
	if chunk == "" {
		return previous
	}
	if strings.Contains(previous, chunk) {
		return previous
	}

	merged := "- " + chunk
	if previous != "" {
		merged = previous + "\n" + merged
	}
	if len(merged) > MaxDetailsLedger {
		merged = merged[:MaxDetailsLedger]
	}
	return merged
}

// DetailItems splits the ledger back into distinct bullet fragments.
func DetailItems(details string) []string {
	if details == "" {
		return nil
	}

	var items []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(details, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		items = append(items, line)
	}
	return items
}

// DeriveTags scans the ledger fragments against the requirement table.
func DeriveTags(items []string) []string {
	joined := strings.ToLower(strings.Join(items, " "))
	var tags []string
	for _, rt := range requirementTags {
		for _, key := range rt.keys {
			if strings.Contains(joined, key) {
				tags = append(tags, rt.label)
				break
			}
		}
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// GuessTimeline re-scans ledger fragments for a deadline marker.
func GuessTimeline(items []string) string {
	for _, item := range items {
		if candidate := ExtractTimeline(item); candidate != "" {
			return candidate
		}
	}
	return ""
}
