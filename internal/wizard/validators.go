package wizard

import (
	"regexp"
	"strings"
)

var (
	linkRE  = regexp.MustCompile(`(?i)(https?://|t\.me/|www\.)`)
	spaceRE = regexp.MustCompile(`\s+`)
	digitRE = regexp.MustCompile(`[^\d]`)
)

// undecidedBudgets are accepted in place of a number and normalized to the
// canonical "undecided" token.
var undecidedBudgets = map[string]bool{
	"undecided":     true,
	"not sure":      true,
	"don't know":    true,
	"dont know":     true,
	"no idea":       true,
	"let's discuss": true,
	"lets discuss":  true,
	"discuss":       true,
	"tbd":           true,
}

// BudgetUndecided is the canonical token stored for an open budget.
const BudgetUndecided = "undecided"

func normalize(s string) string {
	return spaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ValidateName accepts 2-5 words of at least 2 chars total, with no links.
// Returns the normalized value or a user-facing rejection message.
func ValidateName(s string) (string, string) {
	s = normalize(s)
	if len(s) < 2 {
		return "", "That name looks too short. Please write at least 2 characters."
	}
	if linkRE.MatchString(s) {
		return "", "No links needed in the name. Just write your name."
	}
	if len(strings.Fields(s)) > 5 {
		return "", "That's too long for a name. Please keep it shorter."
	}
	return s, ""
}

// ValidateCompany accepts any text of 2+ chars without links.
func ValidateCompany(s string) (string, string) {
	s = normalize(s)
	if len(s) < 2 {
		return "", "Please name the company or niche (at least 2 characters)."
	}
	if linkRE.MatchString(s) {
		return "", "Better to keep links for the task description, not the company name."
	}
	return s, ""
}

// NormalizeService clamps free-text service input; empty means invalid.
func NormalizeService(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return ""
	}
	if len(s) > 100 {
		return s[:100]
	}
	return s
}

// ValidateBudget accepts an undecided synonym or a digit string of up to
// 9 digits after stripping punctuation.
func ValidateBudget(s string) (string, string) {
	s = strings.ToLower(normalize(s))
	if undecidedBudgets[s] {
		return BudgetUndecided, ""
	}

	cleaned := digitRE.ReplaceAllString(s, "")
	if cleaned != "" && len(cleaned) <= 9 {
		return cleaned, ""
	}

	return "", "Budget: a number (for example 500 or 2000) or \"undecided\"."
}

// ValidateDetails accepts 10-1200 chars of real text, rejecting strings made
// of 3 or fewer distinct characters as gibberish.
func ValidateDetails(s string) (string, string) {
	s = normalize(s)
	if len(s) < 10 {
		return "", "Too few details. Please write at least 1-2 sentences (10+ characters)."
	}
	if len(s) > 1200 {
		return "", "Too long. Please compress the description to 1-2 paragraphs."
	}
	distinct := make(map[rune]bool)
	for _, r := range strings.ToLower(s) {
		distinct[r] = true
	}
	if len(distinct) <= 3 {
		return "", "That looks like random characters. Please describe the task in words."
	}
	return s, ""
}
