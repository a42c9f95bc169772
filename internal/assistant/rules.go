package assistant

import (
	"fmt"
	"regexp"
	"strings"
)

// Escalation reason tags carried on a turn result.
const (
	ReasonDiscountLimit = "discount_limit"
	ReasonManualRequest = "manual_request"
	ReasonKeyword       = "keyword"
)

// Result is the outcome of one conversational turn.
type Result struct {
	Reply    string
	Escalate bool
	Reason   string
}

var discountPctRE = regexp.MustCompile(`(\d{1,3})\s*%`)

// escalationKeywords trigger human hand-off when present in an utterance.
var escalationKeywords = []string{
	"manager",
	"operator",
	"human",
	"complaint",
	"contract",
	"invoice",
	"payment",
	"prepayment",
	"refund",
	"lawyer",
	"legal",
	"urgent",
}

// Enforcer applies the deterministic business rules that run before, and
// independent of, any generative call.
type Enforcer struct {
	maxDiscountPct int
}

func NewEnforcer(maxDiscountPct int) *Enforcer {
	return &Enforcer{maxDiscountPct: maxDiscountPct}
}

// EnforceDiscount short-circuits the turn when the user asks for a discount
// above the ceiling. Returns nil when the generative path may proceed.
func (e *Enforcer) EnforceDiscount(text string) *Result {
	lowered := strings.ToLower(text)
	if !strings.Contains(lowered, "discount") && !strings.Contains(lowered, "% off") {
		return nil
	}

	matches := discountPctRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	requested := 0
	for _, m := range matches {
		var pct int
		fmt.Sscanf(m[1], "%d", &pct)
		if pct > requested {
			requested = pct
		}
	}
	if requested <= e.maxDiscountPct {
		return nil
	}

	reply := fmt.Sprintf(
		"I can offer up to %d%% off within our current terms. "+
			"If you need more flexibility on price, I'll loop in a manager to put together an individual package.",
		e.maxDiscountPct,
	)
	return &Result{Reply: reply, Escalate: true, Reason: ReasonDiscountLimit}
}

// NeedsEscalation scans for keywords that mean a human should take over.
func (e *Enforcer) NeedsEscalation(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range escalationKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
