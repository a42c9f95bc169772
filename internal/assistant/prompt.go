package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/northstackhq/funnelbot/internal/override"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// Composer builds the system instruction block for the generative provider.
type Composer struct {
	maxDiscountPct int
	overrides      override.Store
	logger         *logging.Logger
}

// NewComposer wires the composer. overrides may be nil when no admin channel
// is configured.
func NewComposer(maxDiscountPct int, overrides override.Store, logger *logging.Logger) *Composer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Composer{
		maxDiscountPct: maxDiscountPct,
		overrides:      overrides,
		logger:         logger,
	}
}

// BasePrompt is the fixed instruction block with the discount ceiling and
// default contacts interpolated.
func (c *Composer) BasePrompt() string {
	contacts := override.DefaultContacts
	return fmt.Sprintf(
		"You are the sales assistant of the NorthStack digital agency. Reply briefly and to the point.\n"+
			"Your job: consult, surface the client's task, and guide them toward a request.\n"+
			"Rules:\n"+
			"1) Maximum discount: %d%%.\n"+
			"2) Never promise exact timelines or a final budget without clarification.\n"+
			"3) Never invent case studies or guarantees that were not stated.\n"+
			"4) If the request is about a contract, payment or legal terms, offer to loop in a manager.\n"+
			"5) Ask at most one clarifying question per message, without pressure.\n"+
			"6) When information is scarce, gently suggest the next step.\n"+
			"7) Do not offer forms, commands or buttons; keep the dialogue as plain conversation.\n"+
			"Contacts: Telegram %s, Instagram %s, Email %s.",
		c.maxDiscountPct,
		contacts[override.ContactTelegram],
		contacts[override.ContactInstagram],
		contacts[override.ContactEmail],
	)
}

// SystemPrompt appends the administrator override fragment, when present, to
// the base block. Override load failures degrade to the base prompt.
func (c *Composer) SystemPrompt(ctx context.Context) string {
	base := c.BasePrompt()
	if c.overrides == nil {
		return base
	}

	custom, err := c.overrides.GetPrompt(ctx)
	if err != nil {
		c.logger.Error("failed to load prompt override", "error", err)
		return base
	}
	custom = strings.TrimSpace(custom)
	if custom == "" {
		return base
	}
	if len(custom) > override.MaxPromptLen {
		custom = custom[:override.MaxPromptLen]
	}
	return base + "\n\nAdditional scenario from the administrator:\n" + custom
}
