package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/observability/metrics"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// Canned prompts and confirmations, in order of the flow.
const (
	promptIntro   = "New request to NorthStack\n\nWhat's your name?\nTo cancel at any point, send: /cancel"
	promptName    = "What's your name?"
	promptCompany = "Company or niche? (\"private order\" works too)"
	promptService = "Which service do you need? (for example: website, bot, CRM, support)"
	promptBudget  = "Rough budget? (a number or \"undecided\")"
	promptDetails = "Describe the task and timeline (1-2 paragraphs):"
	promptContact = "Leave a contact so we can reach you (phone, @username or email)."

	msgCancelled      = "Okay, the request is cancelled. To start again, send /lead"
	msgContactShort   = "That contact looks too short. Please write a phone, @username or email."
	msgSubmitFailed   = "We couldn't send your request. Please try again in a couple of minutes."
	msgSubmitted      = "Request received. We'll get back to you shortly."
	msgCorruptedReset = "The request got into a bad state and was reset. Please start again with /lead"
)

// Reply is what the engine wants said back to the user after one input.
type Reply struct {
	Text string
	// Done is true when the flow finished this turn, by submission or reset.
	Done bool
}

// Engine drives the linear intake flow. It owns draft persistence and hands
// completed payloads to the lead submitter.
type Engine struct {
	store     Store
	submitter leads.Submitter
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewEngine wires the wizard. m may be nil.
func NewEngine(store Store, submitter leads.Submitter, m *metrics.Metrics, logger *logging.Logger) *Engine {
	if store == nil {
		panic("wizard: store required")
	}
	if submitter == nil {
		panic("wizard: submitter required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{store: store, submitter: submitter, metrics: m, logger: logger}
}

// Active reports whether the conversation has a draft in progress, which
// means the wizard owns its turns.
func (e *Engine) Active(ctx context.Context, conversationID string) bool {
	_, err := e.store.Get(ctx, conversationID)
	return err == nil
}

// Start begins a fresh intake, replacing any draft already in progress.
func (e *Engine) Start(ctx context.Context, conversationID, source, channelUserID, channelUsername string) (Reply, error) {
	if source == "" {
		source = "telegram"
	}
	draft := &Draft{
		ConversationID:  conversationID,
		Source:          source,
		ChannelUserID:   channelUserID,
		ChannelUsername: channelUsername,
		Step:            StepName,
	}
	if err := e.store.Start(ctx, draft); err != nil {
		return Reply{}, fmt.Errorf("wizard: start: %w", err)
	}
	return Reply{Text: promptIntro}, nil
}

// Cancel aborts the flow. The bool result reports whether a draft existed.
func (e *Engine) Cancel(ctx context.Context, conversationID string) (Reply, bool, error) {
	if _, err := e.store.Get(ctx, conversationID); err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return Reply{}, false, nil
		}
		return Reply{}, false, err
	}
	if err := e.store.Clear(ctx, conversationID); err != nil {
		return Reply{}, false, err
	}
	return Reply{Text: msgCancelled, Done: true}, true, nil
}

// Advance feeds one user input into the flow. phoneHint carries a structured
// phone value when the channel supplies one (used only at the contact step).
func (e *Engine) Advance(ctx context.Context, conversationID, text, phoneHint string) (Reply, error) {
	draft, err := e.store.Get(ctx, conversationID)
	if err != nil {
		return Reply{}, err
	}

	text = strings.TrimSpace(text)

	switch draft.Step {
	case StepName:
		val, reject := ValidateName(text)
		if reject != "" {
			return Reply{Text: reject + "\n\n" + promptName}, nil
		}
		draft.Name = val
		draft.Step = StepCompany
		if err := e.store.Update(ctx, draft); err != nil {
			return Reply{}, err
		}
		return Reply{Text: promptCompany}, nil

	case StepCompany:
		val, reject := ValidateCompany(text)
		if reject != "" {
			return Reply{Text: reject + "\n\n" + promptCompany}, nil
		}
		draft.Company = val
		draft.Step = StepService
		if err := e.store.Update(ctx, draft); err != nil {
			return Reply{}, err
		}
		return Reply{Text: promptService}, nil

	case StepService:
		val := NormalizeService(text)
		if val == "" {
			return Reply{Text: "Please name the service in text (at least 2 characters)."}, nil
		}
		draft.Service = val
		draft.Step = StepBudget
		if err := e.store.Update(ctx, draft); err != nil {
			return Reply{}, err
		}
		return Reply{Text: promptBudget}, nil

	case StepBudget:
		val, reject := ValidateBudget(text)
		if reject != "" {
			return Reply{Text: reject + "\n\n" + promptBudget}, nil
		}
		draft.Budget = val
		draft.Step = StepDetails
		if err := e.store.Update(ctx, draft); err != nil {
			return Reply{}, err
		}
		return Reply{Text: promptDetails}, nil

	case StepDetails:
		val, reject := ValidateDetails(text)
		if reject != "" {
			return Reply{Text: reject + "\n\n" + promptDetails}, nil
		}
		draft.Details = val
		draft.Step = StepContact
		if err := e.store.Update(ctx, draft); err != nil {
			return Reply{}, err
		}
		return Reply{Text: promptContact}, nil

	case StepContact:
		return e.finish(ctx, draft, text, phoneHint)

	default:
		// Unknown step means a corrupted draft. Discard it and ask the
		// user to restart rather than guessing where we were.
		e.logger.Error("wizard draft in unknown step",
			"conversation_id", conversationID, "step", string(draft.Step))
		if err := e.store.Clear(ctx, conversationID); err != nil {
			return Reply{}, err
		}
		return Reply{Text: msgCorruptedReset, Done: true}, nil
	}
}

func (e *Engine) finish(ctx context.Context, draft *Draft, text, phoneHint string) (Reply, error) {
	contact := text
	if phoneHint != "" {
		contact = strings.TrimSpace(phoneHint)
	}
	if len(contact) < 3 {
		return Reply{Text: msgContactShort}, nil
	}

	service := draft.Service
	if service == "" {
		service = "Other"
	}
	req := &leads.CreateLeadRequest{
		Source:  draft.Source,
		Name:    draft.Name,
		Company: draft.Company,
		Service: service,
		Budget:  draft.Budget,
		Contact: contact,
		Details: draft.Details,
	}

	if err := e.submitter.Submit(ctx, req); err != nil {
		// Keep the draft so the user can simply resend the contact.
		e.logger.Error("lead submission failed",
			"error", err, "conversation_id", draft.ConversationID)
		return Reply{Text: msgSubmitFailed}, nil
	}

	if err := e.store.Clear(ctx, draft.ConversationID); err != nil {
		return Reply{}, err
	}
	e.metrics.IncLeadCaptured(draft.Source)
	e.logger.Info("wizard lead submitted", "conversation_id", draft.ConversationID)
	return Reply{Text: msgSubmitted, Done: true}, nil
}
