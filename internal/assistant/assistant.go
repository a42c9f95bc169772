package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/northstackhq/funnelbot/internal/observability/metrics"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// Canned replies for the deterministic paths.
const (
	replyEmptyInput = "Describe the task in a message and I'll help with an estimate."

	fallbackEscalation = "Got it. I'm looping in a manager to agree on the details and terms. " +
		"You can also reach us on Telegram: @northstack_hq."
	fallbackGeneric = "I can help with a consultation and a preliminary estimate. " +
		"Briefly describe the task, the desired timeline and a budget range."

	handOffSuffix = "To agree on commercial terms, I'm looping in a manager."
)

// Assistant orchestrates one conversational turn: business rules first, then
// the generative provider, with a deterministic fallback.
type Assistant struct {
	client   ChatClient
	history  *History
	composer *Composer
	enforcer *Enforcer
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// New wires the assistant. client may be nil, which forces the fallback path
// on every turn (provider disabled).
func New(client ChatClient, history *History, composer *Composer, enforcer *Enforcer, timeout time.Duration, m *metrics.Metrics, logger *logging.Logger) *Assistant {
	if history == nil {
		panic("assistant: history required")
	}
	if composer == nil {
		panic("assistant: composer required")
	}
	if enforcer == nil {
		panic("assistant: enforcer required")
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Assistant{
		client:   client,
		history:  history,
		composer: composer,
		enforcer: enforcer,
		timeout:  timeout,
		metrics:  m,
		logger:   logger,
	}
}

// Reply produces the assistant's answer for one inbound utterance.
func (a *Assistant) Reply(ctx context.Context, conversationID, userText string) Result {
	text := strings.TrimSpace(userText)
	if text == "" {
		return Result{Reply: replyEmptyInput}
	}

	if forced := a.enforcer.EnforceDiscount(text); forced != nil {
		a.remember(conversationID, text, forced.Reply)
		a.metrics.IncEscalation(forced.Reason)
		return *forced
	}

	answer := a.generate(ctx, conversationID, text)
	if answer == "" {
		result := a.fallback(text)
		a.remember(conversationID, text, result.Reply)
		a.metrics.IncEscalation(result.Reason)
		return result
	}

	escalate := a.enforcer.NeedsEscalation(text)
	reason := ""
	if escalate {
		reason = ReasonKeyword
		if !strings.Contains(strings.ToLower(answer), "manager") {
			answer = answer + "\n\n" + handOffSuffix
		}
	}

	a.remember(conversationID, text, answer)
	a.metrics.IncEscalation(reason)
	return Result{Reply: answer, Escalate: escalate, Reason: reason}
}

func (a *Assistant) generate(ctx context.Context, conversationID, text string) string {
	if a.client == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	answer, err := a.client.Complete(ctx, a.composer.SystemPrompt(ctx), a.history.Turns(conversationID), text)
	if err != nil {
		return ""
	}
	return answer
}

func (a *Assistant) fallback(text string) Result {
	if a.enforcer.NeedsEscalation(text) {
		return Result{Reply: fallbackEscalation, Escalate: true, Reason: ReasonManualRequest}
	}
	return Result{Reply: fallbackGeneric}
}

func (a *Assistant) remember(conversationID, userText, reply string) {
	a.history.Append(conversationID, RoleUser, userText)
	a.history.Append(conversationID, RoleAssistant, reply)
}
