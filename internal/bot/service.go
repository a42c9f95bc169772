// Package bot routes inbound conversation turns: the intake wizard owns a
// turn when a draft is active, otherwise the assistant answers while the
// passive capture pipeline runs alongside.
package bot

import (
	"context"
	"strings"

	"github.com/northstackhq/funnelbot/internal/assistant"
	"github.com/northstackhq/funnelbot/internal/capture"
	"github.com/northstackhq/funnelbot/internal/observability/metrics"
	"github.com/northstackhq/funnelbot/internal/wizard"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// Commands recognized on any channel.
const (
	CommandLead   = "/lead"
	CommandCancel = "/cancel"
)

// maxReplyLen is the outbound plain-text delivery limit.
const maxReplyLen = 3500

const defaultReply = "I can help with a consultation. Describe the task in 1-2 sentences."

// InboundMessage is the normalized turn input from any channel transport.
type InboundMessage struct {
	ConversationID  string `json:"conversation_id"`
	Channel         string `json:"channel"`
	ChannelUserID   string `json:"channel_user_id,omitempty"`
	ChannelUsername string `json:"channel_username,omitempty"`
	DisplayName     string `json:"display_name,omitempty"`
	Text            string `json:"text"`
	PhoneHint       string `json:"phone_hint,omitempty"`
}

// TurnResponse is what one processed turn wants delivered back.
type TurnResponse struct {
	Reply    string `json:"reply"`
	FollowUp string `json:"follow_up,omitempty"`
	Escalate bool   `json:"escalate"`
	Reason   string `json:"reason,omitempty"`
	LeadSent bool   `json:"lead_sent"`
	LeadID   int64  `json:"lead_id,omitempty"`
}

// Service processes one conversation turn.
type Service interface {
	HandleMessage(ctx context.Context, msg InboundMessage) (*TurnResponse, error)
}

// EscalationNotifier alerts managers about a turn that needs a human.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, conversationID, userText, reason string) error
}

// Engine is the direct (unqueued) turn processor.
type Engine struct {
	wizard    *wizard.Engine
	assistant *assistant.Assistant
	capture   *capture.Pipeline
	notifier  EscalationNotifier
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewEngine wires the router. notifier and m may be nil.
func NewEngine(wiz *wizard.Engine, asst *assistant.Assistant, cap *capture.Pipeline, notifier EscalationNotifier, m *metrics.Metrics, logger *logging.Logger) *Engine {
	if wiz == nil {
		panic("bot: wizard engine required")
	}
	if asst == nil {
		panic("bot: assistant required")
	}
	if cap == nil {
		panic("bot: capture pipeline required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		wizard:    wiz,
		assistant: asst,
		capture:   cap,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// HandleMessage routes one inbound turn.
func (e *Engine) HandleMessage(ctx context.Context, msg InboundMessage) (*TurnResponse, error) {
	e.metrics.IncTurn(msg.Channel)
	text := strings.TrimSpace(msg.Text)

	switch command(text) {
	case CommandLead:
		reply, err := e.wizard.Start(ctx, msg.ConversationID, msg.Channel, msg.ChannelUserID, msg.ChannelUsername)
		if err != nil {
			return nil, err
		}
		return &TurnResponse{Reply: guardReply(reply.Text)}, nil

	case CommandCancel:
		reply, handled, err := e.wizard.Cancel(ctx, msg.ConversationID)
		if err != nil {
			return nil, err
		}
		if !handled {
			return &TurnResponse{Reply: guardReply("")}, nil
		}
		return &TurnResponse{Reply: guardReply(reply.Text)}, nil
	}

	// A live draft owns every turn until it finishes or is cancelled.
	if e.wizard.Active(ctx, msg.ConversationID) {
		reply, err := e.wizard.Advance(ctx, msg.ConversationID, text, msg.PhoneHint)
		if err != nil {
			return nil, err
		}
		return &TurnResponse{Reply: guardReply(reply.Text)}, nil
	}

	result := e.assistant.Reply(ctx, msg.ConversationID, text)
	response := &TurnResponse{
		Reply:    guardReply(result.Reply),
		Escalate: result.Escalate,
		Reason:   result.Reason,
	}

	if result.Escalate && e.notifier != nil {
		if err := e.notifier.NotifyEscalation(ctx, msg.ConversationID, text, result.Reason); err != nil {
			e.logger.Error("failed to notify about escalation",
				"error", err, "conversation_id", msg.ConversationID)
		}
	}

	captureResult, err := e.capture.Process(ctx, capture.Message{
		ConversationID:  msg.ConversationID,
		Channel:         msg.Channel,
		ChannelUserID:   msg.ChannelUserID,
		ChannelUsername: msg.ChannelUsername,
		DisplayName:     msg.DisplayName,
		Text:            text,
	})
	if err != nil {
		// The user already has a reply; capture problems stay internal.
		e.logger.Error("passive capture failed",
			"error", err, "conversation_id", msg.ConversationID)
		return response, nil
	}

	response.FollowUp = captureResult.FollowUpQuestion
	response.LeadSent = captureResult.Sent
	response.LeadID = captureResult.LeadID
	return response, nil
}

func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := text
	if i := strings.IndexAny(cmd, " \t"); i >= 0 {
		cmd = cmd[:i]
	}
	if j := strings.Index(cmd, "@"); j >= 0 {
		cmd = cmd[:j]
	}
	return strings.ToLower(cmd)
}

// guardReply makes sure the outbound text is non-empty and within the
// delivery limit.
func guardReply(text string) string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return defaultReply
	}
	if len(clean) > maxReplyLen {
		runes := []rune(clean)
		if len(runes) > maxReplyLen {
			runes = runes[:maxReplyLen]
		}
		clean = string(runes)
	}
	return clean
}

var _ Service = (*Engine)(nil)
