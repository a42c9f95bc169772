// Package notify formats and delivers manager-facing cards for new leads and
// escalations, over chat destinations and email.
package notify

import (
	"context"

	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/profiles"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// ChatSender delivers a plain-text message to one chat destination. The
// channel transport implements it.
type ChatSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// LogSender is used when no chat transport is wired; cards land in the log
// so nothing is silently dropped.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendMessage(_ context.Context, chatID, text string) error {
	s.logger.Info("manager notification", "chat_id", chatID, "text", text)
	return nil
}

// Service fans notifications out to the configured manager destinations.
// Per-destination failures are logged and never abort the triggering
// operation; the caller only sees an error when every delivery failed.
type Service struct {
	chatIDs []string
	sender  ChatSender
	email   EmailSender
	emails  []string
	logger  *logging.Logger
}

// NewService wires the notification fan-out. email may be nil.
func NewService(chatIDs []string, sender ChatSender, email EmailSender, emailRecipients []string, logger *logging.Logger) *Service {
	if sender == nil {
		sender = NewLogSender(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		chatIDs: chatIDs,
		sender:  sender,
		email:   email,
		emails:  emailRecipients,
		logger:  logger,
	}
}

// NotifyCapturedLead sends the full client card for a passively captured lead.
func (s *Service) NotifyCapturedLead(ctx context.Context, lead *leads.Lead, profile *profiles.Profile) error {
	return s.broadcast(ctx, "New client card", FormatCapturedLeadCard(lead, profile))
}

// NotifyNewLead sends the short card for a wizard or API submission.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	return s.broadcast(ctx, "New request", FormatNewLeadCard(lead))
}

// NotifyEscalation alerts managers that a conversation needs a human.
func (s *Service) NotifyEscalation(ctx context.Context, conversationID, userText, reason string) error {
	return s.broadcast(ctx, "Escalation", FormatEscalationCard(conversationID, userText, reason))
}

func (s *Service) broadcast(ctx context.Context, subject, card string) error {
	attempted := 0
	delivered := 0

	for _, chatID := range s.chatIDs {
		attempted++
		if err := s.sender.SendMessage(ctx, chatID, card); err != nil {
			s.logger.Error("failed to deliver card to chat", "error", err, "chat_id", chatID)
			continue
		}
		delivered++
	}

	if s.email != nil {
		for _, to := range s.emails {
			attempted++
			if err := s.email.Send(ctx, EmailMessage{To: to, Subject: subject, Body: card}); err != nil {
				s.logger.Error("failed to deliver card by email", "error", err, "to", to)
				continue
			}
			delivered++
		}
	}

	if attempted > 0 && delivered == 0 {
		return ErrAllDeliveriesFailed
	}
	return nil
}
