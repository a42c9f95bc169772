package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/internal/observability/metrics"
	"github.com/northstackhq/funnelbot/internal/profiles"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// Message is the normalized inbound shape the pipeline consumes. Channel
// envelope parsing happens upstream.
type Message struct {
	ConversationID  string
	Channel         string
	ChannelUserID   string
	ChannelUsername string
	DisplayName     string
	Text            string
}

// Result reports what one turn of passive capture produced.
type Result struct {
	Sent             bool
	LeadID           int64
	MissingFields    []string
	FollowUpQuestion string
}

// ManagerNotifier delivers a new-lead card to the sales team. Failures are
// logged and never fail the capture.
type ManagerNotifier interface {
	NotifyCapturedLead(ctx context.Context, lead *leads.Lead, profile *profiles.Profile) error
}

// Pipeline runs the passive extraction and readiness flow for one inbound
// message alongside the conversational path.
type Pipeline struct {
	enabled  bool
	repo     profiles.Repository
	policy   *Policy
	notifier ManagerNotifier
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewPipeline wires the capture flow. notifier and m may be nil.
func NewPipeline(enabled bool, repo profiles.Repository, policy *Policy, notifier ManagerNotifier, m *metrics.Metrics, logger *logging.Logger) *Pipeline {
	if repo == nil {
		panic("capture: profile repository required")
	}
	if policy == nil {
		panic("capture: policy required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		enabled:  enabled,
		repo:     repo,
		policy:   policy,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Process absorbs one inbound message into the conversation's profile and
// emits a lead when the profile becomes ready.
func (p *Pipeline) Process(ctx context.Context, msg Message) (*Result, error) {
	if !p.enabled {
		return &Result{}, nil
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return &Result{}, nil
	}

	profile, err := p.repo.GetByConversation(ctx, msg.ConversationID)
	switch {
	case errors.Is(err, profiles.ErrProfileNotFound):
		profile = &profiles.Profile{
			ConversationID:  msg.ConversationID,
			ChannelUserID:   msg.ChannelUserID,
			ChannelUsername: msg.ChannelUsername,
			Name:            ExtractName(text, msg.DisplayName),
			Company:         ExtractCompany(text),
			Service:         ExtractService(text),
			Budget:          ExtractBudget(text),
			Contact:         ExtractContact(text, msg.ChannelUsername),
			Details:         MergeDetails("", text),
			MessageCount:    1,
		}
	case err != nil:
		return nil, fmt.Errorf("capture: load profile: %w", err)
	default:
		if msg.ChannelUserID != "" {
			profile.ChannelUserID = msg.ChannelUserID
		}
		if msg.ChannelUsername != "" {
			profile.ChannelUsername = msg.ChannelUsername
		}
		profile.MessageCount++
		profile.Details = MergeDetails(profile.Details, text)

		if profile.Name == "" {
			profile.Name = ExtractName(text, msg.DisplayName)
		}
		if profile.Company == "" {
			profile.Company = ExtractCompany(text)
		}
		if profile.Service == "" {
			profile.Service = ExtractService(text)
		}
		if profile.Budget == "" {
			profile.Budget = ExtractBudget(text)
		}
		if profile.Contact == "" {
			profile.Contact = ExtractContact(text, msg.ChannelUsername)
		}
	}

	missing := p.policy.MissingFields(profile)
	result := &Result{MissingFields: missing}
	if p.policy.ShouldFollowUp(profile, missing) {
		result.FollowUpQuestion = p.policy.FollowUpQuestion(missing)
		p.metrics.IncFollowUp()
	}

	if !p.policy.IsReady(profile) {
		if err := p.repo.Save(ctx, profile); err != nil {
			return nil, fmt.Errorf("capture: save profile: %w", err)
		}
		return result, nil
	}

	req := p.policy.BuildLeadRequest(profile, msg.Channel)
	if err := p.repo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("capture: save profile: %w", err)
	}
	lead, err := p.repo.EmitLead(ctx, profile, req)
	if err != nil {
		return nil, fmt.Errorf("capture: emit lead: %w", err)
	}

	p.metrics.IncLeadCaptured(lead.Source)
	p.logger.Info("lead captured from conversation",
		"conversation_id", msg.ConversationID, "lead_id", lead.ID)

	if p.notifier != nil {
		if err := p.notifier.NotifyCapturedLead(ctx, lead, profile); err != nil {
			// The lead is committed; notification problems stay out of the turn.
			p.logger.Error("failed to notify managers about lead",
				"error", err, "lead_id", lead.ID)
		}
	}

	result.Sent = true
	result.LeadID = lead.ID
	return result, nil
}
