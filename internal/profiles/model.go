package profiles

import (
	"time"

	"github.com/northstackhq/funnelbot/internal/leads"
)

// Profile accumulates everything learned about one conversation. Fields fill
// in from passive extraction; once the profile is emitted as a lead it is
// frozen for readiness purposes but keeps collecting text.
type Profile struct {
	ID              int64     `json:"id"`
	ConversationID  string    `json:"conversation_id"`
	ChannelUserID   string    `json:"channel_user_id,omitempty"`
	ChannelUsername string    `json:"channel_username,omitempty"`
	Name            string    `json:"name,omitempty"`
	Company         string    `json:"company,omitempty"`
	Service         string    `json:"service,omitempty"`
	Budget          string    `json:"budget,omitempty"`
	Contact         string    `json:"contact,omitempty"`
	Details         string    `json:"details,omitempty"`
	MessageCount    int       `json:"message_count"`
	SentToManagers  bool      `json:"sent_to_managers"`
	SentLeadID      *int64    `json:"sent_lead_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasContact reports whether a direct reach-back channel is known. A username
// alone counts; managers can open a chat from a handle.
func (p *Profile) HasContact() bool {
	return p.Contact != "" || p.ChannelUsername != ""
}

// ContactValue returns the best reach-back value, preferring an explicit
// contact over the channel handle.
func (p *Profile) ContactValue() string {
	if p.Contact != "" {
		return p.Contact
	}
	if p.ChannelUsername != "" {
		return "@" + p.ChannelUsername
	}
	return ""
}

// LeadRequest builds the intake payload for this profile, substituting the
// standard placeholders for anything still unknown.
func (p *Profile) LeadRequest(channel string) *leads.CreateLeadRequest {
	req := &leads.CreateLeadRequest{
		Source:  leads.Clamp(channel+"_ai", leads.MaxSourceLen),
		Name:    p.Name,
		Company: p.Company,
		Service: p.Service,
		Budget:  p.Budget,
		Contact: p.ContactValue(),
		Details: p.Details,
	}
	if req.Name == "" {
		req.Name = "Client"
	}
	if req.Company == "" {
		req.Company = "Private client"
	}
	if req.Service == "" {
		req.Service = "Consultation"
	}
	if req.Budget == "" {
		req.Budget = "Negotiable"
	}
	if req.Contact == "" {
		req.Contact = "chat:" + p.ConversationID
	}
	if req.Details == "" {
		req.Details = "Collected from chat conversation"
	}
	return req
}
