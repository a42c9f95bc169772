// Package wizard implements the structured intake flow that collects lead
// fields one step at a time through direct questions.
package wizard

import "time"

// Step identifies the wizard's current question. Steps advance strictly in
// order with no branching.
type Step string

const (
	StepName    Step = "name"
	StepCompany Step = "company"
	StepService Step = "service"
	StepBudget  Step = "budget"
	StepDetails Step = "details"
	StepContact Step = "contact"
)

// Draft is the in-progress intake state for one conversation. At most one
// draft exists per conversation; starting the wizard replaces any prior one.
type Draft struct {
	ID              int64     `json:"id"`
	ConversationID  string    `json:"conversation_id"`
	Source          string    `json:"source"`
	ChannelUserID   string    `json:"channel_user_id,omitempty"`
	ChannelUsername string    `json:"channel_username,omitempty"`
	Step            Step      `json:"step"`
	Name            string    `json:"name,omitempty"`
	Company         string    `json:"company,omitempty"`
	Service         string    `json:"service,omitempty"`
	Budget          string    `json:"budget,omitempty"`
	Details         string    `json:"details,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
