package leads

import (
	"strings"
	"time"
)

// Field length limits shared by validation and clamping. They mirror the
// column sizes in the leads table.
const (
	MaxSourceLen  = 30
	MaxNameLen    = 100
	MaxCompanyLen = 150
	MaxServiceLen = 100
	MaxBudgetLen  = 50
	MaxContactLen = 100
	MaxDetailsLen = 1200
)

// StatusNew is the initial status of every stored lead. Later statuses are
// owned by the sales team's review workflow, not by this service.
const StatusNew = "new"

// Lead is a finalized, ready-to-contact prospect record.
type Lead struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Service   string    `json:"service"`
	Budget    string    `json:"budget"`
	Contact   string    `json:"contact"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLeadRequest is the payload for creating a lead, either from the
// intake wizard or from the passive capture pipeline.
type CreateLeadRequest struct {
	Source  string `json:"source"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Service string `json:"service"`
	Budget  string `json:"budget"`
	Contact string `json:"contact"`
	Details string `json:"details"`
}

// Validate checks the request against the field bounds.
func (r *CreateLeadRequest) Validate() error {
	r.Source = Clamp(r.Source, MaxSourceLen)
	r.Name = Clamp(r.Name, MaxNameLen)
	r.Company = Clamp(r.Company, MaxCompanyLen)
	r.Service = Clamp(r.Service, MaxServiceLen)
	r.Budget = Clamp(r.Budget, MaxBudgetLen)
	r.Contact = Clamp(r.Contact, MaxContactLen)
	r.Details = Clamp(r.Details, MaxDetailsLen)

	switch {
	case len(r.Source) < 2:
		return ErrInvalidSource
	case len(r.Name) < 2:
		return ErrInvalidName
	case len(r.Company) < 2:
		return ErrInvalidCompany
	case len(r.Service) < 2:
		return ErrInvalidService
	case len(r.Budget) < 1:
		return ErrInvalidBudget
	case len(r.Contact) < 2:
		return ErrInvalidContact
	case len(r.Details) < 10:
		return ErrInvalidDetails
	}
	return nil
}

// Clamp trims value and cuts it to limit runes. Empty results stay empty.
func Clamp(value string, limit int) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return ""
	}
	runes := []rune(cleaned)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return cleaned
}
