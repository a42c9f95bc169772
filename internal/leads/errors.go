package leads

import "errors"

var (
	// ErrInvalidSource is returned when the source tag is missing or too short
	ErrInvalidSource = errors.New("leads: source must be at least 2 characters")

	// ErrInvalidName is returned when the name is missing or too short
	ErrInvalidName = errors.New("leads: name must be at least 2 characters")

	// ErrInvalidCompany is returned when the company is missing or too short
	ErrInvalidCompany = errors.New("leads: company must be at least 2 characters")

	// ErrInvalidService is returned when the service is missing or too short
	ErrInvalidService = errors.New("leads: service must be at least 2 characters")

	// ErrInvalidBudget is returned when the budget is empty
	ErrInvalidBudget = errors.New("leads: budget is required")

	// ErrInvalidContact is returned when the contact is missing or too short
	ErrInvalidContact = errors.New("leads: contact must be at least 2 characters")

	// ErrInvalidDetails is returned when the details blob is shorter than 10 characters
	ErrInvalidDetails = errors.New("leads: details must be at least 10 characters")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("leads: lead not found")
)
