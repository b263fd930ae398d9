package domain

import "time"

// Organization represents a tenant that owns chatboxes
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ValidateOrganization validates an Organization instance
func ValidateOrganization(o *Organization) error {
	if o == nil {
		return NewDomainError(ErrCodeValidation, "organization cannot be nil")
	}
	if o.ID == "" {
		return NewDomainError(ErrCodeValidation, "organization ID is required")
	}
	if o.Name == "" {
		return NewDomainError(ErrCodeValidation, "organization Name is required")
	}
	return nil
}
