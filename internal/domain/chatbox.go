package domain

import "time"

// Chatbox is a tenant-scoped knowledge collection. Documents are ingested
// into a chatbox and queries run against its chunks.
type Chatbox struct {
	ID          string
	OrgID       string
	Name        string
	Description string

	// AllowedOrigins restricts who may query this chatbox when
	// EnforceAllowedOrigins is set. Entries are origins such as
	// "https://example.com".
	AllowedOrigins        []string
	EnforceAllowedOrigins bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewChatbox creates a new Chatbox instance
func NewChatbox(id, orgID, name, description string, allowedOrigins []string, enforce bool, now time.Time) *Chatbox {
	return &Chatbox{
		ID:                    id,
		OrgID:                 orgID,
		Name:                  name,
		Description:           description,
		AllowedOrigins:        allowedOrigins,
		EnforceAllowedOrigins: enforce,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// ValidateChatbox validates a Chatbox instance. An enforcing chatbox must
// always carry a non-empty allow-list; this holds on create and update.
func ValidateChatbox(c *Chatbox) error {
	if c == nil {
		return NewDomainError(ErrCodeValidation, "chatbox cannot be nil")
	}
	if c.ID == "" {
		return NewDomainError(ErrCodeValidation, "chatbox ID is required")
	}
	if c.OrgID == "" {
		return NewDomainError(ErrCodeValidation, "chatbox OrgID is required")
	}
	if c.Name == "" {
		return NewDomainError(ErrCodeValidation, "chatbox Name is required")
	}
	if c.EnforceAllowedOrigins && len(c.AllowedOrigins) == 0 {
		return ErrAllowedOriginsMissing
	}
	return nil
}
