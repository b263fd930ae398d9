package service

import (
	"context"
	"time"

	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/pagination"
)

// ChatboxRepositoryInterface defines the repository interface for chatbox operations
type ChatboxRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Chatbox) error
	GetByID(ctx context.Context, id string) (*domain.Chatbox, error)
	ListByOrgWithCursor(ctx context.Context, orgID string, cursor *pagination.Cursor, limit int) (*ChatboxPageResult, error)
	Update(ctx context.Context, c *domain.Chatbox) error
}

// ChatboxPageResult represents one page of chatboxes
type ChatboxPageResult struct {
	Items      []*domain.Chatbox
	NextCursor string
	HasMore    bool
}

// ChatboxService manages knowledge collections and their access policy.
type ChatboxService struct {
	repo     ChatboxRepositoryInterface
	txRunner TxRunner
	uuidGen  UUIDGenerator
}

// NewChatboxService creates a new ChatboxService instance
func NewChatboxService(repo ChatboxRepositoryInterface, txRunner TxRunner, uuidGen UUIDGenerator) *ChatboxService {
	return &ChatboxService{
		repo:     repo,
		txRunner: txRunner,
		uuidGen:  uuidGen,
	}
}

// CreateChatboxInput represents input for chatbox creation
type CreateChatboxInput struct {
	OrgID                 string
	Name                  string
	Description           string
	AllowedOrigins        []string
	EnforceAllowedOrigins bool
}

// Create creates a chatbox. An enforcing chatbox without an allow-list is
// rejected before anything is persisted.
func (s *ChatboxService) Create(ctx context.Context, input CreateChatboxInput) (*domain.Chatbox, error) {
	chatbox := domain.NewChatbox(
		s.uuidGen.NewString(),
		input.OrgID,
		input.Name,
		input.Description,
		input.AllowedOrigins,
		input.EnforceAllowedOrigins,
		time.Now().UTC(),
	)

	if err := domain.ValidateChatbox(chatbox); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, chatbox); err != nil {
		return nil, err
	}
	return chatbox, nil
}

// GetByID returns a chatbox by id
func (s *ChatboxService) GetByID(ctx context.Context, id string) (*domain.Chatbox, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of an organization's chatboxes
func (s *ChatboxService) List(ctx context.Context, orgID string, cursorStr string, limit int) (*ChatboxPageResult, error) {
	var cursor *pagination.Cursor
	if cursorStr != "" {
		decoded, err := pagination.DecodeCursor(cursorStr)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
		}
		cursor = decoded
	}
	return s.repo.ListByOrgWithCursor(ctx, orgID, cursor, limit)
}

// UpdateChatboxInput represents input for chatbox update; nil fields are untouched
type UpdateChatboxInput struct {
	ChatboxID             string
	Name                  *string
	Description           *string
	AllowedOrigins        []string
	EnforceAllowedOrigins *bool
}

// Update applies a partial update. The allow-list invariant is re-checked
// against the post-update state.
func (s *ChatboxService) Update(ctx context.Context, input UpdateChatboxInput) (*domain.Chatbox, error) {
	chatbox, err := s.repo.GetByID(ctx, input.ChatboxID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		chatbox.Name = *input.Name
	}
	if input.Description != nil {
		chatbox.Description = *input.Description
	}
	if input.AllowedOrigins != nil {
		chatbox.AllowedOrigins = input.AllowedOrigins
	}
	if input.EnforceAllowedOrigins != nil {
		chatbox.EnforceAllowedOrigins = *input.EnforceAllowedOrigins
	}
	chatbox.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateChatbox(chatbox); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, chatbox); err != nil {
		return nil, err
	}
	return chatbox, nil
}

// Delete removes a chatbox and cascades to its documents and chunks in
// one transaction.
func (s *ChatboxService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	return s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Chunks().DeleteByChatbox(ctx, id); err != nil {
			return err
		}
		if err := repos.Documents().DeleteByChatbox(ctx, id); err != nil {
			return err
		}
		return repos.Chatboxes().Delete(ctx, id)
	})
}
