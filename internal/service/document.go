package service

import (
	"context"
	"log"

	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/pagination"
)

// DocumentRepositoryInterface defines the repository interface for document operations
type DocumentRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByChatboxWithCursor(ctx context.Context, chatboxID string, cursor *pagination.Cursor, limit int) (*DocumentPageResult, error)
	Delete(ctx context.Context, id string) error
}

// DocumentPageResult represents one page of documents
type DocumentPageResult struct {
	Items      []*domain.Document
	NextCursor string
	HasMore    bool
}

// ArchiveRemover removes a document's archived original file. Optional;
// deletion works without it.
type ArchiveRemover interface {
	DeleteObject(ctx context.Context, key string) error
}

// DocumentService exposes read and delete operations on ingested documents.
// Deleting a document cascades to its chunks at the storage layer.
type DocumentService struct {
	repo        DocumentRepositoryInterface
	chatboxRepo QueryChatboxRepository
	archive     ArchiveRemover
}

// NewDocumentService creates a new DocumentService instance
func NewDocumentService(repo DocumentRepositoryInterface, chatboxRepo QueryChatboxRepository) *DocumentService {
	return &DocumentService{repo: repo, chatboxRepo: chatboxRepo}
}

// WithArchiveRemover enables cleanup of archived originals on delete.
func (s *DocumentService) WithArchiveRemover(archive ArchiveRemover) *DocumentService {
	s.archive = archive
	return s
}

// GetByID returns a document by id
func (s *DocumentService) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByChatbox returns one page of a chatbox's documents
func (s *DocumentService) ListByChatbox(ctx context.Context, chatboxID, cursorStr string, limit int) (*DocumentPageResult, error) {
	if _, err := s.chatboxRepo.GetByID(ctx, chatboxID); err != nil {
		return nil, err
	}

	var cursor *pagination.Cursor
	if cursorStr != "" {
		decoded, err := pagination.DecodeCursor(cursorStr)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
		}
		cursor = decoded
	}
	return s.repo.ListByChatboxWithCursor(ctx, chatboxID, cursor, limit)
}

// Delete removes a document and, through the storage layer, its chunks.
// Archived original files are cleaned up best-effort.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.archive != nil && doc.StorageKey != "" {
		if err := s.archive.DeleteObject(ctx, doc.StorageKey); err != nil {
			log.Printf("archive cleanup failed for %s: %v", doc.StorageKey, err)
		}
	}
	return nil
}
