package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/telemetry"
)

// minExtractableChars is the shortest trimmed text worth ingesting from a
// URL or file. Anything below it is treated as garbage extraction.
const minExtractableChars = 10

// IngestionDocumentRepository defines the document persistence interface
// consumed by ingestion
type IngestionDocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
}

// IngestionChunkRepository defines the chunk persistence interface
// consumed by ingestion
type IngestionChunkRepository interface {
	CreateMany(ctx context.Context, chunks []*domain.Chunk) error
}

// IngestionChatboxRepository resolves chatboxes before any pipeline work
type IngestionChatboxRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Chatbox, error)
}

// PageFetcher retrieves a URL's textual content for URL ingestion
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// UploadStore archives original uploaded file bytes. Optional; ingestion
// works without it.
type UploadStore interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
}

// UUIDGenerator generates entity identifiers
type UUIDGenerator interface {
	NewString() string
}

// IngestionService orchestrates document ingestion: obtain raw text,
// persist the document, chunk, embed the whole chunk set in one batched
// call, and bulk-persist the chunks. One pass, no internal retries.
type IngestionService struct {
	chatboxRepo IngestionChatboxRepository
	docRepo     IngestionDocumentRepository
	chunkRepo   IngestionChunkRepository
	chunker     *Chunker
	embedder    Embedder
	fetcher     PageFetcher
	uploads     UploadStore
	uuidGen     UUIDGenerator
}

// NewIngestionService creates a new IngestionService instance
func NewIngestionService(
	chatboxRepo IngestionChatboxRepository,
	docRepo IngestionDocumentRepository,
	chunkRepo IngestionChunkRepository,
	chunker *Chunker,
	embedder Embedder,
	fetcher PageFetcher,
	uuidGen UUIDGenerator,
) *IngestionService {
	return &IngestionService{
		chatboxRepo: chatboxRepo,
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		chunker:     chunker,
		embedder:    embedder,
		fetcher:     fetcher,
		uuidGen:     uuidGen,
	}
}

// WithUploadStore enables archival of original uploaded file bytes.
func (s *IngestionService) WithUploadStore(uploads UploadStore) *IngestionService {
	s.uploads = uploads
	return s
}

// IngestTextInput represents input for text ingestion
type IngestTextInput struct {
	OrgID      string
	ChatboxID  string
	Text       string
	SourceName string
}

// IngestText ingests raw text: chunk, embed, store.
// Returns the created document and the number of chunks created; zero
// chunks from empty text is a success, not an error.
func (s *IngestionService) IngestText(ctx context.Context, input IngestTextInput) (*domain.Document, int, error) {
	if _, err := s.chatboxRepo.GetByID(ctx, input.ChatboxID); err != nil {
		return nil, 0, err
	}

	sourceName := input.SourceName
	if sourceName == "" {
		sourceName = "Raw Text"
	}

	doc := &domain.Document{
		ID:         s.uuidGen.NewString(),
		ChatboxID:  input.ChatboxID,
		SourceType: domain.SourceTypeText,
		SourceName: sourceName,
		RawContent: input.Text,
		CreatedAt:  time.Now().UTC(),
	}

	return s.persist(ctx, doc)
}

// IngestURLInput represents input for URL ingestion
type IngestURLInput struct {
	OrgID     string
	ChatboxID string
	URL       string
}

// IngestURL fetches a page, extracts its text, and ingests it. A fetch
// failure is an external-service failure; a too-short extraction is a
// validation failure.
func (s *IngestionService) IngestURL(ctx context.Context, input IngestURLInput) (*domain.Document, int, error) {
	if _, err := s.chatboxRepo.GetByID(ctx, input.ChatboxID); err != nil {
		return nil, 0, err
	}

	text, err := s.fetcher.FetchText(ctx, input.URL)
	if err != nil {
		return nil, 0, err
	}
	if len(strings.TrimSpace(text)) < minExtractableChars {
		return nil, 0, domain.NewDomainError(domain.ErrCodeValidation, "URL contains no extractable text")
	}

	doc := &domain.Document{
		ID:         s.uuidGen.NewString(),
		ChatboxID:  input.ChatboxID,
		SourceType: domain.SourceTypeURL,
		SourceName: input.URL,
		SourceURL:  input.URL,
		RawContent: text,
		CreatedAt:  time.Now().UTC(),
	}

	return s.persist(ctx, doc)
}

// IngestFileInput represents input for file ingestion
type IngestFileInput struct {
	OrgID     string
	ChatboxID string
	Filename  string
	Content   []byte
	MimeType  string
}

// IngestFile decodes an uploaded file according to its declared MIME type
// and ingests the decoded text. Unsupported types are rejected before any
// chunking work begins.
func (s *IngestionService) IngestFile(ctx context.Context, input IngestFileInput) (*domain.Document, int, error) {
	if _, err := s.chatboxRepo.GetByID(ctx, input.ChatboxID); err != nil {
		return nil, 0, err
	}

	text, err := decodeFileContent(input.Filename, input.Content, input.MimeType)
	if err != nil {
		return nil, 0, err
	}
	if len(strings.TrimSpace(text)) < minExtractableChars {
		return nil, 0, domain.NewDomainError(domain.ErrCodeValidation, "file contains no extractable text")
	}

	doc := &domain.Document{
		ID:            s.uuidGen.NewString(),
		ChatboxID:     input.ChatboxID,
		SourceType:    domain.SourceTypeFile,
		SourceName:    input.Filename,
		RawContent:    text,
		FileSizeBytes: int64(len(input.Content)),
		MimeType:      input.MimeType,
		CreatedAt:     time.Now().UTC(),
	}

	if s.uploads != nil {
		key := fmt.Sprintf("%s/%s/%s", input.ChatboxID, doc.ID, input.Filename)
		if err := s.uploads.PutObject(ctx, key, input.MimeType, input.Content); err != nil {
			// Archival is best-effort; the extracted text is already in hand.
			log.Printf("upload archive failed for %s: %v", key, err)
		} else {
			doc.StorageKey = key
		}
	}

	return s.persist(ctx, doc)
}

// persist runs the shared tail of the pipeline: document row, chunking,
// one batched embed call, bulk chunk insert.
func (s *IngestionService) persist(ctx context.Context, doc *domain.Document) (*domain.Document, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "ingestion.persist", telemetry.SpanAttributes{
		ChatboxID:  doc.ChatboxID,
		DocumentID: doc.ID,
		Operation:  string(doc.SourceType),
	})
	defer span.End()

	if err := s.docRepo.Create(ctx, doc); err != nil {
		span.SetError(err)
		return nil, 0, err
	}

	texts := s.chunker.Chunk(doc.RawContent)
	if len(texts) == 0 {
		log.Printf("no chunks created for document %s", doc.ID)
		return doc, 0, nil
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		span.SetError(err)
		return nil, 0, err
	}

	now := time.Now().UTC()
	chunks := make([]*domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &domain.Chunk{
			ID:         s.uuidGen.NewString(),
			DocumentID: doc.ID,
			ChatboxID:  doc.ChatboxID,
			Content:    text,
			ChunkIndex: i,
			Embedding:  embeddings[i],
			CreatedAt:  now,
		}
	}

	if err := s.chunkRepo.CreateMany(ctx, chunks); err != nil {
		span.SetError(err)
		return nil, 0, err
	}

	log.Printf("created document %s with %d chunks", doc.ID, len(chunks))
	return doc, len(chunks), nil
}

func decodeFileContent(filename string, content []byte, mimeType string) (string, error) {
	baseType := mimeType
	if i := strings.Index(baseType, ";"); i >= 0 {
		baseType = strings.TrimSpace(baseType[:i])
	}

	switch {
	case baseType == "text/plain" || strings.HasSuffix(filename, ".txt"):
		return string(content), nil
	case baseType == "text/markdown" || strings.HasSuffix(filename, ".md"):
		return string(content), nil
	default:
		if mimeType == "" {
			mimeType = "unknown"
		}
		return "", domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("unsupported file type: %s", mimeType))
	}
}
