package service

import (
	"context"
	"log"
	"strings"

	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/telemetry"
)

// NoRelevantInformationAnswer is returned when similarity search finds
// nothing above the score threshold. A zero-result retrieval is a
// successful outcome, not an error.
const NoRelevantInformationAnswer = "I couldn't find any relevant information to answer your question."

// QueryChatboxRepository resolves chatboxes for querying
type QueryChatboxRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Chatbox, error)
}

// ChunkSearchRepository performs scoped vector similarity search. An
// unavailable search backend yields an empty result, never an error.
type ChunkSearchRepository interface {
	SimilaritySearch(ctx context.Context, chatboxID string, embedding []float32, topK int, minScore float64, documentID string) ([]*domain.RetrievedChunk, error)
}

// QueryDocumentRepository resolves document display names for citations
type QueryDocumentRepository interface {
	GetByIDOptional(ctx context.Context, id string) (*domain.Document, error)
}

// QueryDefaults holds retrieval parameters applied when the caller omits them
type QueryDefaults struct {
	TopK     int
	MinScore float64
}

// QueryService answers questions against a chatbox's ingested content:
// origin gate, query embedding, similarity search, grounded answer,
// source attribution.
type QueryService struct {
	chatboxRepo QueryChatboxRepository
	chunkRepo   ChunkSearchRepository
	docRepo     QueryDocumentRepository
	embedder    Embedder
	answerer    Answerer
	defaults    QueryDefaults
}

// NewQueryService creates a new QueryService instance
func NewQueryService(
	chatboxRepo QueryChatboxRepository,
	chunkRepo ChunkSearchRepository,
	docRepo QueryDocumentRepository,
	embedder Embedder,
	answerer Answerer,
	defaults QueryDefaults,
) *QueryService {
	return &QueryService{
		chatboxRepo: chatboxRepo,
		chunkRepo:   chunkRepo,
		docRepo:     docRepo,
		embedder:    embedder,
		answerer:    answerer,
		defaults:    defaults,
	}
}

// QueryInput represents one question against a chatbox
type QueryInput struct {
	OrgID      string
	ChatboxID  string
	Question   string
	Origin     string
	DocumentID string
	TopK       int
	MinScore   float64
}

// Source is one cited passage backing an answer, in ranking order
type Source struct {
	DocumentID string
	ChunkID    string
	Content    string
	Score      float64
	SourceName string
}

// QueryOutput represents the answer with its sources
type QueryOutput struct {
	Answer  string
	Sources []*Source
}

// Query runs the retrieval pipeline for one question.
func (s *QueryService) Query(ctx context.Context, input QueryInput) (*QueryOutput, error) {
	chatbox, err := s.chatboxRepo.GetByID(ctx, input.ChatboxID)
	if err != nil {
		return nil, err
	}

	if err := ValidateOrigin(chatbox, input.Origin); err != nil {
		return nil, err
	}

	topK := input.TopK
	if topK <= 0 {
		topK = s.defaults.TopK
	}
	minScore := input.MinScore
	if minScore <= 0 {
		minScore = s.defaults.MinScore
	}

	ctx, span := telemetry.StartSpan(ctx, "query.retrieve", telemetry.SpanAttributes{
		ChatboxID:  chatbox.ID,
		DocumentID: input.DocumentID,
	})
	defer span.End()

	vectors, err := s.embedder.EmbedTexts(ctx, []string{input.Question})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	results, err := s.chunkRepo.SimilaritySearch(ctx, chatbox.ID, vectors[0], topK, minScore, input.DocumentID)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		log.Printf("no relevant chunks found for chatbox %s", chatbox.ID)
		return &QueryOutput{
			Answer:  NoRelevantInformationAnswer,
			Sources: []*Source{},
		}, nil
	}

	passages := make([]string, len(results))
	for i, r := range results {
		passages[i] = r.Content
	}

	answer, err := s.answerer.GenerateAnswer(ctx, input.Question, passages)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return &QueryOutput{
		Answer:  answer,
		Sources: s.attributeSources(ctx, results),
	}, nil
}

// attributeSources resolves each result's parent document name. Resolution
// is best-effort: a missing document leaves the name empty, never fails
// the query.
func (s *QueryService) attributeSources(ctx context.Context, results []*domain.RetrievedChunk) []*Source {
	names := make(map[string]string)
	for _, r := range results {
		if _, seen := names[r.DocumentID]; seen {
			continue
		}
		name := ""
		if doc, err := s.docRepo.GetByIDOptional(ctx, r.DocumentID); err == nil && doc != nil {
			name = doc.SourceName
		}
		names[r.DocumentID] = name
	}

	sources := make([]*Source, len(results))
	for i, r := range results {
		sources[i] = &Source{
			DocumentID: r.DocumentID,
			ChunkID:    r.ChunkID,
			Content:    r.Content,
			Score:      r.Score,
			SourceName: names[r.DocumentID],
		}
	}
	return sources
}

// ValidateOrigin checks the request origin against the chatbox's
// allow-list. A non-enforcing chatbox accepts any origin including none.
// On an enforcing chatbox a missing origin and an empty allow-list are
// both forbidden, and a normalized mismatch yields OriginNotAllowedError.
func ValidateOrigin(chatbox *domain.Chatbox, origin string) error {
	if !chatbox.EnforceAllowedOrigins {
		return nil
	}

	if origin == "" {
		return domain.ErrOriginRequired
	}
	if len(chatbox.AllowedOrigins) == 0 {
		return domain.ErrNoAllowedOrigins
	}

	normalized := normalizeOrigin(origin)
	for _, allowed := range chatbox.AllowedOrigins {
		if normalizeOrigin(allowed) == normalized {
			return nil
		}
	}
	return domain.NewOriginNotAllowedError(origin)
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}
