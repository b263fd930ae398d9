package service

import (
	"context"

	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/pagination"
	"github.com/stretchr/testify/mock"
)

// MockChatboxRepository is a mock implementation of ChatboxRepositoryInterface
type MockChatboxRepository struct {
	mock.Mock
}

func (m *MockChatboxRepository) Create(ctx context.Context, c *domain.Chatbox) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockChatboxRepository) GetByID(ctx context.Context, id string) (*domain.Chatbox, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chatbox), args.Error(1)
}

func (m *MockChatboxRepository) ListByOrgWithCursor(ctx context.Context, orgID string, cursor *pagination.Cursor, limit int) (*ChatboxPageResult, error) {
	args := m.Called(ctx, orgID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ChatboxPageResult), args.Error(1)
}

func (m *MockChatboxRepository) Update(ctx context.Context, c *domain.Chatbox) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockDocumentRepository is a mock implementation of the document repository
// interfaces consumed by the services
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetByIDOptional(ctx context.Context, id string) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByChatboxWithCursor(ctx context.Context, chatboxID string, cursor *pagination.Cursor, limit int) (*DocumentPageResult, error) {
	args := m.Called(ctx, chatboxID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DocumentPageResult), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChunkRepository is a mock implementation of the chunk repository
// interfaces consumed by the services
type MockChunkRepository struct {
	mock.Mock
}

func (m *MockChunkRepository) CreateMany(ctx context.Context, chunks []*domain.Chunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func (m *MockChunkRepository) SimilaritySearch(ctx context.Context, chatboxID string, embedding []float32, topK int, minScore float64, documentID string) ([]*domain.RetrievedChunk, error) {
	args := m.Called(ctx, chatboxID, embedding, topK, minScore, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RetrievedChunk), args.Error(1)
}

// MockUUIDGenerator generates a fixed sequence of identifiers
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		uuid := m.uuids[m.callCount]
		m.callCount++
		return uuid
	}
	return "default-uuid"
}

// MockTxRunner executes the transaction function against mock repositories
type MockTxRunner struct {
	Repos  *MockTxRepositories
	TxErr  error
	Called bool
}

func NewMockTxRunner() *MockTxRunner {
	return &MockTxRunner{Repos: &MockTxRepositories{
		ChatboxRepo:  new(MockTxChatboxRepo),
		DocumentRepo: new(MockTxDocumentRepo),
		ChunkRepo:    new(MockTxChunkRepo),
	}}
}

func (m *MockTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	m.Called = true
	if m.TxErr != nil {
		return m.TxErr
	}
	return fn(m.Repos)
}

type MockTxRepositories struct {
	ChatboxRepo  *MockTxChatboxRepo
	DocumentRepo *MockTxDocumentRepo
	ChunkRepo    *MockTxChunkRepo
}

func (m *MockTxRepositories) Chatboxes() ChatboxTxRepository  { return m.ChatboxRepo }
func (m *MockTxRepositories) Documents() DocumentTxRepository { return m.DocumentRepo }
func (m *MockTxRepositories) Chunks() ChunkTxRepository       { return m.ChunkRepo }

type MockTxChatboxRepo struct {
	mock.Mock
}

func (m *MockTxChatboxRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTxDocumentRepo struct {
	mock.Mock
}

func (m *MockTxDocumentRepo) DeleteByChatbox(ctx context.Context, chatboxID string) error {
	args := m.Called(ctx, chatboxID)
	return args.Error(0)
}

type MockTxChunkRepo struct {
	mock.Mock
}

func (m *MockTxChunkRepo) DeleteByChatbox(ctx context.Context, chatboxID string) error {
	args := m.Called(ctx, chatboxID)
	return args.Error(0)
}

// MockPageFetcher is a mock implementation of PageFetcher
type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) FetchText(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// MockEmbedder is a mock implementation of Embedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbedder) Dimensions() int {
	args := m.Called()
	return args.Int(0)
}

// MockAnswerer is a mock implementation of Answerer
type MockAnswerer struct {
	mock.Mock
}

func (m *MockAnswerer) GenerateAnswer(ctx context.Context, question string, contextPassages []string) (string, error) {
	args := m.Called(ctx, question, contextPassages)
	return args.String(0), args.Error(1)
}

// MockUploadStore is a mock implementation of UploadStore
type MockUploadStore struct {
	mock.Mock
}

func (m *MockUploadStore) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}
