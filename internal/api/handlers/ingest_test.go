package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helperly/helperly/internal/api/middleware"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/service"
)

type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) IngestText(ctx context.Context, input service.IngestTextInput) (*domain.Document, int, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Document), args.Int(1), args.Error(2)
}

func (m *MockIngestionService) IngestURL(ctx context.Context, input service.IngestURLInput) (*domain.Document, int, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Document), args.Int(1), args.Error(2)
}

func (m *MockIngestionService) IngestFile(ctx context.Context, input service.IngestFileInput) (*domain.Document, int, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Document), args.Int(1), args.Error(2)
}

func newTestDocument(sourceType domain.SourceType) *domain.Document {
	return &domain.Document{
		ID:         "doc-123",
		ChatboxID:  "cb-123",
		SourceType: sourceType,
		SourceName: "Product Notes",
		CreatedAt:  time.Now().UTC(),
	}
}

func multipartUpload(t *testing.T, chatboxID, filename string, content []byte) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	require.NoError(t, writer.WriteField("chatbox_id", chatboxID))
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	ctx := context.WithValue(req.Context(), middleware.OrgIDKey, "org-456")
	return req.WithContext(ctx)
}

func TestIngestHandler_Text_Success(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	mockSvc.On("IngestText", mock.Anything, mock.MatchedBy(func(input service.IngestTextInput) bool {
		return input.OrgID == "org-456" &&
			input.ChatboxID == "cb-123" &&
			input.Text == "Some knowledge." &&
			input.SourceName == "Product Notes"
	})).Return(newTestDocument(domain.SourceTypeText), 2, nil)

	body := `{"chatbox_id":"cb-123","text":"Some knowledge.","source_name":"Product Notes"}`
	req := requestWithOrgID(http.MethodPost, "/ingest/text", []byte(body))
	w := httptest.NewRecorder()

	handler.Text(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "doc-123", data["document_id"])
	assert.Equal(t, "text", data["source_type"])
	assert.Equal(t, float64(2), data["chunk_count"])
	mockSvc.AssertExpectations(t)
}

func TestIngestHandler_Text_Validation(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	cases := []struct {
		name string
		body string
	}{
		{"missing chatbox_id", `{"text":"content"}`},
		{"missing text", `{"chatbox_id":"cb-123"}`},
		{"malformed json", `{"chatbox_id":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithOrgID(http.MethodPost, "/ingest/text", []byte(tc.body))
			w := httptest.NewRecorder()

			handler.Text(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	mockSvc.AssertNotCalled(t, "IngestText")
}

func TestIngestHandler_Text_ChatboxNotFound(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	mockSvc.On("IngestText", mock.Anything, mock.Anything).Return(nil, 0, domain.ErrChatboxNotFound)

	body := `{"chatbox_id":"cb-999","text":"content"}`
	req := requestWithOrgID(http.MethodPost, "/ingest/text", []byte(body))
	w := httptest.NewRecorder()

	handler.Text(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestHandler_URL_Success(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	doc := newTestDocument(domain.SourceTypeURL)
	doc.SourceName = "https://example.com/docs"
	mockSvc.On("IngestURL", mock.Anything, mock.MatchedBy(func(input service.IngestURLInput) bool {
		return input.ChatboxID == "cb-123" && input.URL == "https://example.com/docs"
	})).Return(doc, 3, nil)

	body := `{"chatbox_id":"cb-123","url":"https://example.com/docs"}`
	req := requestWithOrgID(http.MethodPost, "/ingest/url", []byte(body))
	w := httptest.NewRecorder()

	handler.URL(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "url", data["source_type"])
	mockSvc.AssertExpectations(t)
}

func TestIngestHandler_URL_FetchFailure(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	mockSvc.On("IngestURL", mock.Anything, mock.Anything).
		Return(nil, 0, domain.NewExternalServiceError("url_fetch", "failed to fetch URL", nil))

	body := `{"chatbox_id":"cb-123","url":"https://unreachable.example.com"}`
	req := requestWithOrgID(http.MethodPost, "/ingest/url", []byte(body))
	w := httptest.NewRecorder()

	handler.URL(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestIngestHandler_Upload_Success(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	doc := newTestDocument(domain.SourceTypeFile)
	doc.SourceName = "notes.txt"
	mockSvc.On("IngestFile", mock.Anything, mock.MatchedBy(func(input service.IngestFileInput) bool {
		return input.ChatboxID == "cb-123" &&
			input.Filename == "notes.txt" &&
			string(input.Content) == "file contents"
	})).Return(doc, 1, nil)

	req := multipartUpload(t, "cb-123", "notes.txt", []byte("file contents"))
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "file", data["source_type"])
	assert.Equal(t, "notes.txt", data["source_name"])
	mockSvc.AssertExpectations(t)
}

func TestIngestHandler_Upload_TooLarge(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 16)

	req := multipartUpload(t, "cb-123", "big.txt", bytes.Repeat([]byte("a"), 64))
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	mockSvc.AssertNotCalled(t, "IngestFile")
}

func TestIngestHandler_Upload_MissingFile(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("chatbox_id", "cb-123"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestHandler_Upload_UnsupportedType(t *testing.T) {
	mockSvc := new(MockIngestionService)
	handler := NewIngestHandler(mockSvc, 1024)

	mockSvc.On("IngestFile", mock.Anything, mock.Anything).
		Return(nil, 0, domain.NewDomainError(domain.ErrCodeValidation, "unsupported file type: application/pdf"))

	req := multipartUpload(t, "cb-123", "report.pdf", []byte("%PDF-1.4"))
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "application/pdf")
}
