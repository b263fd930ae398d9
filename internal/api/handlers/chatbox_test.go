package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helperly/helperly/internal/api/middleware"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/service"
)

type MockChatboxService struct {
	mock.Mock
}

func (m *MockChatboxService) Create(ctx context.Context, input service.CreateChatboxInput) (*domain.Chatbox, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chatbox), args.Error(1)
}

func (m *MockChatboxService) GetByID(ctx context.Context, id string) (*domain.Chatbox, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chatbox), args.Error(1)
}

func (m *MockChatboxService) List(ctx context.Context, orgID, cursor string, limit int) (*service.ChatboxPageResult, error) {
	args := m.Called(ctx, orgID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatboxPageResult), args.Error(1)
}

func (m *MockChatboxService) Update(ctx context.Context, input service.UpdateChatboxInput) (*domain.Chatbox, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chatbox), args.Error(1)
}

func (m *MockChatboxService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestChatbox() *domain.Chatbox {
	now := time.Now().UTC()
	return &domain.Chatbox{
		ID:                    "cb-123",
		OrgID:                 "org-456",
		Name:                  "Support Widget",
		Description:           "Answers from the docs",
		AllowedOrigins:        []string{"https://example.com"},
		EnforceAllowedOrigins: true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func requestWithOrgID(method, url string, body []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.OrgIDKey, "org-456")
	return req.WithContext(ctx)
}

func requestWithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestChatboxHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	expected := newTestChatbox()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateChatboxInput) bool {
		return input.OrgID == "org-456" &&
			input.Name == "Support Widget" &&
			input.EnforceAllowedOrigins
	})).Return(expected, nil)

	body := `{"name":"Support Widget","description":"Answers from the docs","allowed_origins":["https://example.com"],"enforce_allowed_origins":true}`
	req := requestWithOrgID(http.MethodPost, "/chatboxes", []byte(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "cb-123", data["id"])
	assert.Equal(t, "org-456", data["org_id"])
	mockSvc.AssertExpectations(t)
}

func TestChatboxHandler_Create_Unauthorized(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	body := `{"name":"Support Widget"}`
	req := httptest.NewRequest(http.MethodPost, "/chatboxes", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestChatboxHandler_Create_MissingName(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	req := requestWithOrgID(http.MethodPost, "/chatboxes", []byte(`{"description":"no name"}`))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestChatboxHandler_Create_EnforcingWithoutOrigins(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrAllowedOriginsMissing)

	body := `{"name":"Gated","enforce_allowed_origins":true}`
	req := requestWithOrgID(http.MethodPost, "/chatboxes", []byte(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatboxHandler_Get_Success(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, "cb-123").Return(newTestChatbox(), nil)

	req := requestWithOrgID(http.MethodGet, "/chatboxes/cb-123", nil)
	req = requestWithURLParam(req, "id", "cb-123")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Support Widget", data["name"])
	assert.Equal(t, true, data["enforce_allowed_origins"])
}

func TestChatboxHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, "cb-999").Return(nil, domain.ErrChatboxNotFound)

	req := requestWithOrgID(http.MethodGet, "/chatboxes/cb-999", nil)
	req = requestWithURLParam(req, "id", "cb-999")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatboxHandler_List_Success(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	page := &service.ChatboxPageResult{
		Items:      []*domain.Chatbox{newTestChatbox()},
		NextCursor: "next-cursor",
		HasMore:    true,
	}
	mockSvc.On("List", mock.Anything, "org-456", "", 20).Return(page, nil)

	req := requestWithOrgID(http.MethodGet, "/chatboxes?limit=20", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "next-cursor", data["cursor"])
	assert.Equal(t, true, data["has_more"])
	assert.Len(t, data["chatboxes"], 1)
}

func TestChatboxHandler_List_InvalidLimit(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	for _, limit := range []string{"0", "101", "abc"} {
		req := requestWithOrgID(http.MethodGet, "/chatboxes?limit="+limit, nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
	mockSvc.AssertNotCalled(t, "List")
}

func TestChatboxHandler_Update_Success(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	updated := newTestChatbox()
	updated.Name = "Renamed"
	mockSvc.On("Update", mock.Anything, mock.MatchedBy(func(input service.UpdateChatboxInput) bool {
		return input.ChatboxID == "cb-123" &&
			input.Name != nil && *input.Name == "Renamed" &&
			input.Description == nil
	})).Return(updated, nil)

	req := requestWithOrgID(http.MethodPut, "/chatboxes/cb-123", []byte(`{"name":"Renamed"}`))
	req = requestWithURLParam(req, "id", "cb-123")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Renamed", data["name"])
	mockSvc.AssertExpectations(t)
}

func TestChatboxHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "cb-123").Return(nil)

	req := requestWithOrgID(http.MethodDelete, "/chatboxes/cb-123", nil)
	req = requestWithURLParam(req, "id", "cb-123")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestChatboxHandler_Delete_NotFound(t *testing.T) {
	mockSvc := new(MockChatboxService)
	handler := NewChatboxHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "cb-999").Return(domain.ErrChatboxNotFound)

	req := requestWithOrgID(http.MethodDelete, "/chatboxes/cb-999", nil)
	req = requestWithURLParam(req, "id", "cb-999")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
