package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/helperly/helperly/internal/api"
	"github.com/helperly/helperly/internal/api/middleware"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/service"
)

type ChatboxService interface {
	Create(ctx context.Context, input service.CreateChatboxInput) (*domain.Chatbox, error)
	GetByID(ctx context.Context, id string) (*domain.Chatbox, error)
	List(ctx context.Context, orgID, cursor string, limit int) (*service.ChatboxPageResult, error)
	Update(ctx context.Context, input service.UpdateChatboxInput) (*domain.Chatbox, error)
	Delete(ctx context.Context, id string) error
}

type ChatboxHandler struct {
	svc ChatboxService
}

func NewChatboxHandler(svc ChatboxService) *ChatboxHandler {
	return &ChatboxHandler{svc: svc}
}

type CreateChatboxRequest struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	AllowedOrigins        []string `json:"allowed_origins"`
	EnforceAllowedOrigins bool     `json:"enforce_allowed_origins"`
}

type UpdateChatboxRequest struct {
	Name                  *string  `json:"name"`
	Description           *string  `json:"description"`
	AllowedOrigins        []string `json:"allowed_origins"`
	EnforceAllowedOrigins *bool    `json:"enforce_allowed_origins"`
}

type ChatboxResponse struct {
	ID                    string   `json:"id"`
	OrgID                 string   `json:"org_id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description,omitempty"`
	AllowedOrigins        []string `json:"allowed_origins,omitempty"`
	EnforceAllowedOrigins bool     `json:"enforce_allowed_origins"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type ChatboxListResponse struct {
	Chatboxes []*ChatboxResponse `json:"chatboxes"`
	Cursor    string             `json:"cursor,omitempty"`
	HasMore   bool               `json:"has_more"`
}

func chatboxToResponse(c *domain.Chatbox) *ChatboxResponse {
	return &ChatboxResponse{
		ID:                    c.ID,
		OrgID:                 c.OrgID,
		Name:                  c.Name,
		Description:           c.Description,
		AllowedOrigins:        c.AllowedOrigins,
		EnforceAllowedOrigins: c.EnforceAllowedOrigins,
		CreatedAt:             c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:             c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *ChatboxHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "organization is required")
		return
	}

	var req CreateChatboxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	chatbox, err := h.svc.Create(r.Context(), service.CreateChatboxInput{
		OrgID:                 orgID,
		Name:                  req.Name,
		Description:           req.Description,
		AllowedOrigins:        req.AllowedOrigins,
		EnforceAllowedOrigins: req.EnforceAllowedOrigins,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, chatboxToResponse(chatbox))
}

func (h *ChatboxHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	chatbox, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, chatboxToResponse(chatbox))
}

func (h *ChatboxHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "organization is required")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			api.Error(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	page, err := h.svc.List(r.Context(), orgID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := &ChatboxListResponse{
		Chatboxes: make([]*ChatboxResponse, 0, len(page.Items)),
		Cursor:    page.NextCursor,
		HasMore:   page.HasMore,
	}
	for _, c := range page.Items {
		resp.Chatboxes = append(resp.Chatboxes, chatboxToResponse(c))
	}

	api.Success(w, http.StatusOK, resp)
}

func (h *ChatboxHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req UpdateChatboxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chatbox, err := h.svc.Update(r.Context(), service.UpdateChatboxInput{
		ChatboxID:             id,
		Name:                  req.Name,
		Description:           req.Description,
		AllowedOrigins:        req.AllowedOrigins,
		EnforceAllowedOrigins: req.EnforceAllowedOrigins,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, chatboxToResponse(chatbox))
}

func (h *ChatboxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}
