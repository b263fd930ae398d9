package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/helperly/helperly/internal/api"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/service"
)

type DocumentService interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByChatbox(ctx context.Context, chatboxID, cursor string, limit int) (*service.DocumentPageResult, error)
	Delete(ctx context.Context, id string) error
}

type DocumentHandler struct {
	svc DocumentService
}

func NewDocumentHandler(svc DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type DocumentResponse struct {
	ID            string `json:"id"`
	ChatboxID     string `json:"chatbox_id"`
	SourceType    string `json:"source_type"`
	SourceName    string `json:"source_name"`
	SourceURL     string `json:"source_url,omitempty"`
	FileSizeBytes int64  `json:"file_size_bytes,omitempty"`
	MimeType      string `json:"mime_type,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type DocumentListResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Cursor    string              `json:"cursor,omitempty"`
	HasMore   bool                `json:"has_more"`
}

func documentToResponse(d *domain.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:            d.ID,
		ChatboxID:     d.ChatboxID,
		SourceType:    string(d.SourceType),
		SourceName:    d.SourceName,
		SourceURL:     d.SourceURL,
		FileSizeBytes: d.FileSizeBytes,
		MimeType:      d.MimeType,
		CreatedAt:     d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	doc, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, documentToResponse(doc))
}

func (h *DocumentHandler) ListByChatbox(w http.ResponseWriter, r *http.Request) {
	chatboxID := chi.URLParam(r, "id")
	if chatboxID == "" {
		api.Error(w, http.StatusBadRequest, "chatbox id is required")
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

	page, err := h.svc.ListByChatbox(r.Context(), chatboxID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := &DocumentListResponse{
		Documents: make([]*DocumentResponse, 0, len(page.Items)),
		Cursor:    page.NextCursor,
		HasMore:   page.HasMore,
	}
	for _, d := range page.Items {
		resp.Documents = append(resp.Documents, documentToResponse(d))
	}

	api.Success(w, http.StatusOK, resp)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
