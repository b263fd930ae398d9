package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/helperly/helperly/internal/api"
	"github.com/helperly/helperly/internal/api/middleware"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/service"
)

type IngestionService interface {
	IngestText(ctx context.Context, input service.IngestTextInput) (*domain.Document, int, error)
	IngestURL(ctx context.Context, input service.IngestURLInput) (*domain.Document, int, error)
	IngestFile(ctx context.Context, input service.IngestFileInput) (*domain.Document, int, error)
}

type IngestHandler struct {
	svc            IngestionService
	uploadMaxBytes int64
}

func NewIngestHandler(svc IngestionService, uploadMaxBytes int64) *IngestHandler {
	return &IngestHandler{svc: svc, uploadMaxBytes: uploadMaxBytes}
}

type IngestTextRequest struct {
	ChatboxID  string `json:"chatbox_id"`
	Text       string `json:"text"`
	SourceName string `json:"source_name"`
}

type IngestURLRequest struct {
	ChatboxID string `json:"chatbox_id"`
	URL       string `json:"url"`
}

type IngestResponse struct {
	DocumentID string `json:"document_id"`
	SourceType string `json:"source_type"`
	SourceName string `json:"source_name"`
	ChunkCount int    `json:"chunk_count"`
}

func ingestResponse(doc *domain.Document, chunkCount int) *IngestResponse {
	return &IngestResponse{
		DocumentID: doc.ID,
		SourceType: string(doc.SourceType),
		SourceName: doc.SourceName,
		ChunkCount: chunkCount,
	}
}

func (h *IngestHandler) Text(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	var req IngestTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ChatboxID == "" {
		api.Error(w, http.StatusBadRequest, "chatbox_id is required")
		return
	}
	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	doc, chunkCount, err := h.svc.IngestText(r.Context(), service.IngestTextInput{
		OrgID:      orgID,
		ChatboxID:  req.ChatboxID,
		Text:       req.Text,
		SourceName: req.SourceName,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ingestResponse(doc, chunkCount))
}

func (h *IngestHandler) URL(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	var req IngestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ChatboxID == "" {
		api.Error(w, http.StatusBadRequest, "chatbox_id is required")
		return
	}
	if req.URL == "" {
		api.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	doc, chunkCount, err := h.svc.IngestURL(r.Context(), service.IngestURLInput{
		OrgID:     orgID,
		ChatboxID: req.ChatboxID,
		URL:       req.URL,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ingestResponse(doc, chunkCount))
}

// Upload accepts a multipart form with a "file" part and a "chatbox_id"
// field. The size ceiling is checked before any extraction work.
func (h *IngestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	chatboxID := r.FormValue("chatbox_id")
	if chatboxID == "" {
		api.Error(w, http.StatusBadRequest, "chatbox_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.uploadMaxBytes {
		api.Error(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.uploadMaxBytes))
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.uploadMaxBytes+1))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if int64(len(content)) > h.uploadMaxBytes {
		api.Error(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.uploadMaxBytes))
		return
	}

	doc, chunkCount, err := h.svc.IngestFile(r.Context(), service.IngestFileInput{
		OrgID:     orgID,
		ChatboxID: chatboxID,
		Filename:  header.Filename,
		Content:   content,
		MimeType:  header.Header.Get("Content-Type"),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ingestResponse(doc, chunkCount))
}
