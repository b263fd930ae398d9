package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/helperly/helperly/internal/api"
	"github.com/helperly/helperly/internal/api/middleware"
	"github.com/helperly/helperly/internal/service"
)

const maxTopK = 20

type QueryService interface {
	Query(ctx context.Context, input service.QueryInput) (*service.QueryOutput, error)
}

type QueryHandler struct {
	svc QueryService
}

func NewQueryHandler(svc QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type QueryRequest struct {
	ChatboxID  string  `json:"chatbox_id"`
	Question   string  `json:"question"`
	Origin     string  `json:"origin"`
	DocumentID string  `json:"document_id"`
	TopK       int     `json:"top_k"`
	MinScore   float64 `json:"min_score"`
}

type SourceResponse struct {
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	SourceName string  `json:"source_name,omitempty"`
}

type QueryResponse struct {
	Answer  string            `json:"answer"`
	Sources []*SourceResponse `json:"sources"`
}

// Query answers one question against a chatbox. The request origin comes
// from the Origin header when present, with the body field as fallback
// for non-browser callers.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ChatboxID == "" {
		api.Error(w, http.StatusBadRequest, "chatbox_id is required")
		return
	}
	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.TopK < 0 || req.TopK > maxTopK {
		api.Error(w, http.StatusBadRequest, "top_k must be between 1 and 20")
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = req.Origin
	}

	output, err := h.svc.Query(r.Context(), service.QueryInput{
		OrgID:      orgID,
		ChatboxID:  req.ChatboxID,
		Question:   req.Question,
		Origin:     origin,
		DocumentID: req.DocumentID,
		TopK:       req.TopK,
		MinScore:   req.MinScore,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := &QueryResponse{
		Answer:  output.Answer,
		Sources: make([]*SourceResponse, 0, len(output.Sources)),
	}
	for _, s := range output.Sources {
		resp.Sources = append(resp.Sources, &SourceResponse{
			DocumentID: s.DocumentID,
			ChunkID:    s.ChunkID,
			Content:    s.Content,
			Score:      s.Score,
			SourceName: s.SourceName,
		})
	}

	api.Success(w, http.StatusOK, resp)
}
