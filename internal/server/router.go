package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helperly/helperly/internal/api"
	"github.com/helperly/helperly/internal/api/handlers"
	"github.com/helperly/helperly/internal/api/middleware"
)

type RouterConfig struct {
	APIKey          string
	MaxBodyBytes    int64
	ChatboxHandler  *handlers.ChatboxHandler
	DocumentHandler *handlers.DocumentHandler
	IngestHandler   *handlers.IngestHandler
	QueryHandler    *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 8 * 1024 * 1024
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.StaticAPIKey(cfg.APIKey))
		r.Use(middleware.OrgContext)

		r.Route("/chatboxes", func(r chi.Router) {
			r.Post("/", cfg.ChatboxHandler.Create)
			r.Get("/", cfg.ChatboxHandler.List)
			r.Get("/{id}", cfg.ChatboxHandler.Get)
			r.Put("/{id}", cfg.ChatboxHandler.Update)
			r.Delete("/{id}", cfg.ChatboxHandler.Delete)
			r.Get("/{id}/documents", cfg.DocumentHandler.ListByChatbox)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/{id}", cfg.DocumentHandler.Get)
			r.Delete("/{id}", cfg.DocumentHandler.Delete)
		})

		r.Route("/ingest", func(r chi.Router) {
			r.Post("/text", cfg.IngestHandler.Text)
			r.Post("/url", cfg.IngestHandler.URL)
			r.Post("/upload", cfg.IngestHandler.Upload)
		})

		r.Post("/query", cfg.QueryHandler.Query)
	})

	return r
}
