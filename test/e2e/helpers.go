//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helperly/helperly/internal/api/handlers"
	"github.com/helperly/helperly/internal/crawler"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/repository"
	"github.com/helperly/helperly/internal/server"
	"github.com/helperly/helperly/internal/service"
	"github.com/helperly/helperly/internal/testutil"
)

const (
	testAPIKey        = "e2e-secret-key"
	embeddingDims     = 1536
	uploadMaxBytes    = 1024 * 1024
	serverStartupWait = 2 * time.Second
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	OrgID        string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment: a pgvector container,
// migrations, and an HTTP server wired with the stub embedding provider.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	env := &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}

	env.Bootstrap()

	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Bootstrap creates the organization the tests run under.
func (e *E2ETestEnv) Bootstrap() {
	orgRepo := repository.NewOrgRepository(e.Pool)
	uuidGen := &service.DefaultUUIDGenerator{}

	org := &domain.Organization{
		ID:        uuidGen.NewString(),
		Name:      "E2E Test Org",
		CreatedAt: time.Now().UTC(),
	}
	if err := orgRepo.Create(e.Ctx, org); err != nil {
		e.T.Fatalf("failed to create org: %v", err)
	}
	e.OrgID = org.ID
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("POST", path, body, nil)
}

// PostWithOrigin performs a POST request carrying an Origin header
func (e *E2ETestEnv) PostWithOrigin(path string, body interface{}, origin string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, map[string]string{"Origin": origin})
}

// Put performs a PUT request
func (e *E2ETestEnv) Put(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("PUT", path, body, nil)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil, nil)
}

// Upload posts a multipart file to the upload endpoint
func (e *E2ETestEnv) Upload(chatboxID, filename string, content []byte) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("chatbox_id", chatboxID); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", e.ServerURL+"/v1/ingest/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("X-Org-ID", e.OrgID)

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return parseResponse(resp)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, extraHeaders map[string]string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("X-Org-ID", e.OrgID)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return parseResponse(resp)
}

func parseResponse(resp *http.Response) (*APIResponse, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNoContent {
		return &APIResponse{}, nil
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// startServer starts the HTTP server with all handlers
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	chatboxRepo := repository.NewChatboxRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	uuidGen := &service.DefaultUUIDGenerator{}
	fetcher := crawler.NewFetcher()

	chunker, err := service.NewChunker(service.ChunkConfig{Size: 200, Overlap: 40})
	if err != nil {
		t.Fatalf("failed to create chunker: %v", err)
	}

	embedder := service.NewStubEmbedder(embeddingDims)
	answerer := service.NewStubAnswerer()

	ingestionSvc := service.NewIngestionService(
		chatboxRepo, documentRepo, chunkRepo, chunker, embedder, fetcher, uuidGen)
	documentSvc := service.NewDocumentService(documentRepo, chatboxRepo)
	chatboxSvc := service.NewChatboxService(chatboxRepo, txRunner, uuidGen)
	querySvc := service.NewQueryService(
		chatboxRepo, chunkRepo, documentRepo, embedder, answerer,
		service.QueryDefaults{TopK: 5, MinScore: 0.3})

	router := server.NewRouter(server.RouterConfig{
		APIKey:          testAPIKey,
		MaxBodyBytes:    uploadMaxBytes * 2,
		ChatboxHandler:  handlers.NewChatboxHandler(chatboxSvc),
		DocumentHandler: handlers.NewDocumentHandler(documentSvc),
		IngestHandler:   handlers.NewIngestHandler(ingestionSvc, uploadMaxBytes),
		QueryHandler:    handlers.NewQueryHandler(querySvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	// Wait for the server to accept connections
	deadline := time.Now().Add(serverStartupWait)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			conn.Close()
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}

	return serverURL, closer
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
