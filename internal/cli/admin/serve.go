package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/helperly/helperly/internal/api/handlers"
	"github.com/helperly/helperly/internal/config"
	"github.com/helperly/helperly/internal/crawler"
	"github.com/helperly/helperly/internal/database"
	"github.com/helperly/helperly/internal/domain"
	"github.com/helperly/helperly/internal/openai"
	"github.com/helperly/helperly/internal/repository"
	"github.com/helperly/helperly/internal/server"
	"github.com/helperly/helperly/internal/service"
	"github.com/helperly/helperly/internal/storage"
	"github.com/helperly/helperly/internal/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the helperly API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownTelemetry := initTelemetry(cfg)
	defer shutdownTelemetry()

	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	orgRepo := repository.NewOrgRepository(pool)
	chatboxRepo := repository.NewChatboxRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	if cfg.InitOrgName != "" {
		if err := bootstrapInitialOrg(ctx, cfg, orgRepo); err != nil {
			return fmt.Errorf("failed to bootstrap initial org: %w", err)
		}
	}

	chunker, err := service.NewChunker(service.ChunkConfig{
		Size:    cfg.ChunkSize,
		Overlap: cfg.ChunkOverlap,
	})
	if err != nil {
		return fmt.Errorf("invalid chunking config: %w", err)
	}

	embedder, answerer := buildProviders(cfg)
	uuidGen := &service.DefaultUUIDGenerator{}
	fetcher := crawler.NewFetcher()

	ingestionSvc := service.NewIngestionService(
		chatboxRepo, documentRepo, chunkRepo, chunker, embedder, fetcher, uuidGen)
	documentSvc := service.NewDocumentService(documentRepo, chatboxRepo)

	if cfg.HasS3() {
		archive, err := storage.NewArchive(ctx, storage.Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		ingestionSvc = ingestionSvc.WithUploadStore(archive)
		documentSvc = documentSvc.WithArchiveRemover(archive)
	}

	chatboxSvc := service.NewChatboxService(chatboxRepo, txRunner, uuidGen)
	querySvc := service.NewQueryService(
		chatboxRepo, chunkRepo, documentRepo, embedder, answerer,
		service.QueryDefaults{TopK: cfg.TopKDefault, MinScore: cfg.MinScoreDefault})

	router := server.NewRouter(server.RouterConfig{
		APIKey:          cfg.APIKey,
		MaxBodyBytes:    cfg.UploadMaxBytes() + 1024*1024,
		ChatboxHandler:  handlers.NewChatboxHandler(chatboxSvc),
		DocumentHandler: handlers.NewDocumentHandler(documentSvc),
		IngestHandler:   handlers.NewIngestHandler(ingestionSvc, cfg.UploadMaxBytes()),
		QueryHandler:    handlers.NewQueryHandler(querySvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// initTelemetry starts Sentry tracing when SENTRY_DSN is set. Production
// traffic is sampled at 10%; development keeps every trace.
func initTelemetry(cfg *config.Config) func() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return func() {}
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}
	sampleRate := 0.1
	if environment == "development" {
		sampleRate = 1.0
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              dsn,
		Environment:      environment,
		TracesSampleRate: sampleRate,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Printf("telemetry init failed (continuing without tracing): %v", err)
		return func() {}
	}
	return shutdown
}

// buildProviders picks the embedding and answer providers: OpenAI when a key
// is configured, deterministic stubs otherwise.
func buildProviders(cfg *config.Config) (service.Embedder, service.Answerer) {
	if cfg.HasOpenAI() {
		client := openai.NewClientWithConfig(openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			EmbeddingModel:      cfg.OpenAIEmbeddingModel,
			ChatModel:           cfg.OpenAIChatModel,
			EmbeddingDimensions: cfg.EmbeddingDimensions,
		})
		log.Println("using OpenAI embedding and answer providers")
		return client, client
	}

	log.Println("no OpenAI key configured, using deterministic stub providers")
	return service.NewStubEmbedder(cfg.EmbeddingDimensions), service.NewStubAnswerer()
}

func bootstrapInitialOrg(ctx context.Context, cfg *config.Config, orgRepo *repository.OrgRepository) error {
	org, err := orgRepo.GetByName(ctx, cfg.InitOrgName)
	if err != nil && !errors.Is(err, domain.ErrOrganizationNotFound) {
		return fmt.Errorf("failed to check existing org: %w", err)
	}

	if org != nil {
		log.Printf("bootstrap: organization '%s' already exists (id: %s)", org.Name, org.ID)
		return nil
	}

	org = &domain.Organization{
		ID:        (&service.DefaultUUIDGenerator{}).NewString(),
		Name:      cfg.InitOrgName,
		CreatedAt: time.Now().UTC(),
	}
	if err := domain.ValidateOrganization(org); err != nil {
		return err
	}
	if err := orgRepo.Create(ctx, org); err != nil {
		return fmt.Errorf("failed to create org: %w", err)
	}
	log.Printf("bootstrap: created organization '%s' (id: %s)", org.Name, org.ID)
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Println("migrations: database is up to date (no migrations applied)")
	case err != nil:
		return fmt.Errorf("failed to get migration version: %w", err)
	case dirty:
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	case errors.Is(upErr, migrate.ErrNoChange):
		log.Printf("migrations: database is up to date (version %d)", version)
	default:
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
