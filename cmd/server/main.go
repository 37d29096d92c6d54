package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloudshare/internal/config"
	"cloudshare/internal/filetype"
	"cloudshare/internal/handler"
	"cloudshare/internal/middleware"
	"cloudshare/internal/observability"
	"cloudshare/internal/repository"
	"cloudshare/internal/repository/snapshot"
	"cloudshare/internal/service/presentation"
	"cloudshare/internal/service/vfs"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
		"key_prefix", cfg.KeyPrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer store.Close()

	repo := snapshot.NewRepository(store, snapshot.NewKeys(cfg.KeyPrefix), logger)

	// Services
	files := vfs.NewFilesystemService(repo, vfs.UUIDGenerator{}, logger)
	shares, err := vfs.NewShareRegistry(repo, files, cfg.ShareBaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to create share registry: %v", err)
	}
	files.AttachShareCleaner(shares)

	// A store that cannot be read must not be seeded or overwritten
	entryCount, err := files.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load entries: %v", err)
	}
	shareCount, err := shares.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load shares: %v", err)
	}
	logger.Info("state loaded", "entries", entryCount, "shares", shareCount)

	if cfg.SeedDemoData {
		seeded, err := files.SeedDemoData(ctx)
		if err != nil {
			// seeded entries are kept in memory and retried on the next write
			logger.Warn("demo data not persisted", "error", err)
		}
		if seeded {
			logger.Info("demo data seeded")
		}
	}

	types, err := filetype.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load file type tables: %v", err)
	}
	projector := presentation.NewProjector(types)
	ingester := vfs.NewIngester(files, types, cfg.InlinePayloadThreshold, cfg.UploadConcurrency, logger)

	metrics, err := observability.NewMetrics(files.Count)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	logger.Info("services initialized")

	handlers := &handler.Handlers{
		Entries: handler.NewEntryHandler(files, shares, projector, metrics, logger),
		Folders: handler.NewFolderHandler(files, projector, metrics, logger),
		Uploads: handler.NewUploadHandler(ingester, projector, cfg.MaxUploadBytes, metrics, logger),
		Shares:  handler.NewShareHandler(files, shares, projector, metrics, logger),
		Metrics: metrics,
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger, metrics)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Minute, // large multipart uploads
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	// Write back anything a failed save left behind
	if err := files.Flush(shutdownCtx); err != nil {
		logger.Error("failed to flush entries", "error", err)
	}
	if err := shares.Flush(shutdownCtx); err != nil {
		logger.Error("failed to flush shares", "error", err)
	}
	logger.Info("server stopped")
}
