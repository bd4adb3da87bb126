package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/config"
	"github.com/virsa-ai/virsa-engine/pkg/database"
	"github.com/virsa-ai/virsa-engine/pkg/extraction"
	"github.com/virsa-ai/virsa-engine/pkg/handlers"
	"github.com/virsa-ai/virsa-engine/pkg/llm"
	"github.com/virsa-ai/virsa-engine/pkg/logging"
	"github.com/virsa-ai/virsa-engine/pkg/repositories"
	"github.com/virsa-ai/virsa-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.Bool("ai_pipeline", cfg.AI.IsAvailable()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := database.ApplySchema(ctx, db, logger); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	storyRepo := repositories.NewStoryRepository()
	themeRepo := repositories.NewThemeRepository()
	familyRepo := repositories.NewFamilyMemberRepository()

	storyService := services.NewStoryService(db, storyRepo, themeRepo, familyRepo, logger)
	familyService := services.NewFamilyService(db, familyRepo, logger)

	var provider llm.Provider
	if cfg.AI.IsAvailable() {
		provider, err = llm.NewProvider(&cfg.AI, logger)
		if err != nil {
			logger.Fatal("Failed to build AI provider", zap.Error(err))
		}
	} else {
		logger.Warn("No AI endpoint configured; ingest endpoint disabled, import remains available")
	}
	pipeline := extraction.NewPipelineService(provider, storyService, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewStoryHandler(storyService, pipeline, logger).RegisterRoutes(mux)
	handlers.NewFamilyHandler(familyService, logger).RegisterRoutes(mux)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    cfg.BindAddr + ":" + cfg.Port,
		Handler: corsHandler.Handler(handlers.RequestLogger(logger)(mux)),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting virsa-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
