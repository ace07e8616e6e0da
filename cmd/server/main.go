package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lacupula/imperium/internal/config"
	"github.com/lacupula/imperium/internal/database"
	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/handler"
	"github.com/lacupula/imperium/internal/middleware"
	"github.com/lacupula/imperium/internal/service"
	"github.com/lacupula/imperium/internal/store"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize snapshot backend
	var backend store.Store
	switch cfg.Store.Backend {
	case config.StoreBackendSurreal:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		})
		if err := db.Connect(ctx); err != nil {
			slog.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		slog.Info("connected to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Database),
		)
		backend = store.NewSurrealStore(db)
	default:
		backend = store.NewFileStore(cfg.Store.FilePath)
		slog.Info("using file snapshot store", slog.String("path", cfg.Store.FilePath))
	}

	snapshots := store.NewManager(backend)

	// Initialize evidence backend
	var evidenceStore evidence.Store
	switch cfg.Evidence.Backend {
	case config.EvidenceBackendS3:
		s3Store, err := evidence.NewS3Store(ctx, evidence.S3Config{
			Bucket:          cfg.Evidence.S3Bucket,
			Endpoint:        cfg.Evidence.S3Endpoint,
			AccessKeyID:     cfg.Evidence.S3AccessKeyID,
			SecretAccessKey: cfg.Evidence.S3SecretAccessKey,
		})
		if err != nil {
			slog.Error("failed to initialize S3 evidence store", slog.String("error", err.Error()))
			os.Exit(1)
		}
		evidenceStore = s3Store
		slog.Info("using S3 evidence store", slog.String("bucket", cfg.Evidence.S3Bucket))
	default:
		evidenceStore = evidence.NewDiskStore(cfg.Evidence.UploadDir)
		slog.Info("using disk evidence store", slog.String("dir", cfg.Evidence.UploadDir))
	}

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		Snapshots: snapshots,
		Evidence:  evidenceStore,
	})

	guildService := service.NewGuildService(service.GuildServiceConfig{
		Snapshots: snapshots,
		Evidence:  evidenceStore,
	})

	newsService := service.NewNewsService(service.NewsServiceConfig{
		Snapshots: snapshots,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100, // 100 requests per minute
		Window: time.Minute,
		Burst:  20, // Allow bursts up to 20
	})
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	guildHandler := handler.NewGuildHandler(guildService)
	newsHandler := handler.NewNewsHandler(newsService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	authMiddleware := middleware.Auth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	// Auth endpoints (protected)
	mux.Handle("GET /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))

	// Guild endpoints
	mux.HandleFunc("GET /v1/guilds", guildHandler.List)
	mux.HandleFunc("GET /v1/guilds/{guildId}", guildHandler.Get)
	mux.Handle("POST /v1/guilds", authMiddleware(http.HandlerFunc(guildHandler.Found)))
	mux.Handle("POST /v1/guilds/{guildId}/apply", authMiddleware(http.HandlerFunc(guildHandler.Apply)))
	mux.Handle("GET /v1/guilds/manage/applicants", authMiddleware(http.HandlerFunc(guildHandler.Applicants)))
	mux.Handle("POST /v1/guilds/manage/applicants/{applicationId}/resolve", authMiddleware(http.HandlerFunc(guildHandler.Resolve)))

	// News endpoints
	mux.Handle("GET /v1/news", optionalAuth(http.HandlerFunc(newsHandler.List)))
	mux.Handle("POST /v1/news", authMiddleware(http.HandlerFunc(newsHandler.Post)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
