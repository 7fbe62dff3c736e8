package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/petalert/petmatch/internal/config"
	"github.com/petalert/petmatch/internal/db"
	dbRedis "github.com/petalert/petmatch/internal/db/redis"
	logpkg "github.com/petalert/petmatch/internal/logger"
	"github.com/petalert/petmatch/internal/metrics"
	"github.com/petalert/petmatch/internal/repository/embcache"
	"github.com/petalert/petmatch/internal/repository/postgres"
	httpTransport "github.com/petalert/petmatch/internal/transport/http"
	openaiEmb "github.com/petalert/petmatch/internal/transport/openai"
	visionTransport "github.com/petalert/petmatch/internal/transport/vision"
	analyzeuc "github.com/petalert/petmatch/internal/usecase/analyze"
	healthuc "github.com/petalert/petmatch/internal/usecase/health"
	indexuc "github.com/petalert/petmatch/internal/usecase/index"
	reportuc "github.com/petalert/petmatch/internal/usecase/report"
	searchuc "github.com/petalert/petmatch/internal/usecase/search"
	"github.com/petalert/petmatch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting petmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_host", cfg.Database.Host),
	)

	ctx := context.Background()

	// PostgreSQL
	sqlDB, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()
	logger.Info("Connected to database")

	// Redis cache (optional)
	var cache db.Store
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cache = store
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	// Google Cloud Vision
	visionClient, err := visionTransport.New(ctx, cfg.Vision.CredentialsFile, cfg.Vision.MaxLabels, logger)
	if err != nil {
		logger.Fatal("Failed to create vision client", zap.Error(err))
	}
	defer func() { _ = visionClient.Close() }()

	// Embedder chain: OpenAI-compatible CLIP -> cached
	baseEmbedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	var embedder indexuc.ImageEmbedder = baseEmbedder
	if cache != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		embedder = embcache.New(baseEmbedder, cache, metrics.EmbeddingCacheTotal, ttl, logger)
	}
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	reportRepo := postgres.NewReportRepository(sqlDB)
	matchRepo := postgres.NewMatchRepository(sqlDB)

	// Use case services
	reportSvc := reportuc.New(reportRepo)
	searchSvc := searchuc.New(reportRepo, reportRepo, matchRepo, logger).
		WithMatchCounter(metrics.MatchesPersistedTotal)
	analyzeSvc := analyzeuc.New(visionClient)
	indexSvc := indexuc.New(embedder, reportRepo, logger)
	healthSvc := healthuc.New(postgres.NewPinger(sqlDB), cache, baseEmbedder)

	searchDefaults := httpTransport.SearchDefaults{
		RadiusKm:      cfg.Search.DefaultRadiusKm,
		AutoMatchTopK: cfg.Search.AutoMatchTopK,
		EmbeddingTopK: cfg.Search.EmbeddingTopK,
	}
	server := httpTransport.NewServer(reportSvc, searchSvc, analyzeSvc, indexSvc, healthSvc, searchDefaults, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
