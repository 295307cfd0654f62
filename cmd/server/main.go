package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcdlocator/backend/config"
	httpDelivery "github.com/mcdlocator/backend/internal/delivery/http"
	"github.com/mcdlocator/backend/internal/domain"
	"github.com/mcdlocator/backend/internal/infrastructure/cache"
	"github.com/mcdlocator/backend/internal/infrastructure/gemini"
	"github.com/mcdlocator/backend/internal/infrastructure/logging"
	"github.com/mcdlocator/backend/internal/infrastructure/storage"
	"github.com/mcdlocator/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "mcd-locator",
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Str("cache", cfg.Cache.Type).
		Bool("gemini", cfg.GeminiEnabled()).
		Msg("Starting McDonald's outlet locator")

	ctx := context.Background()

	// Initialize infrastructure dependencies
	store, err := storage.Open(ctx, storage.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	outlets := store.Outlets()

	extractionCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	extractor := newExtractor(cfg, extractionCache, logger)

	// Initialize usecase layer
	chatbotService := usecase.NewChatbotService(outlets, extractor, logger)
	outletService := usecase.NewOutletService(outlets)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(chatbotService, outletService, version, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		srv.Close()
	}

	logger.Info().Msg("Server stopped")
	return nil
}

// newCache builds the extraction result cache selected by cfg.Cache.Type
func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "mcd:")
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return redisCache, func() { redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(10 * time.Minute)
	return memoryCache, func() { memoryCache.Close() }, nil
}

// newExtractor picks assisted extraction when a Gemini key is configured
func newExtractor(cfg *config.Config, extractionCache domain.CacheRepository, logger zerolog.Logger) usecase.FeatureExtractor {
	if !cfg.GeminiEnabled() {
		logger.Warn().Msg("Gemini API key not configured, using keyword extraction only")
		return usecase.NewKeywordExtractor()
	}

	client := gemini.NewClient(gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		BaseURL:           cfg.Gemini.BaseURL,
		Model:             cfg.Gemini.Model,
		RequestsPerMinute: cfg.RateLimit.Gemini,
	}, logger)

	return usecase.NewAssistedExtractor(client, extractionCache, usecase.AssistedExtractorConfig{
		Timeout:  cfg.Gemini.Timeout,
		CacheTTL: cfg.Cache.TTL,
	}, logger)
}
