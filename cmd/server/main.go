package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/welfarelens/backend/config"
	httpDelivery "github.com/welfarelens/backend/internal/delivery/http"
	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/cache"
	"github.com/welfarelens/backend/internal/infrastructure/logging"
	"github.com/welfarelens/backend/internal/infrastructure/metrics"
	"github.com/welfarelens/backend/internal/infrastructure/openfoodfacts"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
	"github.com/welfarelens/backend/internal/usecase"
)

func main() {
	os.Exit(serve(logging.New))
}

// serve runs the server and returns the process exit code. The logger is
// flushed before serve returns.
func serve(newLogger func(level, format string) (*zap.Logger, error)) int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Printf("Failed to build logger: %v", err)
		return 1
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting WelfareLens backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
	)

	collector := metrics.New()

	// Pattern tables: embedded by default, optionally overridden and hot reloaded
	store, err := patterns.NewStore(cfg.Patterns.File, logger.Named("patterns"))
	if err != nil {
		return fmt.Errorf("load pattern table: %w", err)
	}
	store.OnReload(collector.ObserveReload)
	if cfg.Patterns.Watch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				logger.Error("pattern watcher stopped", zap.Error(err))
			}
		}()
	}

	// Initialize infrastructure dependencies
	cacheRepo, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()
	logger.Info("cache ready", zap.String("type", cfg.Cache.Type), zap.Duration("ttl", cfg.Cache.TTL))

	offClient := openfoodfacts.NewClient(openfoodfacts.Config{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		Timeout:           cfg.OpenFoodFacts.Timeout,
		RequestsPerMinute: cfg.RateLimit.OpenFoodFacts,
		Logger:            logger.Named("openfoodfacts"),
	})

	// Initialize usecase layer
	welfareService := usecase.NewWelfareService(store, cacheRepo, offClient, usecase.WelfareServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		BatchConcurrency:   cfg.Engine.BatchConcurrency,
		MaxBatchSize:       cfg.Engine.MaxBatchSize,
		EnableDebugLogging: cfg.Engine.EnableDebugLogging,
		Logger:             logger.Named("welfare"),
		Metrics:            collector,
	})

	handler := httpDelivery.NewHandler(welfareService, store, logger.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, httpDelivery.Observability{
		Logger:         logger.Named("http"),
		Metrics:        collector,
		MetricsHandler: collector.Handler(),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCache builds the configured cache and a function releasing it.
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, "welfarelens:")
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache()
		return memoryCache, func() { _ = memoryCache.Close() }, nil
	}
}
