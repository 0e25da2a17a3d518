package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/tropicaldog17/monitorcrypto/docs"
	"github.com/tropicaldog17/monitorcrypto/internal/config"
	"github.com/tropicaldog17/monitorcrypto/internal/db"
	"github.com/tropicaldog17/monitorcrypto/internal/handlers"
	"github.com/tropicaldog17/monitorcrypto/internal/logger"
	"github.com/tropicaldog17/monitorcrypto/internal/metrics"
	"github.com/tropicaldog17/monitorcrypto/internal/migrations"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
	"github.com/tropicaldog17/monitorcrypto/internal/services"
)

// @title MonitorCrypto Market Data API
// @version 1.0
// @description Stores CoinGecko market snapshots and price series and serves them with KPIs.
// @BasePath /api
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	database, err := db.Connect(db.NewConfig())
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		zl.Fatal("failed to get sql handle", zap.Error(err))
	}
	applied, err := migrations.Run(ctx, sqlDB, logger.Component(zl, "migrations"))
	if err != nil {
		zl.Fatal("failed to apply migrations", zap.Error(err))
	}
	zl.Info("database ready", zap.Int("migrations_applied", applied))

	m := metrics.New()
	cache := sourceCache(ctx, cfg, zl)

	source := services.NewCoinGeckoClient(services.CoinGeckoOptions{
		BaseURL: cfg.CoinGeckoBaseURL,
		APIKey:  cfg.CoinGeckoAPIKey,
		Timeout: cfg.ExternalTimeout,
		Cache:   cache,
		Metrics: m,
		Logger:  logger.Component(zl, "coingecko"),
	})

	// Initialize services
	defaults := services.SyncDefaults{
		VsCurrency: cfg.SyncVsCurrency,
		PerPage:    cfg.SyncPerPage,
		Pages:      cfg.SyncPages,
		SeriesDays: cfg.SyncSeriesDays,
	}
	syncService := services.NewSyncService(database, source, defaults, m, logger.Component(zl, "sync"))
	freshness := services.NewFreshnessGate(database, cfg.DataFreshnessMinutes, logger.Component(zl, "freshness"))
	marketService := services.NewMarketService(database)
	analysisService := services.NewAnalysisService(database, freshness)

	scheduler := services.NewScheduler(syncService, services.SchedulerConfig{
		Enabled:    cfg.SyncEnableScheduler,
		Interval:   cfg.SyncInterval,
		VsCurrency: cfg.SyncVsCurrency,
		PerPage:    cfg.SyncPerPage,
		Pages:      cfg.SyncPages,
	}, logger.Component(zl, "scheduler"))

	// Initialize handlers
	router := handlers.NewRouter(handlers.Routes{
		Health:   handlers.NewHealthHandler(source, database),
		Admin:    handlers.NewAdminHandler(syncService, repositories.NewTableRepository(database), defaults, logger.Component(zl, "admin")),
		Prices:   handlers.NewPriceHandler(marketService, freshness, cfg.SyncVsCurrency),
		Analysis: handlers.NewAnalysisHandler(analysisService, cfg.SyncVsCurrency),
		Metrics:  m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	task := scheduler.Start(ctx)

	go func() {
		zl.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http shutdown incomplete", zap.Error(err))
	}
	scheduler.Stop(task)
}

// sourceCache shares upstream responses through Redis when REDIS_ADDR is
// set and reachable, and keeps them in process otherwise.
func sourceCache(ctx context.Context, cfg *config.Config, zl *zap.Logger) services.SourceCache {
	if cfg.RedisAddr == "" {
		return services.NewMemorySourceCache(cfg.SourceCacheTTL)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		zl.Warn("redis unreachable, using in-memory source cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		client.Close()
		return services.NewMemorySourceCache(cfg.SourceCacheTTL)
	}
	zl.Info("using redis source cache", zap.String("addr", cfg.RedisAddr))
	return services.NewRedisSourceCache(client, cfg.SourceCacheTTL, logger.Component(zl, "source_cache"))
}
