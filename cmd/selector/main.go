// cmd/selector/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pump-selector/internal/cache"
	"pump-selector/internal/catalog"
	"pump-selector/internal/common/config"
	"pump-selector/internal/common/database"
	"pump-selector/internal/common/logger"
	"pump-selector/internal/common/observability"
	"pump-selector/internal/selection"
	"pump-selector/internal/server"
	"pump-selector/pkg/registry"
)

// refreshableCatalog is what main needs from either catalog backend.
type refreshableCatalog interface {
	server.Catalog
	Refresh(ctx context.Context) error
}

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting pump selector",
		zap.String("environment", cfg.App.Environment),
		zap.String("preset", cfg.Selection.Preset),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Scoring configuration ---
	reg := registry.Builtin()
	if cfg.Selection.PresetsFile != "" {
		reg, err = registry.Load(cfg.Selection.PresetsFile)
		if err != nil {
			zapLog.Fatal("preset registry load failed", zap.Error(err))
		}
	}
	engineCfg, err := reg.Config(cfg.Selection.Preset)
	if err != nil {
		zapLog.Fatal("unknown scoring preset", zap.Error(err), zap.String("preset", cfg.Selection.Preset))
	}
	engineCfg.Workers = cfg.Selection.Workers

	// --- Catalog backend: JSON file or PostgreSQL ---
	var (
		catalogStore refreshableCatalog
		pgClient     *database.PostgresClient
	)
	if cfg.Selection.CatalogFile != "" {
		catalogStore = catalog.NewFileStore(cfg.Selection.CatalogFile, log)
	} else {
		err = retryWithBackoff(func() error {
			var err error
			pgClient, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return pgClient.Ping(pingCtx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL initialization")
		if err != nil {
			zapLog.Fatal("postgres unavailable", zap.Error(err))
		}
		defer pgClient.Close()
		catalogStore = catalog.NewStore(pgClient.DB, log)
	}

	if err := catalogStore.Refresh(ctx); err != nil {
		zapLog.Fatal("initial catalog load failed", zap.Error(err))
	}

	// Periodic snapshot refresh; each pass swaps a complete snapshot so
	// in-flight rankings are never disturbed.
	if interval := cfg.Selection.CatalogRefresh; interval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(interval) * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				if err := catalogStore.Refresh(ctx); err != nil {
					log.Error("catalog refresh failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}()
	}

	// --- Ranking cache ---
	var rankingCache *cache.RankingCache
	if cfg.Cache.Enabled {
		redisClient := database.NewRedis(cfg.Database.Redis)
		defer redisClient.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Ping(pingCtx)
		cancel()
		if err != nil {
			// Cache is an optimization; run without it rather than die.
			log.Warn("redis unavailable, caching disabled", map[string]interface{}{"error": err.Error()})
		} else {
			rankingCache = cache.New(redisClient.Client, time.Duration(cfg.Cache.TTL)*time.Second, log)
		}
	}

	// --- Engine + HTTP surface ---
	engine, err := selection.NewEngine(catalogStore, engineCfg, log)
	if err != nil {
		zapLog.Fatal("engine construction failed", zap.Error(err))
	}

	mux := http.NewServeMux()
	srv := server.New(engine, catalogStore, rankingCache, obs, log)
	srv.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown incomplete", zap.Error(err))
	}
	zapLog.Info("stopped")
}
