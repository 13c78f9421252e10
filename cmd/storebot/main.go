// cmd/storebot/main.go
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

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storebot/internal/app"
	"storebot/internal/common/config"
	"storebot/internal/common/database"
	"storebot/internal/common/logger"
	"storebot/internal/common/observability"
	"storebot/internal/web"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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
				zap.Int("maxRetries", maxRetries),
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
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting storebot...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Telemetry.Traces == "stdout" {
		if err := obs.EnableStdoutTracing(os.Stdout); err != nil {
			zapLog.Fatal("trace exporter failed", zap.Error(err))
		}
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.ConnectPostgres(ctx, cfg.Database.Postgres)
		return err
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry, only when a cache is configured ---
	var cache *database.RedisClient
	if cfg.Database.Redis.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			cache, err = database.ConnectRedis(ctx, cfg.Database.Redis)
			return err
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, lookups will not be cached", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	components, err := app.Build(cfg, pg.DB, redisClient(cache), obs, log)
	if err != nil {
		zapLog.Fatal("component wiring failed", zap.Error(err))
	}

	opts := web.Options{
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Resolver:    components.Resolver,
		Normalizer:  components.Normalizer,
		Lookup:      components.Lookup,
		Store:       pg,
		Logger:      log,
		AccessLog:   cfg.Logging.Level == "debug",
	}
	if cache != nil {
		opts.Cache = cache
	}

	server, err := web.NewServer(opts)
	if err != nil {
		zapLog.Fatal("web server setup failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during HTTP shutdown", zap.Error(err))
	}

	zapLog.Info("storebot stopped")
}

func redisClient(c *database.RedisClient) *redis.Client {
	if c == nil {
		return nil
	}
	return c.Client
}
