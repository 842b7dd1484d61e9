package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobhuntos/jobhunt-api/config"
	"github.com/jobhuntos/jobhunt-api/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger := bootstrap.InitLogger(cfg.Observability)

	if err := run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	logger.InfoContext(ctx, "starting jobhunt api",
		"env", cfg.Env,
		"db_driver", cfg.DB.Driver,
		"redis_enabled", cfg.Redis.Enabled,
		"metrics_enabled", cfg.Observability.MetricsEnabled,
	)

	deps := bootstrap.DatabaseConfig{DBConfig: cfg.DB, RedisConfig: cfg.Redis, Logger: logger}
	db, dialect, err := bootstrap.ConnectDB(ctx, deps)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	redisClient, err := bootstrap.ConnectRedis(ctx, deps)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	// Run migrations if enabled
	if cfg.DB.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, dialect, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	serviceDeps := &bootstrap.ServiceDeps{Config: cfg, DB: db, Dialect: dialect, Logger: logger}
	if redisClient != nil {
		serviceDeps.RedisClient = redisClient
	}

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerConfig{
		Config:   cfg,
		Services: bootstrap.NewServices(serviceDeps),
		DB:       db,
		Logger:   logger,
	})
}
