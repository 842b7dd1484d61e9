package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/jobhuntos/jobhunt-api/config"
	"github.com/jobhuntos/jobhunt-api/internal/data"
	"github.com/jobhuntos/jobhunt-api/internal/data/database"
	"github.com/jobhuntos/jobhunt-api/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens and pings the configured database and returns its dialect.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, database.Dialect, error) {
	dialect, err := cfg.DBConfig.Dialect()
	if err != nil {
		return nil, dialect, err
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DBConfig.DSN())
	if err != nil {
		return nil, dialect, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool. SQLite serializes writers, so one connection avoids SQLITE_BUSY.
	if dialect == database.SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
		db.SetMaxIdleConns(min(5, cfg.DBConfig.MaxOpenConns))
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, dialect, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		if dialect == database.SQLite {
			cfg.Logger.InfoContext(ctx, "database connected", "driver", dialect.String(), "path", cfg.DBConfig.SQLitePath)
		} else {
			cfg.Logger.InfoContext(ctx, "database connected",
				"driver", dialect.String(),
				"host", cfg.DBConfig.Host,
				"port", cfg.DBConfig.Port,
				"database", cfg.DBConfig.Name,
			)
		}
	}

	return db, dialect, nil
}

// ConnectRedis establishes a connection to Redis. It returns nil when Redis is disabled.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (*redis.Client, error) {
	if !cfg.RedisConfig.Enabled {
		return nil, nil //nolint:nilnil // a nil client means caching is off
	}

	client := data.NewRedisClient(data.RedisConfig{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "addr", cfg.RedisConfig.Addr, "db", cfg.RedisConfig.DB)
	}

	return client, nil
}

// RunMigrations runs database migrations.
func RunMigrations(ctx context.Context, db *sql.DB, dialect database.Dialect, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db, dialect); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed", "driver", dialect.String())
	}

	return nil
}
