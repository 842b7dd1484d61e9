package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobhuntos/jobhunt-api/config"
	"github.com/jobhuntos/jobhunt-api/internal/bootstrap"
	"github.com/jobhuntos/jobhunt-api/internal/data"
	"github.com/jobhuntos/jobhunt-api/internal/data/database"
)

const defaultMigrationTimeout = 5 * time.Minute

// configLoader returns the application configuration and the logger built from it.
type configLoader func() (config.AppConfig, *slog.Logger, error)

func defaultLoader() (config.AppConfig, *slog.Logger, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, bootstrap.InitLogger(cfg.Observability), nil
}

// admin holds state shared by subcommands once the root pre-run has loaded config.
type admin struct {
	load   configLoader
	cfg    config.AppConfig
	logger *slog.Logger
}

func newRootCmd(load configLoader) *cobra.Command {
	a := &admin{load: load}
	root := &cobra.Command{
		Use:           "jobhunt-admin",
		Short:         "Maintenance commands for the jobhunt API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}
	root.AddCommand(newMigrateCmd(a), newSeedCmd(a), newExportCmd(a))
	return root
}

// openDB connects to the configured database, optionally applying migrations first.
func (a *admin) openDB(ctx context.Context, migrate bool) (*sql.DB, database.Dialect, error) {
	db, dialect, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{DBConfig: a.cfg.DB, Logger: a.logger})
	if err != nil {
		return nil, dialect, fmt.Errorf("connect db: %w", err)
	}
	if !migrate {
		return db, dialect, nil
	}

	mctx, cancel := context.WithTimeout(ctx, defaultMigrationTimeout)
	defer cancel()
	if err := bootstrap.RunMigrations(mctx, db, dialect, a.logger); err != nil {
		a.closeDB(ctx, db)
		return nil, dialect, err
	}
	return db, dialect, nil
}

func (a *admin) closeDB(ctx context.Context, db *sql.DB) {
	if err := db.Close(); err != nil {
		a.logger.ErrorContext(ctx, "close database failed", "error", err)
	}
}

func (a *admin) repo(db *sql.DB, dialect database.Dialect) *data.ApplicationRepo {
	return data.NewApplicationRepo(db, dialect)
}
