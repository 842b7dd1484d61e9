package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/jobhuntos/jobhunt-api/config"
	httpx "github.com/jobhuntos/jobhunt-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router for the configured services.
func BuildHTTPHandler(cfg *HTTPServerConfig) http.Handler {
	probes := []httpx.HealthProbe{{Name: "database", Check: cfg.DB.PingContext}}
	if cfg.Services.Cache != nil {
		probes = append(probes, httpx.HealthProbe{Name: "redis", Check: cfg.Services.Cache.Health})
	}

	return httpx.NewRouter(httpx.RouterServices{
		Applications: cfg.Services.Applications,
		Paginator:    cfg.Services.Paginator,
		Exporter:     cfg.Services.Exporter,
		Gate:         cfg.Services.Gate,
		Probes:       probes,
		Metrics:      cfg.Services.Metrics,
		IsDev:        cfg.Config.IsDev(),
		Logger:       cfg.Logger,
	})
}

// RunHTTPServer serves until ctx is canceled, then shuts down gracefully.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpCfg := cfg.Config.HTTP

	server := &http.Server{
		Addr:              httpCfg.Addr,
		Handler:           BuildHTTPHandler(cfg),
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
		ReadTimeout:       httpCfg.ReadTimeout,
		WriteTimeout:      httpCfg.WriteTimeout,
		IdleTimeout:       httpCfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), httpCfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}
