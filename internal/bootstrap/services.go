package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jobhuntos/jobhunt-api/config"
	"github.com/jobhuntos/jobhunt-api/internal/core"
	"github.com/jobhuntos/jobhunt-api/internal/data"
	"github.com/jobhuntos/jobhunt-api/internal/data/database"
	"github.com/jobhuntos/jobhunt-api/internal/observability/metrics"
	"github.com/jobhuntos/jobhunt-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Applications *service.ApplicationService
	Paginator    *service.ResultPaginator
	Exporter     *service.CSVProjector
	Gate         *service.WriteGate
	Metrics      *metrics.Collector // nil when METRICS_ENABLED=false
	Cache        core.CacheRepository
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	Dialect     database.Dialect
	RedisClient redis.UniversalClient // Optional
	Logger      *slog.Logger
}

// NewServices wires repositories into services.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var collector *metrics.Collector
	if deps.Config.Observability.MetricsEnabled {
		collector = metrics.NewCollector()
	}

	repo := data.NewApplicationRepo(deps.DB, deps.Dialect)

	var cache core.CacheRepository
	if deps.RedisClient != nil {
		cache = data.NewRedisCacheRepo(deps.RedisClient, deps.Config.Cache.Namespace)
	}

	if deps.Config.APIKey == "" {
		logger.Warn("API_KEY is not set; all writes will be rejected")
	}

	return ServiceContainer{
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Repo: repo,
			Cache: service.ApplicationCacheConfig{
				Cache:   cache,
				TTL:     deps.Config.Cache.ApplicationTTL,
				Metrics: collector,
			},
			Logger: logger,
		}),
		Paginator: service.NewResultPaginator(repo),
		Exporter:  service.NewCSVProjector(repo, collector),
		Gate:      service.NewWriteGate(deps.Config.APIKey),
		Metrics:   collector,
		Cache:     cache,
	}
}
