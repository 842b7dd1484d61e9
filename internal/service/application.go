package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jobhuntos/jobhunt-api/internal/core"
	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/observability/metrics"
)

// DefaultApplicationCacheTTL is used when caching is enabled without an explicit TTL.
const DefaultApplicationCacheTTL = 5 * time.Minute

// ApplicationCacheConfig configures the optional read-through cache for single applications.
type ApplicationCacheConfig struct {
	Cache   core.CacheRepository // Optional: nil disables caching
	TTL     time.Duration
	Metrics *metrics.Collector // Optional
}

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Repo   core.ApplicationRepository // Required
	Cache  ApplicationCacheConfig
	Logger *slog.Logger // Optional
}

// ApplicationService provides record CRUD with a read-through cache in front of GetByID.
type ApplicationService struct {
	repo    core.ApplicationRepository
	cache   core.CacheRepository
	ttl     time.Duration
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	if opts.Repo == nil {
		panic("ApplicationRepository is required")
	}
	ttl := opts.Cache.TTL
	if ttl <= 0 {
		ttl = DefaultApplicationCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		repo:    opts.Repo,
		cache:   opts.Cache.Cache,
		ttl:     ttl,
		metrics: opts.Cache.Metrics,
		logger:  logger.With("component", "application_service"),
	}
}

// Create validates and stores a new application.
func (s *ApplicationService) Create(
	ctx context.Context,
	req *model.CreateApplicationRequest,
) (*model.Application, error) {
	app, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// GetByID returns one application, serving from the cache when possible.
func (s *ApplicationService) GetByID(ctx context.Context, id int64) (*model.Application, error) {
	if app, ok := s.cached(ctx, id); ok {
		return app, nil
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	s.store(ctx, app)
	return app, nil
}

// Update applies a partial update and drops any cached copy.
func (s *ApplicationService) Update(
	ctx context.Context,
	id int64,
	req model.UpdateApplicationRequest,
) (*model.Application, error) {
	app, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	s.evict(ctx, id)
	return app, nil
}

// Delete removes an application and reports whether it existed.
func (s *ApplicationService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete application: %w", err)
	}
	s.evict(ctx, id)
	return ok, nil
}

func applicationCacheKey(id int64) string {
	return "application:" + strconv.FormatInt(id, 10)
}

// cached never fails the request: cache errors are logged and treated as a miss.
func (s *ApplicationService) cached(ctx context.Context, id int64) (*model.Application, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, err := s.cache.Get(ctx, applicationCacheKey(id))
	if err != nil {
		s.metrics.RecordCacheLookup(metrics.CacheError)
		s.logger.WarnContext(ctx, "application cache get failed", "id", id, "error", err)
		return nil, false
	}
	if b == nil {
		s.metrics.RecordCacheLookup(metrics.CacheMiss)
		return nil, false
	}
	var app model.Application
	if err := json.Unmarshal(b, &app); err != nil {
		s.metrics.RecordCacheLookup(metrics.CacheError)
		s.logger.WarnContext(ctx, "application cache entry is corrupt", "id", id, "error", err)
		return nil, false
	}
	s.metrics.RecordCacheLookup(metrics.CacheHit)
	return &app, true
}

func (s *ApplicationService) store(ctx context.Context, app *model.Application) {
	if s.cache == nil || app == nil {
		return
	}
	b, err := json.Marshal(app)
	if err != nil {
		s.logger.WarnContext(ctx, "application cache encode failed", "id", app.ID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, applicationCacheKey(app.ID), b, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "application cache set failed", "id", app.ID, "error", err)
	}
}

func (s *ApplicationService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Delete(ctx, applicationCacheKey(id)); err != nil {
		s.logger.WarnContext(ctx, "application cache delete failed", "id", id, "error", err)
	}
}
