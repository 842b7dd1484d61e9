// Package core defines the ports between the service layer and the data layer.
package core

import (
	"context"
	"time"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/domain/query"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations should depend on these interfaces, not concrete implementations.

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id int64) (*model.Application, error)
	Update(ctx context.Context, id int64, req model.UpdateApplicationRequest) (*model.Application, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// Query returns one window of the ordered result set and the size of the whole set,
	// read from a single snapshot.
	Query(ctx context.Context, q query.Query, w query.Window) ([]model.Application, int, error)
	// Scan visits every match of q in order, reading batch rows at a time from a single snapshot.
	Scan(ctx context.Context, q query.Query, batch int, fn func(model.Application) error) error
}

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}
