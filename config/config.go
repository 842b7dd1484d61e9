package config

import (
	"errors"
	"fmt"
	"strings"
)

// Environments recognized by APP_ENV.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// Env selects environment-specific behavior. "dev" mounts /dev/seed.
	Env string `env:"APP_ENV" envDefault:"prod"`

	// APIKey is the shared secret every mutating request must present in X-API-Key.
	// When empty, all writes are rejected.
	APIKey string `env:"API_KEY"`

	// Database configuration
	DB    DBConfig    `envPrefix:"DB_"`
	Redis RedisConfig `envPrefix:"REDIS_"`
	Cache CacheConfig `envPrefix:"CACHE_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "development" {
		c.Env = EnvDev
	}
	c.APIKey = strings.TrimSpace(c.APIKey)

	c.DB.Sanitize()
	c.Redis.Sanitize()
	c.Cache.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// IsDev reports whether development-only endpoints should be mounted.
func (c *AppConfig) IsDev() bool {
	return c.Env == EnvDev
}

// Validate reports configuration that cannot be sanitized into a working state.
// A missing API key is not an error: the service starts read-only.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.DB.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Observability.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Env != EnvDev && c.Env != EnvProd {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDev, EnvProd, c.Env))
	}
	return errors.Join(errs...)
}
