package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobhuntos/jobhunt-api/internal/data/database"
)

// DBConfig contains database configuration. Driver selects PostgreSQL or SQLite.
type DBConfig struct {
	Driver   string `env:"DRIVER"   envDefault:"postgres"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"jobhunt"`
	Password string `env:"PASSWORD" envDefault:"jobhunt"`
	Name     string `env:"NAME"     envDefault:"jobhunt"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// SQLitePath is the database file used when Driver is sqlite.
	SQLitePath string `env:"SQLITE_PATH" envDefault:"jobhunt.db"`
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"10"`
}

// Sanitize normalizes the driver name and connection pool bounds.
func (c *DBConfig) Sanitize() {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.MaxOpenConns < 1 {
		c.MaxOpenConns = 1
	}
}

// Validate checks the driver is supported.
func (c *DBConfig) Validate() error {
	if _, err := c.Dialect(); err != nil {
		return fmt.Errorf("DB_DRIVER: %w", err)
	}
	if c.Driver == "sqlite" || c.Driver == "sqlite3" {
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("DB_SQLITE_PATH is required for the sqlite driver")
		}
	}
	return nil
}

// Dialect returns the SQL dialect for the configured driver.
func (c *DBConfig) Dialect() (database.Dialect, error) {
	return database.ParseDialect(c.Driver)
}

// DSN builds the driver-specific data source name.
func (c *DBConfig) DSN() string {
	if d, err := c.Dialect(); err == nil && d == database.SQLite {
		return "file:" + c.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig contains Redis configuration for the application cache.
type RedisConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize disables Redis when no address is configured.
func (c *RedisConfig) Sanitize() {
	c.Addr = strings.TrimSpace(c.Addr)
	if c.Addr == "" {
		c.Enabled = false
	}
	if c.DB < 0 {
		c.DB = 0
	}
}

// CacheConfig contains cache configuration (Redis-based).
type CacheConfig struct {
	// ApplicationTTL is the TTL for cached single-application reads.
	ApplicationTTL time.Duration `env:"APPLICATION_TTL" envDefault:"5m"`
	// Namespace prefixes every cache key.
	Namespace string `env:"NAMESPACE" envDefault:"jobhunt"`
}

// Sanitize applies defaults to non-positive TTLs.
func (c *CacheConfig) Sanitize() {
	if c.ApplicationTTL <= 0 {
		c.ApplicationTTL = 5 * time.Minute
	}
	c.Namespace = strings.TrimSpace(c.Namespace)
}
