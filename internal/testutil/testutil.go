// Package testutil provides testing utilities and helpers for the application tracker.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/jobhuntos/jobhunt-api/internal/data/database"
	"github.com/jobhuntos/jobhunt-api/internal/migrate"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// SetupSQLiteDB opens a private in-memory SQLite database with the schema applied.
// The database lives until the test finishes.
func SetupSQLiteDB(t TestingTB) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", randomName("mem"))
	db, err := sql.Open(database.SQLite.DriverName(), dsn)
	if err != nil {
		t.Fatal("open sqlite database:", err)
	}
	// One connection keeps the shared in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { closeAndLog(t, "sqlite db", db) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := migrate.Run(ctx, db, database.SQLite); err != nil {
		t.Fatal("apply sqlite schema:", err)
	}
	return db
}

// PostgresDSN returns the DSN of the Postgres test server. TEST_DB_DSN wins when
// set; otherwise the DSN is assembled from TEST_DB_HOST, TEST_DB_PORT,
// TEST_DB_USER, TEST_DB_PASSWORD and TEST_DB_NAME. The default port 55432 is the
// docker-compose test profile.
func PostgresDSN() string {
	if dsn := os.Getenv("TEST_DB_DSN"); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(envOr("TEST_DB_USER", "jobhunt"), envOr("TEST_DB_PASSWORD", "jobhunt")),
		Host:   net.JoinHostPort(envOr("TEST_DB_HOST", "localhost"), envOr("TEST_DB_PORT", "55432")),
		Path:   "/" + envOr("TEST_DB_NAME", "jobhunt"),
	}
	q := url.Values{}
	q.Set("sslmode", envOr("TEST_DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// WithPostgresDB runs fn against a Postgres schema created for this test alone.
// The schema is dropped afterwards. The test is skipped when the server does
// not answer, unless TEST_REQUIRE_DB or TEST_REQUIRE_INFRA is set.
func WithPostgresDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := sql.Open("pgx", PostgresDSN())
	if err != nil {
		t.Fatal("open postgres:", err)
	}
	t.Cleanup(func() { closeAndLog(t, "postgres admin db", admin) })
	if err := admin.PingContext(ctx); err != nil {
		skipOrFail(t, requireDB(), "postgres not available: %v", err)
		return
	}

	schema := randomName("t")
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema %s: %v", schema, err)
	}
	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		if _, err := admin.ExecContext(cctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("warning: drop schema %s: %v", schema, err)
		}
	})

	u, err := url.Parse(PostgresDSN())
	if err != nil {
		t.Fatal("parse postgres dsn:", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	db, err := sql.Open("pgx", u.String())
	if err != nil {
		t.Fatal("open schema-scoped postgres:", err)
	}
	// Registered after the schema drop so it runs first.
	t.Cleanup(func() { closeAndLog(t, "postgres db", db) })

	if err := migrate.Run(ctx, db, database.Postgres); err != nil {
		t.Fatalf("apply postgres schema in %s: %v", schema, err)
	}
	fn(db)
}

// SetupTestRedis returns a client on a flushed test database. REDIS_ADDR wins
// when set; otherwise localhost:6379 and the compose port 56379 are tried.
// TEST_REDIS_DB selects the logical database (default 1).
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	candidates := []string{"localhost:6379", "localhost:56379"}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		candidates = []string{addr}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var lastErr error
	for _, addr := range candidates {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: testRedisDB(t)})
		if lastErr = client.Ping(ctx).Err(); lastErr != nil {
			closeAndLog(t, "redis client", client)
			continue
		}
		if err := client.FlushDB(ctx).Err(); err != nil {
			closeAndLog(t, "redis client", client)
			t.Fatalf("flush redis %s: %v", addr, err)
		}
		t.Cleanup(func() { closeAndLog(t, "redis client", client) })
		return client
	}
	skipOrFail(t, requireRedis(), "redis not available: %v", lastErr)
	return nil
}

func testRedisDB(t TestingTB) int {
	v := os.Getenv("TEST_REDIS_DB")
	if v == "" {
		return 1
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		t.Logf("invalid TEST_REDIS_DB=%q, using 1", v)
		return 1
	}
	return i
}

func skipOrFail(t TestingTB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

// randomName returns prefix followed by eight lowercase hex characters.
func randomName(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return prefix + "_" + hex.EncodeToString(b)
}

func closeAndLog(t TestingTB, name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		t.Logf("warning: failed to close %s: %v", name, err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
