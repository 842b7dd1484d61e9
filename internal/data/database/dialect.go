package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavor a query is rendered for.
type Dialect int

const (
	// Postgres renders $N placeholders and ILIKE.
	Postgres Dialect = iota
	// SQLite renders ?N placeholders and ulower(col) LIKE.
	SQLite
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Postgres, fmt.Errorf("unsupported database driver %q", name)
	}
}

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// DriverName returns the database/sql driver name registered for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return sqliteDriverName
	}
	return "pgx"
}

// Placeholder renders the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d == SQLite {
		return "?" + strconv.Itoa(n)
	}
	return "$" + strconv.Itoa(n)
}

// Greatest returns the name of the scalar function that picks the larger of its arguments.
func (d Dialect) Greatest() string {
	if d == SQLite {
		return "MAX"
	}
	return "GREATEST"
}

// containsExpr renders a case-insensitive substring match of field against the
// placeholder. The bound value must already be escaped with EscapeLike.
func (d Dialect) containsExpr(field, placeholder string) string {
	if d == SQLite {
		return fmt.Sprintf(`ulower(%s) LIKE %s ESCAPE '\'`, field, placeholder)
	}
	return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, field, placeholder)
}

// EscapeLike escapes LIKE metacharacters so term matches literally.
func EscapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// ContainsPattern builds the bound value for a Contains condition.
func ContainsPattern(term string) string {
	return "%" + EscapeLike(strings.ToLower(term)) + "%"
}
