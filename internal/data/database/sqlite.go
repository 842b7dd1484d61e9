package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// sqliteDriverName is the go-sqlite3 driver variant whose connections carry
// the SQL functions the query builder renders.
const sqliteDriverName = "sqlite3_jobhunt"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{ConnectHook: registerSQLiteFunctions})
}

// registerSQLiteFunctions adds ulower, a Unicode-aware LOWER. The built-in
// LOWER only folds ASCII, so "École" would never match a lowered search term.
func registerSQLiteFunctions(conn *sqlite3.SQLiteConn) error {
	return conn.RegisterFunc("ulower", strings.ToLower, true)
}
