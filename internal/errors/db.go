package errors

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// reSQLiteConstraint extracts the constraint or column from SQLite messages such as
// "CHECK constraint failed: applications_salary_range_check" or
// "NOT NULL constraint failed: applications.company".
var reSQLiteConstraint = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_.]+)`)

// constraintFields maps named CHECK constraints to the input field they guard.
var constraintFields = map[string]string{
	"applications_salary_range_check": "salary_min",
	"applications_salary_min_check":   "salary_min",
	"applications_salary_max_check":   "salary_max",
	"applications_company_check":      "company",
	"applications_role_check":         "role",
}

// constraintMessages holds the rule text reported for a named constraint.
var constraintMessages = map[string]string{
	"applications_salary_range_check": "must be less than or equal to salary_max",
	"applications_salary_min_check":   "must be greater than or equal to 0",
	"applications_salary_max_check":   "must be greater than or equal to 0",
	"applications_company_check":      "must not be blank",
	"applications_role_check":         "must not be blank",
}

// MapDBError maps database errors to AppError instances.
// It handles both Postgres (pgx) and SQLite (go-sqlite3) failures:
// - sql.ErrNoRows / pgx.ErrNoRows → NotFound
// - CHECK and NOT NULL violations → Validation with the offending field
// - value too long / malformed input → Validation
// - connection failures and busy databases → Unavailable
// - context timeouts/cancellations → Timeout/Canceled
//
// Anything else is wrapped as Internal so a store failure is never mistaken for success.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return &AppError{Code: ErrCodeUnavailable, Message: "Database is unavailable.", Cause: err}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return mapSQLiteError(liteErr)
	}

	return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: err}
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch {
	case pgErr.Code == pgerrcode.CheckViolation:
		return checkViolation(pgErr.ConstraintName, pgErr)
	case pgErr.Code == pgerrcode.NotNullViolation:
		return notNullViolation(pgErr.ColumnName, pgErr)
	case pgErr.Code == pgerrcode.StringDataRightTruncationDataException:
		return &AppError{Code: ErrCodeValidation, Message: "Value is too long.", Field: pgErr.ColumnName, Cause: pgErr}
	case pgErr.Code == pgerrcode.InvalidTextRepresentation,
		pgErr.Code == pgerrcode.InvalidDatetimeFormat,
		pgErr.Code == pgerrcode.NumericValueOutOfRange:
		return &AppError{Code: ErrCodeValidation, Message: "Value has an invalid format.", Field: pgErr.ColumnName, Cause: pgErr}
	case pgerrcode.IsConnectionException(pgErr.Code):
		return &AppError{Code: ErrCodeUnavailable, Message: "Database is unavailable.", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
	}
}

func mapSQLiteError(liteErr sqlite3.Error) error {
	var subject string
	if m := reSQLiteConstraint.FindStringSubmatch(liteErr.Error()); len(m) == 2 {
		subject = m[1]
	}

	switch {
	case liteErr.ExtendedCode == sqlite3.ErrConstraintCheck:
		return checkViolation(subject, liteErr)
	case liteErr.ExtendedCode == sqlite3.ErrConstraintNotNull:
		// SQLite reports "table.column"
		if i := strings.LastIndexByte(subject, '.'); i >= 0 {
			subject = subject[i+1:]
		}
		return notNullViolation(subject, liteErr)
	case liteErr.Code == sqlite3.ErrBusy, liteErr.Code == sqlite3.ErrLocked:
		return &AppError{Code: ErrCodeUnavailable, Message: "Database is busy. Please try again.", Cause: liteErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: liteErr}
	}
}

func checkViolation(constraint string, cause error) error {
	field := constraintFields[constraint]
	msg, ok := constraintMessages[constraint]
	if !ok {
		msg = "Invalid data. Please check your input."
	}
	return &AppError{Code: ErrCodeValidation, Message: msg, Field: field, Cause: cause}
}

func notNullViolation(column string, cause error) error {
	if column == "" {
		return &AppError{Code: ErrCodeValidation, Message: "Required field is missing. Please check your input.", Cause: cause}
	}
	return &AppError{Code: ErrCodeValidation, Message: "This field is required.", Field: column, Cause: cause}
}
