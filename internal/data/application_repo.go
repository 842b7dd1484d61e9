package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jobhuntos/jobhunt-api/internal/data/database"
	"github.com/jobhuntos/jobhunt-api/internal/data/sqlutil"
	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/domain/query"
	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
)

// ErrApplicationNotFound is returned when an application is not found.
var ErrApplicationNotFound = apperrors.NotFound("application not found")

// DefaultScanBatch is the number of rows Scan reads per round trip when the caller passes no batch size.
const DefaultScanBatch = 100

// ApplicationRepo provides database operations for applications.
type ApplicationRepo struct {
	DB      *sql.DB
	Dialect database.Dialect
	clock   Clock
}

// NewApplicationRepo creates a new ApplicationRepo stamping rows with the system clock.
func NewApplicationRepo(db *sql.DB, dialect database.Dialect) *ApplicationRepo {
	return NewApplicationRepoWithClock(db, dialect, SystemClock)
}

// NewApplicationRepoWithClock creates a new ApplicationRepo stamping rows with clock.
func NewApplicationRepoWithClock(db *sql.DB, dialect database.Dialect, clock Clock) *ApplicationRepo {
	return &ApplicationRepo{DB: db, Dialect: dialect, clock: clock}
}

// Create inserts a new application. created_at and updated_at are assigned here and are equal.
func (r *ApplicationRepo) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if req == nil {
		return nil, apperrors.Validation("create application request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := rowTime(r.clock)
	ph := r.Dialect.Placeholder
	q := fmt.Sprintf(`
		INSERT INTO applications (
			company, role, location, source, link, salary_min, salary_max,
			employment_type, stage, status, next_action_date, notes, created_at, updated_at
		) VALUES (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) RETURNING %s`,
		ph(1), ph(2), ph(3), ph(4), ph(5), ph(6), ph(7),
		ph(8), ph(9), ph(10), ph(11), ph(12), ph(13), ph(14),
		applicationColumnList,
	)

	out, err := scanApplication(r.DB.QueryRowContext(ctx, q,
		req.Company,
		req.Role,
		optString(req.Location),
		optString(req.Source),
		optString(req.Link),
		optInt(req.SalaryMin),
		optInt(req.SalaryMax),
		optEnum(req.EmploymentType),
		optEnum(req.Stage),
		optEnum(req.Status),
		optDate(req.NextActionDate),
		optString(req.Notes),
		now,
		now,
	))
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create application: %w", err))
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (*model.Application, error) {
	q := "SELECT " + applicationColumnList + " FROM applications WHERE id = " + r.Dialect.Placeholder(1)
	out, err := scanApplication(r.DB.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get application by ID: %w", err))
	}
	return &out, nil
}

// Update applies the supplied fields of req. Omitted fields keep their value and
// explicit nulls clear the column. Cross-field rules are checked against the
// merged row by the table constraints.
func (r *ApplicationRepo) Update(
	ctx context.Context,
	id int64,
	req model.UpdateApplicationRequest,
) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req, rowTime(r.clock))
	args = append(args, id)
	q := "UPDATE applications SET " + setClause +
		" WHERE id = " + r.Dialect.Placeholder(len(args)) +
		" RETURNING " + applicationColumnList

	out, err := scanApplication(r.DB.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, apperrors.MapDBError(fmt.Errorf("update application: %w", err))
	}
	return &out, nil
}

// Delete deletes an application by ID and reports whether a row was removed.
func (r *ApplicationRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM applications WHERE id = "+r.Dialect.Placeholder(1), id)
	if err != nil {
		return false, apperrors.MapDBError(fmt.Errorf("delete application: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.MapDBError(fmt.Errorf("delete application: %w", err))
	}
	return n > 0, nil
}

// Query returns the window of the ordered result set together with the size of
// the whole filtered set. Both reads share one read-only transaction.
func (r *ApplicationRepo) Query(
	ctx context.Context,
	q query.Query,
	w query.Window,
) ([]model.Application, int, error) {
	var (
		items []model.Application
		total int
	)
	err := sqlutil.WithSQLTx(ctx, r.DB, sqlutil.SQLTxConfig{
		Opts: sqlutil.ReadSnapshot(),
		Fn: func(tx *sql.Tx) error {
			var err error
			if total, err = r.count(ctx, tx, q); err != nil {
				return err
			}
			items, err = r.window(ctx, tx, q, w)
			return err
		},
	})
	if err != nil {
		return nil, 0, apperrors.MapDBError(fmt.Errorf("query applications: %w", err))
	}
	if items == nil {
		items = []model.Application{}
	}
	return items, total, nil
}

// Scan walks every application matching q in order, batch rows at a time,
// inside one read-only transaction. Iteration stops at the first error from fn.
func (r *ApplicationRepo) Scan(
	ctx context.Context,
	q query.Query,
	batch int,
	fn func(model.Application) error,
) error {
	if batch <= 0 {
		batch = DefaultScanBatch
	}
	var fnErr error
	err := sqlutil.WithSQLTx(ctx, r.DB, sqlutil.SQLTxConfig{
		Opts: sqlutil.ReadSnapshot(),
		Fn: func(tx *sql.Tx) error {
			for offset := 0; ; offset += batch {
				items, err := r.window(ctx, tx, q, query.Window{Offset: offset, Limit: batch})
				if err != nil {
					return err
				}
				for i := range items {
					if fnErr = fn(items[i]); fnErr != nil {
						return fnErr
					}
				}
				if len(items) < batch {
					return nil
				}
			}
		},
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("scan applications: %w", err))
	}
	return nil
}

func (r *ApplicationRepo) count(ctx context.Context, tx *sql.Tx, q query.Query) (int, error) {
	stmt, args := database.BuildListQuery(buildApplicationCountOptions(r.Dialect, q))
	var n int
	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (r *ApplicationRepo) window(
	ctx context.Context,
	tx *sql.Tx,
	q query.Query,
	w query.Window,
) (items []model.Application, err error) {
	stmt, args := database.BuildListQuery(buildApplicationQueryOptions(r.Dialect, q,
		database.WithLimit(w.Limit),
		database.WithOffset(w.Offset),
	))
	rows, err := tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer sqlutil.CloseRows(rows, &err)

	items = make([]model.Application, 0, min(max(w.Limit, 0), DefaultScanBatch))
	for rows.Next() {
		a, scanErr := scanApplication(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan row: %w", scanErr)
		}
		items = append(items, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}
