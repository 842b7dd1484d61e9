package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/jobhuntos/jobhunt-api/internal/data/database"
	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/domain/query"
)

const applicationsTable = "applications"

// applicationColumns returns the standard column list for application queries.
// The order matches scanApplication.
func applicationColumns() []string {
	return []string{
		"id",
		"company",
		"role",
		"location",
		"source",
		"link",
		"salary_min",
		"salary_max",
		"employment_type",
		"stage",
		"status",
		"next_action_date",
		"notes",
		"created_at",
		"updated_at",
	}
}

var applicationColumnList = strings.Join(applicationColumns(), ", ")

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(s rowScanner) (model.Application, error) {
	var (
		a                    model.Application
		createdAt, updatedAt dbTime
	)
	err := s.Scan(
		&a.ID,
		&a.Company,
		&a.Role,
		&a.Location,
		&a.Source,
		&a.Link,
		&a.SalaryMin,
		&a.SalaryMax,
		&a.EmploymentType,
		&a.Stage,
		&a.Status,
		&a.NextActionDate,
		&a.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.Application{}, err
	}
	a.CreatedAt = time.Time(createdAt)
	a.UpdatedAt = time.Time(updatedAt)
	return a, nil
}

// dbTime scans timestamps from drivers that return either time.Time or text.
type dbTime time.Time

var dbTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = dbTime(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = dbTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// conditionsFor translates the predicate tree into query builder conditions.
// Every value is bound as a parameter.
func conditionsFor(p query.Predicate) []database.Condition {
	switch p := p.(type) {
	case query.And:
		var out []database.Condition
		for _, member := range p {
			out = append(out, conditionsFor(member)...)
		}
		return out
	case query.Contains:
		if p.Term == "" || len(p.Fields) == 0 {
			return nil
		}
		anyOf := make([]database.Condition, len(p.Fields))
		for i, f := range p.Fields {
			anyOf[i] = database.WhereCond(string(f), database.Contains, p.Term)
		}
		return []database.Condition{database.AnyOf(anyOf...)}
	case query.Equals:
		return []database.Condition{database.WhereCond(string(p.Field), database.Equal, p.Value)}
	default:
		return nil
	}
}

// orderFor renders the primary key plus the id tiebreak. Nullable columns
// sort their NULLs last in either direction.
func orderFor(o query.Order) []database.OrderTerm {
	col := o.Column
	if !col.Valid() {
		col = model.OrderByCreatedAt
	}
	return []database.OrderTerm{
		{Column: string(col), Desc: o.Desc, NullsLast: col == model.OrderByNextActionDate},
		{Column: "id"},
	}
}

// buildApplicationQueryOptions builds the shared select for listing and export.
func buildApplicationQueryOptions(
	d database.Dialect,
	q query.Query,
	extra ...database.ListQueryOption,
) *database.ListQueryOptions {
	opts := []database.ListQueryOption{
		database.WithDialect(d),
		database.WithColumns(applicationColumns()...),
		database.WithConditions(conditionsFor(q.Where)...),
		database.WithOrder(orderFor(q.Order)...),
	}
	return database.NewListQueryOptions(applicationsTable, append(opts, extra...)...)
}

// buildApplicationCountOptions counts the rows the same predicate selects.
func buildApplicationCountOptions(d database.Dialect, q query.Query) *database.ListQueryOptions {
	return database.NewListQueryOptions(applicationsTable,
		database.WithDialect(d),
		database.WithConditions(conditionsFor(q.Where)...),
		database.WithCountOnly(),
	)
}

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func optEnum[T ~string](p *T) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func optDate(p *model.Date) any {
	if p == nil || p.IsZero() {
		return nil
	}
	return p.String()
}

// updateSet accumulates SET fragments and their bound args.
type updateSet struct {
	dialect database.Dialect
	parts   []string
	args    []any
}

func (u *updateSet) nextIdx() int { return len(u.args) + 1 }

func (u *updateSet) set(col string, value any) {
	u.parts = append(u.parts, fmt.Sprintf("%s = %s", col, u.dialect.Placeholder(u.nextIdx())))
	u.args = append(u.args, value)
}

func (u *updateSet) setNull(col string) {
	u.parts = append(u.parts, col+" = NULL")
}

func patchField[T any](u *updateSet, col string, p model.Patch[T], value func(T) any) {
	switch {
	case !p.Set:
	case p.Null:
		u.setNull(col)
	default:
		u.set(col, value(p.Value))
	}
}

func identity[T any](v T) any { return v }

func enumValue[T ~string](v T) any { return string(v) }

// buildUpdateClause builds the SQL SET clause and args for a partial update.
// updated_at is always refreshed and never moves before created_at.
func (r *ApplicationRepo) buildUpdateClause(req model.UpdateApplicationRequest, now time.Time) (string, []any) {
	u := &updateSet{dialect: r.Dialect, parts: make([]string, 0, 13), args: make([]any, 0, 14)}

	patchField(u, "company", req.Company, identity[string])
	patchField(u, "role", req.Role, identity[string])
	patchField(u, "location", req.Location, identity[string])
	patchField(u, "source", req.Source, identity[string])
	patchField(u, "link", req.Link, identity[string])
	patchField(u, "salary_min", req.SalaryMin, identity[int])
	patchField(u, "salary_max", req.SalaryMax, identity[int])
	patchField(u, "employment_type", req.EmploymentType, enumValue[model.EmploymentType])
	patchField(u, "stage", req.Stage, enumValue[model.Stage])
	patchField(u, "status", req.Status, enumValue[model.Status])
	patchField(u, "next_action_date", req.NextActionDate, func(d model.Date) any { return d.String() })
	patchField(u, "notes", req.Notes, identity[string])

	u.parts = append(u.parts, fmt.Sprintf("updated_at = %s(%s, created_at)",
		r.Dialect.Greatest(), r.Dialect.Placeholder(u.nextIdx())))
	u.args = append(u.args, now)

	return strings.Join(u.parts, ", "), u.args
}
