package database

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is the operator a Condition applies.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	// Contains is a case-insensitive, literal substring match.
	Contains ConditionType = "CONTAINS"
	// Or groups nested conditions with OR.
	Or ConditionType = "OR"
)

// unset marks a LIMIT or OFFSET that was never supplied.
const unset = -1

// Condition is one WHERE term. Its value is always bound as a parameter.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
	group []Condition
}

// WhereCond builds a single-column condition. Or groups must be built with AnyOf.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Or {
		//nolint:forbidigo // panic prevents misuse; OR groups must be built with AnyOf.
		panic("Use AnyOf for Or type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// AnyOf groups conditions so that at least one must hold.
func AnyOf(conds ...Condition) Condition {
	return Condition{Type: Or, group: conds}
}

// OrderTerm is one ORDER BY key.
type OrderTerm struct {
	Column    string
	Desc      bool
	NullsLast bool
}

// ListQueryOptions describes a single-table SELECT.
type ListQueryOptions struct {
	Dialect    Dialect
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	Order      []OrderTerm
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Dialect: Postgres,
		Table:   table,
		Limit:   unset,
		Offset:  unset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithDialect sets the SQL flavor used for placeholders and text matching.
func WithDialect(d Dialect) ListQueryOption {
	return func(o *ListQueryOptions) { o.Dialect = d }
}

// WithColumns sets the columns to select. No columns selects *.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithConditions replaces the conditions.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = conds }
}

// WithOrder appends ordering terms.
func WithOrder(terms ...OrderTerm) ListQueryOption {
	return func(o *ListQueryOptions) { o.Order = append(o.Order, terms...) }
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly selects COUNT(*) and drops ordering and paging.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

// quoteIdent quotes a possibly qualified identifier such as "table.column".
// Double-quoted identifiers are valid in both Postgres and SQLite.
func quoteIdent(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// binder numbers placeholders in the order values are bound.
type binder struct {
	dialect Dialect
	args    []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// condition renders one term, or "" when the term constrains nothing.
func (b *binder) condition(c Condition) string {
	switch c.Type {
	case Or:
		return b.anyOf(c.group)
	case Contains:
		term, ok := c.Value.(string)
		if !ok || term == "" || c.Field == "" {
			return ""
		}
		return b.dialect.containsExpr(quoteIdent(c.Field), b.bind(ContainsPattern(term)))
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual:
		if c.Field == "" {
			return ""
		}
		return quoteIdent(c.Field) + " " + string(c.Type) + " " + b.bind(c.Value)
	default:
		return ""
	}
}

func (b *binder) anyOf(group []Condition) string {
	parts := make([]string, 0, len(group))
	for _, c := range group {
		if s := b.condition(c); s != "" {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "(" + strings.Join(parts, " OR ") + ")"
	}
}

func (b *binder) where(conds []Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if s := b.condition(c); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func selectList(o *ListQueryOptions) string {
	if o.CountOnly {
		return "COUNT(*)"
	}
	if len(o.Columns) == 0 {
		return "*"
	}
	cols := make([]string, len(o.Columns))
	for i, c := range o.Columns {
		cols[i] = quoteIdent(c)
	}
	return strings.Join(cols, ", ")
}

func orderBy(terms []OrderTerm) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Column == "" {
			continue
		}
		part := quoteIdent(t.Column)
		if t.Desc {
			part += " DESC"
		} else {
			part += " ASC"
		}
		if t.NullsLast {
			part += " NULLS LAST"
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// BuildListQuery renders options as SQL plus its bound arguments. Identifiers
// are quoted and every value is a placeholder.
//
// Example usage:
//
//	options := NewListQueryOptions("applications",
//		WithDialect(Postgres),
//		WithColumns("id", "company", "role"),
//		WithCondition(AnyOf(
//			WhereCond("company", Contains, "acme"),
//			WhereCond("role", Contains, "acme"),
//		)),
//		WithCondition(WhereCond("stage", Equal, "applied")),
//		WithOrder(OrderTerm{Column: "created_at", Desc: true}, OrderTerm{Column: "id"}),
//		WithLimit(20),
//		WithOffset(0),
//	)
//
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	b := &binder{dialect: options.Dialect}
	var q strings.Builder
	q.WriteString("SELECT " + selectList(options) + " FROM " + quoteIdent(options.Table))
	q.WriteString(b.where(options.Conditions))
	if options.CountOnly {
		return q.String(), b.args
	}

	q.WriteString(orderBy(options.Order))
	switch {
	case options.Limit != unset:
		q.WriteString(" LIMIT " + b.bind(options.Limit))
	case options.Offset != unset && options.Dialect == SQLite:
		// SQLite only accepts OFFSET after a LIMIT; -1 is unbounded.
		q.WriteString(" LIMIT -1")
	}
	if options.Offset != unset {
		q.WriteString(" OFFSET " + b.bind(options.Offset))
	}
	return q.String(), b.args
}
