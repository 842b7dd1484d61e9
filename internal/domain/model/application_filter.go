//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
)

const (
	// DefaultPage is the page used when the caller does not supply one.
	DefaultPage = 1
	// DefaultPageSize is the page size used when the caller does not supply one.
	DefaultPageSize = 20
	// MaxPageSize is the largest page size a caller may request.
	MaxPageSize = 100

	// maxPage keeps the window offset well inside int64.
	maxPage = 1<<31 - 1
)

// OrderField is a column applications may be ordered by.
type OrderField string

const (
	OrderByCreatedAt      OrderField = "created_at"
	OrderByUpdatedAt      OrderField = "updated_at"
	OrderByNextActionDate OrderField = "next_action_date"
)

// Valid reports whether the order field is on the allow-list.
func (f OrderField) Valid() bool {
	switch f {
	case OrderByCreatedAt, OrderByUpdatedAt, OrderByNextActionDate:
		return true
	default:
		return false
	}
}

// SortDir is an ordering direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Valid reports whether the direction is supported.
func (d SortDir) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// ApplicationFilter is the normalized, validated set of search, filter, sort and
// paging parameters for one listing or export request.
type ApplicationFilter struct {
	Search   string  // case-insensitive substring of company or role; empty means no search
	Stage    *Stage  // exact match
	Status   *Status // exact match
	Page     int
	PageSize int
	OrderBy  OrderField
	OrderDir SortDir
}

// DefaultApplicationFilter returns the filter used when no parameters are supplied.
func DefaultApplicationFilter() ApplicationFilter {
	return ApplicationFilter{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		OrderBy:  OrderByCreatedAt,
		OrderDir: SortDesc,
	}
}

// Offset returns the number of records preceding the filter's page.
func (f ApplicationFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ParseApplicationFilter parses listing query parameters. Absent values take
// their defaults; supplied values that fail validation are rejected with the
// offending field named, never clamped.
func ParseApplicationFilter(values url.Values) (ApplicationFilter, error) {
	f, err := parseCriteria(values)
	if err != nil {
		return ApplicationFilter{}, err
	}
	if f.Page, err = parsePositiveInt(values, "page", DefaultPage, maxPage); err != nil {
		return ApplicationFilter{}, err
	}
	if f.PageSize, err = parsePositiveInt(values, "page_size", DefaultPageSize, MaxPageSize); err != nil {
		return ApplicationFilter{}, err
	}
	return f, nil
}

// ParseExportFilter parses export query parameters. Paging parameters are
// ignored because an export always covers the whole filtered set.
func ParseExportFilter(values url.Values) (ApplicationFilter, error) {
	return parseCriteria(values)
}

func parseCriteria(values url.Values) (ApplicationFilter, error) {
	f := DefaultApplicationFilter()
	f.Search = strings.TrimSpace(values.Get("search"))

	if raw, ok := lookup(values, "stage"); ok {
		stage, valid := ParseStage(raw)
		if !valid {
			return ApplicationFilter{}, apperrors.ValidationFieldf("stage",
				"invalid value %q: must be one of: %s", raw, joinValues(Stages))
		}
		f.Stage = &stage
	}

	if raw, ok := lookup(values, "status"); ok {
		status, valid := ParseStatus(raw)
		if !valid {
			return ApplicationFilter{}, apperrors.ValidationFieldf("status",
				"invalid value %q: must be one of: %s", raw, joinValues(Statuses))
		}
		f.Status = &status
	}

	if raw, ok := lookup(values, "order_by"); ok {
		field := OrderField(raw)
		if !field.Valid() {
			return ApplicationFilter{}, apperrors.ValidationFieldf("order_by",
				"invalid value %q: must be one of: created_at, updated_at, next_action_date", raw)
		}
		f.OrderBy = field
	}

	if raw, ok := lookup(values, "order_dir"); ok {
		dir := SortDir(strings.ToLower(raw))
		if !dir.Valid() {
			return ApplicationFilter{}, apperrors.ValidationFieldf("order_dir",
				"invalid value %q: must be asc or desc", raw)
		}
		f.OrderDir = dir
	}

	return f, nil
}

// lookup returns the trimmed value for key, treating an empty value as absent.
func lookup(values url.Values, key string) (string, bool) {
	raw := strings.TrimSpace(values.Get(key))
	return raw, raw != ""
}

func parsePositiveInt(values url.Values, key string, def, maxValue int) (int, error) {
	raw, ok := lookup(values, key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationFieldf(key, "invalid value %q: must be a positive integer", raw)
	}
	if n < 1 {
		return 0, apperrors.ValidationFieldf(key, "invalid value %d: must be a positive integer", n)
	}
	if n > maxValue {
		return 0, apperrors.ValidationFieldf(key, "invalid value %d: must not exceed %d", n, maxValue)
	}
	return n, nil
}
