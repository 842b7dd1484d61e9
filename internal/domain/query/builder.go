package query

import "github.com/jobhuntos/jobhunt-api/internal/domain/model"

// searchFields are matched by the free-text search term.
var searchFields = []Field{FieldCompany, FieldRole}

// Build composes the predicate and order for a filter. It ignores paging so
// listing and export of the same filter describe the same result set.
func Build(f model.ApplicationFilter) Query {
	where := And{}
	if f.Search != "" {
		where = append(where, Contains{Fields: searchFields, Term: f.Search})
	}
	if f.Stage != nil {
		where = append(where, Equals{Field: FieldStage, Value: string(*f.Stage)})
	}
	if f.Status != nil {
		where = append(where, Equals{Field: FieldStatus, Value: string(*f.Status)})
	}

	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = model.OrderByCreatedAt
	}
	return Query{
		Where: where,
		Order: Order{Column: orderBy, Desc: f.OrderDir != model.SortAsc},
	}
}
