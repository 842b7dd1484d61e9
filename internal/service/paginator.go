package service

import (
	"context"
	"fmt"

	"github.com/jobhuntos/jobhunt-api/internal/core"
	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/domain/query"
)

// Page is one window of a filtered listing plus the size of the whole filtered set.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ResultPaginator serves listing pages.
type ResultPaginator struct {
	repo core.ApplicationRepository
}

// NewResultPaginator constructs a ResultPaginator.
func NewResultPaginator(repo core.ApplicationRepository) *ResultPaginator {
	if repo == nil {
		panic("ApplicationRepository is required")
	}
	return &ResultPaginator{repo: repo}
}

// Paginate returns the filter's page. A page past the end has no items but still
// reports the total. Store failures are returned as-is and never retried.
func (p *ResultPaginator) Paginate(ctx context.Context, f model.ApplicationFilter) (Page[model.Application], error) {
	items, total, err := p.repo.Query(ctx, query.Build(f), query.WindowFor(f))
	if err != nil {
		return Page[model.Application]{}, fmt.Errorf("list applications: %w", err)
	}
	if items == nil {
		items = []model.Application{}
	}
	return Page[model.Application]{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}
