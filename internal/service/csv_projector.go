package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jobhuntos/jobhunt-api/internal/core"
	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/domain/query"
	"github.com/jobhuntos/jobhunt-api/internal/observability/metrics"
)

// ExportBatchSize is the number of rows the projector reads per round trip.
const ExportBatchSize = 100

// ExportHeader is the fixed column order of the CSV export.
var ExportHeader = []string{
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

// CSVProjector writes the whole filtered, ordered result set as CSV.
type CSVProjector struct {
	repo    core.ApplicationRepository
	metrics *metrics.Collector
}

// NewCSVProjector constructs a CSVProjector. m may be nil.
func NewCSVProjector(repo core.ApplicationRepository, m *metrics.Collector) *CSVProjector {
	if repo == nil {
		panic("ApplicationRepository is required")
	}
	return &CSVProjector{repo: repo, metrics: m}
}

// Export writes the header and one row per matching application to w. It uses
// the same query as listing, so its rows equal the concatenation of all pages.
// Paging fields of f are ignored.
func (p *CSVProjector) Export(ctx context.Context, f model.ApplicationFilter, w io.Writer) (err error) {
	rows := 0
	defer func() { p.metrics.RecordExport(rows, err) }()

	cw := csv.NewWriter(w)
	if err = cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	err = p.repo.Scan(ctx, query.Build(f), ExportBatchSize, func(a model.Application) error {
		rows++
		return cw.Write(exportRecord(a))
	})
	if err != nil {
		return fmt.Errorf("export applications: %w", err)
	}

	cw.Flush()
	if err = cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// exportRecord renders a in ExportHeader order. Nulls are empty cells.
func exportRecord(a model.Application) []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.Company,
		a.Role,
		cellString(a.Location),
		cellString(a.Source),
		cellString(a.Link),
		cellInt(a.SalaryMin),
		cellInt(a.SalaryMax),
		cellEnum(a.EmploymentType),
		cellEnum(a.Stage),
		cellEnum(a.Status),
		cellDate(a.NextActionDate),
		cellString(a.Notes),
		cellTime(a.CreatedAt),
		cellTime(a.UpdatedAt),
	}
}

func cellString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cellInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func cellEnum[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func cellDate(p *model.Date) string {
	if p == nil || p.IsZero() {
		return ""
	}
	return p.String()
}

func cellTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
