package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhuntos/jobhunt-api/internal/data/database"
	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/domain/query"
	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
	"github.com/jobhuntos/jobhunt-api/internal/testutil"
)

// manualClock only moves when a test moves it.
type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Set(t time.Time)         { c.now = t }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newSQLiteRepo(t *testing.T) (*ApplicationRepo, *manualClock) {
	t.Helper()
	clock := &manualClock{now: testutil.TestTime()}
	return NewApplicationRepoWithClock(testutil.SetupSQLiteDB(t), database.SQLite, clock), clock
}

func mustCreate(t *testing.T, repo *ApplicationRepo, req *model.CreateApplicationRequest) *model.Application {
	t.Helper()
	app, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	return app
}

func collectScan(t *testing.T, repo *ApplicationRepo, q query.Query, batch int) []model.Application {
	t.Helper()
	var out []model.Application
	require.NoError(t, repo.Scan(context.Background(), q, batch, func(a model.Application) error {
		out = append(out, a)
		return nil
	}))
	return out
}

func ids(apps []model.Application) []int64 {
	out := make([]int64, len(apps))
	for i, a := range apps {
		out[i] = a.ID
	}
	return out
}

func TestApplicationRepo_CRUD(t *testing.T) {
	repo, clock := newSQLiteRepo(t)
	ctx := context.Background()

	next := model.Date{Year: 2024, Month: time.February, Day: 3}
	created := mustCreate(t, repo, testutil.NewApplicationRequest("  Acme ", "Backend Developer").
		WithStage(model.StageApplied).
		WithStatus(model.StatusActive).
		WithEmploymentType(model.EmploymentFullTime).
		WithLocation("Remote").
		WithLink("https://acme.example/jobs/1").
		WithSalary(100000, 150000).
		WithNextActionDate(next).
		Build())

	require.NotZero(t, created.ID)
	assert.Equal(t, "Acme", created.Company)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.True(t, created.CreatedAt.Equal(testutil.TestTime()))
	require.NotNil(t, created.NextActionDate)
	assert.Equal(t, next, *created.NextActionDate)
	assert.Nil(t, created.Source)
	assert.Nil(t, created.Notes)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	clock.Advance(time.Hour)
	upd := model.UpdateApplicationRequest{
		Stage:    model.PatchValue(model.StageOnsite),
		Location: model.PatchNull[string](),
		Notes:    model.PatchValue("bring portfolio"),
	}
	updated, err := repo.Update(ctx, created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, model.StageOnsite, *updated.Stage)
	assert.Nil(t, updated.Location)
	assert.Equal(t, "bring portfolio", *updated.Notes)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, 100000, *updated.SalaryMin)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.Equal(testutil.TestTime().Add(time.Hour)))

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrApplicationNotFound)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestApplicationRepo_UpdateNotFound(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	_, err := repo.Update(context.Background(), 999, model.UpdateApplicationRequest{
		Notes: model.PatchValue("x"),
	})
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestApplicationRepo_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	repo, clock := newSQLiteRepo(t)
	app := mustCreate(t, repo, testutil.NewApplicationRequest("Acme", "SRE").Build())

	// clock moved backwards
	clock.Set(testutil.TestTime().Add(-time.Hour))
	updated, err := repo.Update(context.Background(), app.ID, model.UpdateApplicationRequest{
		Notes: model.PatchValue("n"),
	})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestApplicationRepo_SalaryRangeCheckedAgainstMergedRow(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()
	app := mustCreate(t, repo, testutil.NewApplicationRequest("Acme", "SRE").WithSalary(100, 200).Build())

	_, err := repo.Update(ctx, app.ID, model.UpdateApplicationRequest{SalaryMin: model.PatchValue(300)})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "salary_min", apperrors.GetField(err))

	got, err := repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestApplicationRepo_CreateRejectsInvalid(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	_, err := repo.Create(context.Background(), testutil.NewApplicationRequest("Acme", "SRE").WithSalary(10, 5).Build())
	require.Error(t, err)
	assert.Equal(t, "salary_min", apperrors.GetField(err))

	page, total, err := repo.Query(context.Background(), query.Build(model.DefaultApplicationFilter()), query.Window{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Zero(t, total)
}

func TestApplicationRepo_QuerySearchAndFilters(t *testing.T) {
	repo, clock := newSQLiteRepo(t)
	ctx := context.Background()

	acme := mustCreate(t, repo, testutil.NewApplicationRequest("Acme", "Backend Developer").
		WithStage(model.StageApplied).WithStatus(model.StatusActive).Build())
	clock.Advance(time.Second)
	mustCreate(t, repo, testutil.NewApplicationRequest("Globex", "ACME Liaison").
		WithStage(model.StagePhone).WithStatus(model.StatusActive).Build())
	clock.Advance(time.Second)
	mustCreate(t, repo, testutil.NewApplicationRequest("Initech", "Engineer").
		WithStage(model.StageApplied).WithStatus(model.StatusClosed).Build())

	stage := model.StageApplied
	f := model.DefaultApplicationFilter()
	f.Search = "acme"
	f.Stage = &stage

	items, total, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, acme.ID, items[0].ID)

	f.Stage = nil
	items, total, err = repo.Query(ctx, query.Build(f), query.WindowFor(f))
	require.NoError(t, err)
	assert.Equal(t, 2, total, "search matches company or role case-insensitively")
	assert.Len(t, items, 2)
}

func TestApplicationRepo_SearchEscapesWildcards(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()
	mustCreate(t, repo, testutil.NewApplicationRequest("100% Remote", "Dev").Build())
	mustCreate(t, repo, testutil.NewApplicationRequest("1000 Remote", "Dev").Build())
	mustCreate(t, repo, testutil.NewApplicationRequest("a_b", "Dev").Build())
	mustCreate(t, repo, testutil.NewApplicationRequest("axb", "Dev").Build())

	for term, want := range map[string]int{"100%": 1, "a_b": 1, "%": 1, "_": 1} {
		f := model.DefaultApplicationFilter()
		f.Search = term
		_, total, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
		require.NoError(t, err)
		assert.Equal(t, want, total, "term %q", term)
	}
}

func TestApplicationRepo_SearchFoldsNonASCII(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()
	ecole := mustCreate(t, repo, testutil.NewApplicationRequest("École Polytechnique", "Dev").Build())
	mustCreate(t, repo, testutil.NewApplicationRequest("Acme", "Ingénieur Ölkraft").Build())
	mustCreate(t, repo, testutil.NewApplicationRequest("Globex", "Dev").Build())

	tests := []struct {
		term string
		want int
	}{
		{"école", 1},
		{"École", 1},
		{"ÉCOLE POLY", 1},
		{"ölkraft", 1},
		{"INGÉNIEUR", 1},
		{"é", 2},
	}
	for _, tt := range tests {
		f := model.DefaultApplicationFilter()
		f.Search = tt.term
		items, total, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
		require.NoError(t, err)
		assert.Equal(t, tt.want, total, "term %q", tt.term)
		require.Len(t, items, tt.want, "term %q", tt.term)
	}

	f := model.DefaultApplicationFilter()
	f.Search = "école"
	items, _, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ecole.ID, items[0].ID)
}

func TestApplicationRepo_PagePastEnd(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	for i := range 3 {
		mustCreate(t, repo, testutil.NewApplicationRequest(fmt.Sprintf("Co %d", i), "Dev").Build())
	}

	f := model.DefaultApplicationFilter()
	f.Page = 5
	items, total, err := repo.Query(context.Background(), query.Build(f), query.WindowFor(f))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 3, total)
}

func TestApplicationRepo_OrderingIsTotalAndStable(t *testing.T) {
	repo, clock := newSQLiteRepo(t)
	ctx := context.Background()

	// Five rows share a timestamp so only the id tiebreak orders them.
	var created []*model.Application
	for i := range 5 {
		created = append(created, mustCreate(t, repo, testutil.NewApplicationRequest(fmt.Sprintf("Same %d", i), "Dev").Build()))
	}
	clock.Advance(time.Minute)
	later := mustCreate(t, repo, testutil.NewApplicationRequest("Later", "Dev").Build())

	f := model.DefaultApplicationFilter() // created_at desc
	items, _, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
	require.NoError(t, err)

	want := []int64{later.ID}
	for _, a := range created {
		want = append(want, a.ID)
	}
	assert.Equal(t, want, ids(items))

	again, _, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
	require.NoError(t, err)
	assert.Equal(t, ids(items), ids(again))
}

func TestApplicationRepo_NextActionDateNullsLast(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	none := mustCreate(t, repo, testutil.NewApplicationRequest("None", "Dev").Build())
	early := mustCreate(t, repo, testutil.NewApplicationRequest("Early", "Dev").
		WithNextActionDate(model.Date{Year: 2024, Month: time.January, Day: 5}).Build())
	late := mustCreate(t, repo, testutil.NewApplicationRequest("Late", "Dev").
		WithNextActionDate(model.Date{Year: 2024, Month: time.March, Day: 1}).Build())

	for dir, want := range map[model.SortDir][]int64{
		model.SortAsc:  {early.ID, late.ID, none.ID},
		model.SortDesc: {late.ID, early.ID, none.ID},
	} {
		f := model.DefaultApplicationFilter()
		f.OrderBy = model.OrderByNextActionDate
		f.OrderDir = dir
		items, _, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
		require.NoError(t, err)
		assert.Equal(t, want, ids(items), "direction %s", dir)
	}
}

func TestApplicationRepo_ScanEqualsConcatenatedPages(t *testing.T) {
	repo, clock := newSQLiteRepo(t)
	ctx := context.Background()

	for i := range 23 {
		if i%4 == 0 {
			clock.Advance(time.Second)
		}
		b := testutil.NewApplicationRequest(fmt.Sprintf("Company %02d", i), "Dev")
		if i%3 == 0 {
			b = b.WithStatus(model.StatusActive)
		}
		mustCreate(t, repo, b.Build())
	}

	f := model.DefaultApplicationFilter()
	f.PageSize = 5
	q := query.Build(f)

	var pages []model.Application
	for page := 1; ; page++ {
		f.Page = page
		items, total, err := repo.Query(ctx, q, query.WindowFor(f))
		require.NoError(t, err)
		require.Equal(t, 23, total)
		require.LessOrEqual(t, len(items), f.PageSize)
		if len(items) == 0 {
			break
		}
		pages = append(pages, items...)
	}

	assert.Equal(t, pages, collectScan(t, repo, q, 4))
	assert.Equal(t, pages, collectScan(t, repo, q, 0))
}

func TestApplicationRepo_ScanStopsOnCallbackError(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	for i := range 3 {
		mustCreate(t, repo, testutil.NewApplicationRequest(fmt.Sprintf("Co %d", i), "Dev").Build())
	}

	stop := fmt.Errorf("stop")
	calls := 0
	err := repo.Scan(context.Background(), query.Build(model.DefaultApplicationFilter()), 2,
		func(model.Application) error {
			calls++
			return stop
		})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestApplicationRepo_Postgres(t *testing.T) {
	testutil.WithPostgresDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewApplicationRepo(db, database.Postgres)

		app, err := repo.Create(ctx, testutil.NewApplicationRequest("Acme", "Backend Developer").
			WithStage(model.StageApplied).
			WithStatus(model.StatusActive).
			WithNextActionDate(model.Date{Year: 2024, Month: time.May, Day: 2}).
			Build())
		require.NoError(t, err)
		assert.Equal(t, app.CreatedAt, app.UpdatedAt)

		f := model.DefaultApplicationFilter()
		f.Search = "ACME"
		items, total, err := repo.Query(ctx, query.Build(f), query.WindowFor(f))
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, app.ID, items[0].ID)

		_, err = repo.Update(ctx, app.ID, model.UpdateApplicationRequest{
			SalaryMin: model.PatchValue(10),
			SalaryMax: model.PatchValue(5),
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		updated, err := repo.Update(ctx, app.ID, model.UpdateApplicationRequest{NextActionDate: model.PatchNull[model.Date]()})
		require.NoError(t, err)
		assert.Nil(t, updated.NextActionDate)
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

		ok, err := repo.Delete(ctx, app.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
