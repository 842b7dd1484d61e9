package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
	"github.com/jobhuntos/jobhunt-api/internal/mocks"
)

func sampleApplication(id int64) *model.Application {
	stage := model.StageApplied
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Application{
		ID:        id,
		Company:   "Acme",
		Role:      "Backend Developer",
		Stage:     &stage,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestApplicationService_GetByID_CacheMissPopulatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	app := sampleApplication(7)
	encoded, err := json.Marshal(app)
	require.NoError(t, err)

	cache.EXPECT().Get(ctx, "application:7").Return(nil, nil)
	repo.EXPECT().GetByID(ctx, int64(7)).Return(app, nil)
	cache.EXPECT().Set(ctx, "application:7", encoded, time.Minute).Return(nil)

	svc := NewApplicationService(ApplicationServiceOptions{
		Repo:  repo,
		Cache: ApplicationCacheConfig{Cache: cache, TTL: time.Minute},
	})
	got, err := svc.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestApplicationService_GetByID_CacheHitSkipsRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	app := sampleApplication(3)
	encoded, err := json.Marshal(app)
	require.NoError(t, err)

	cache.EXPECT().Get(ctx, "application:3").Return(encoded, nil)
	repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

	svc := NewApplicationService(ApplicationServiceOptions{Repo: repo, Cache: ApplicationCacheConfig{Cache: cache}})
	got, err := svc.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestApplicationService_GetByID_CacheErrorFallsBackToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	app := sampleApplication(4)
	cache.EXPECT().Get(ctx, "application:4").Return(nil, errors.New("redis down"))
	repo.EXPECT().GetByID(ctx, int64(4)).Return(app, nil)
	cache.EXPECT().Set(ctx, "application:4", gomock.Any(), DefaultApplicationCacheTTL).Return(errors.New("redis down"))

	svc := NewApplicationService(ApplicationServiceOptions{Repo: repo, Cache: ApplicationCacheConfig{Cache: cache}})
	got, err := svc.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestApplicationService_GetByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)

	notFound := apperrors.NotFound("application not found")
	repo.EXPECT().GetByID(ctx, int64(9)).Return(nil, notFound)

	svc := NewApplicationService(ApplicationServiceOptions{Repo: repo})
	_, err := svc.GetByID(ctx, 9)
	require.ErrorIs(t, err, notFound)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestApplicationService_UpdateEvictsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	req := model.UpdateApplicationRequest{Notes: model.PatchValue("call back")}
	app := sampleApplication(5)
	gomock.InOrder(
		repo.EXPECT().Update(ctx, int64(5), req).Return(app, nil),
		cache.EXPECT().Delete(ctx, "application:5").Return(true, nil),
	)

	svc := NewApplicationService(ApplicationServiceOptions{Repo: repo, Cache: ApplicationCacheConfig{Cache: cache}})
	got, err := svc.Update(ctx, 5, req)
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestApplicationService_UpdateFailureKeepsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	req := model.UpdateApplicationRequest{SalaryMin: model.PatchValue(10)}
	repo.EXPECT().Update(ctx, int64(5), req).Return(nil, apperrors.ValidationField("salary_min", "bad"))
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	svc := NewApplicationService(ApplicationServiceOptions{Repo: repo, Cache: ApplicationCacheConfig{Cache: cache}})
	_, err := svc.Update(ctx, 5, req)
	require.Error(t, err)
	assert.Equal(t, "salary_min", apperrors.GetField(err))
}

func TestApplicationService_DeleteEvictsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	repo.EXPECT().Delete(ctx, int64(8)).Return(true, nil)
	cache.EXPECT().Delete(ctx, "application:8").Return(false, nil)

	svc := NewApplicationService(ApplicationServiceOptions{Repo: repo, Cache: ApplicationCacheConfig{Cache: cache}})
	ok, err := svc.Delete(ctx, 8)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestApplicationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	repo := mocks.NewMockApplicationRepository(ctrl)

	req := &model.CreateApplicationRequest{Company: "Acme", Role: "Dev"}
	app := sampleApplication(1)
	repo.EXPECT().Create(ctx, req).Return(app, nil)

	svc := NewApplicationService(ApplicationServiceOptions{Repo: repo})
	got, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestNewApplicationService_RequiresRepo(t *testing.T) {
	assert.Panics(t, func() { NewApplicationService(ApplicationServiceOptions{}) })
}
