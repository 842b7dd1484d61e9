// Package mocks provides gomock implementations of the core repository ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockApplicationRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(app, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=application_repository_mock.go github.com/jobhuntos/jobhunt-api/internal/core ApplicationRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/jobhuntos/jobhunt-api/internal/core CacheRepository
