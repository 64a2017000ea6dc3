package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gurdipscode/portfolio/internal/domain"
)

// mockRepositoryFetcher is a mock implementation of the gateway.RepositoryFetcher interface.
type mockRepositoryFetcher struct {
	mock.Mock
}

func (m *mockRepositoryFetcher) FetchRecentRepositories(ctx context.Context, user string, limit int) ([]domain.Repository, error) {
	args := m.Called(ctx, user, limit)
	// The returned slice is nil when an error occurs.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockRepositoryFetcher) FetchContributions(ctx context.Context, user string) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

// mockPerformanceFetcher is a mock implementation of the gateway.PerformanceFetcher interface.
type mockPerformanceFetcher struct {
	mock.Mock
}

func (m *mockPerformanceFetcher) FetchScores(ctx context.Context, siteURL string) ([]domain.Metric, error) {
	args := m.Called(ctx, siteURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Metric), args.Error(1)
}
