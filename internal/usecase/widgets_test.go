package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gurdipscode/portfolio/internal/domain"
	"github.com/gurdipscode/portfolio/internal/gateway"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func sampleRepositories() []domain.Repository {
	return []domain.Repository{
		{Name: "infra", Description: "Terraform modules", HTMLURL: "https://github.com/octocat/infra", StargazersCount: 12, ForksCount: 3, Language: "HCL", UpdatedAt: fixedNow.Add(-time.Hour)},
		{Name: "notes", HTMLURL: "https://github.com/octocat/notes", UpdatedAt: fixedNow.Add(-48 * time.Hour)},
	}
}

func intPtr(v int) *int { return &v }

func TestGitHubWidget_Load(t *testing.T) {
	testCases := []struct {
		name             string
		mockRepos        []domain.Repository
		mockReposErr     error
		mockContribs     int
		mockContribsErr  error
		expectContribsOn bool
		expected         domain.GitHubActivity
		expectError      bool
	}{
		{
			name:             "happy path - repositories match the payload",
			mockRepos:        sampleRepositories(),
			mockContribs:     321,
			expectContribsOn: true,
			expected: domain.GitHubActivity{
				Status:          domain.StatusReady,
				Username:        "octocat",
				ProfileURL:      "https://github.com/octocat",
				RepositoriesURL: "https://github.com/octocat?tab=repositories",
				Repositories:    sampleRepositories(),
				Contributions:   intPtr(321),
				FetchedAt:       fixedNow,
			},
		},
		{
			name:             "contributions unavailable without a token",
			mockRepos:        []domain.Repository{},
			mockContribsErr:  gateway.ErrContributionsUnavailable,
			expectContribsOn: true,
			expected: domain.GitHubActivity{
				Status:          domain.StatusReady,
				Username:        "octocat",
				ProfileURL:      "https://github.com/octocat",
				RepositoriesURL: "https://github.com/octocat?tab=repositories",
				Repositories:    []domain.Repository{},
				FetchedAt:       fixedNow,
			},
		},
		{
			name:             "contribution failure does not fail the widget",
			mockRepos:        sampleRepositories(),
			mockContribsErr:  errors.New("graphql down"),
			expectContribsOn: true,
			expected: domain.GitHubActivity{
				Status:          domain.StatusReady,
				Username:        "octocat",
				ProfileURL:      "https://github.com/octocat",
				RepositoriesURL: "https://github.com/octocat?tab=repositories",
				Repositories:    sampleRepositories(),
				FetchedAt:       fixedNow,
			},
		},
		{
			name:         "error case - repository fetch fails",
			mockReposErr: errors.New("GitHub API returned 500"),
			expected: domain.GitHubActivity{
				Status:          domain.StatusError,
				Username:        "octocat",
				ProfileURL:      "https://github.com/octocat",
				RepositoriesURL: "https://github.com/octocat?tab=repositories",
				Repositories:    []domain.Repository{},
				Error:           "Failed to load GitHub activity",
				FetchedAt:       fixedNow,
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockRepositoryFetcher)
			fetcher.On("FetchRecentRepositories", mock.Anything, "octocat", 4).Return(tc.mockRepos, tc.mockReposErr)
			if tc.expectContribsOn {
				fetcher.On("FetchContributions", mock.Anything, "octocat").Return(tc.mockContribs, tc.mockContribsErr)
			}

			widget := NewGitHubWidget(fetcher, "octocat", 4, zap.NewNop())
			widget.now = func() time.Time { return fixedNow }

			snapshot, err := widget.Load(context.Background())
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, snapshot)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestPerformanceWidget_Load(t *testing.T) {
	live := []domain.Metric{
		{Name: "Performance", Score: 72},
		{Name: "Accessibility", Score: 91},
		{Name: "Best Practices", Score: 100},
		{Name: "SEO", Score: 83},
	}

	t.Run("happy path - scores match the payload", func(t *testing.T) {
		fetcher := new(mockPerformanceFetcher)
		fetcher.On("FetchScores", mock.Anything, "https://example.com/a b").Return(live, nil)
		widget := NewPerformanceWidget(fetcher, "https://example.com/a b", zap.NewNop())
		widget.now = func() time.Time { return fixedNow }

		snapshot, err := widget.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Performance{
			Status:    domain.StatusReady,
			SiteURL:   "https://example.com/a b",
			Metrics:   live,
			Overall:   87,
			ReportURL: "https://pagespeed.web.dev/report?url=https%3A%2F%2Fexample.com%2Fa+b",
			FetchedAt: fixedNow,
		}, snapshot)
		fetcher.AssertExpectations(t)
	})

	t.Run("error case - falls back to static scores", func(t *testing.T) {
		fetcher := new(mockPerformanceFetcher)
		fetcher.On("FetchScores", mock.Anything, "https://example.com").Return(nil, errors.New("quota exceeded"))
		widget := NewPerformanceWidget(fetcher, "https://example.com", zap.NewNop())
		widget.now = func() time.Time { return fixedNow }

		snapshot, err := widget.Load(context.Background())
		assert.Error(t, err)
		assert.Equal(t, domain.Performance{
			Status:    domain.StatusReady,
			SiteURL:   "https://example.com",
			Metrics:   domain.FallbackMetrics(),
			Overall:   99,
			ReportURL: "https://pagespeed.web.dev/",
			Fallback:  true,
			Notice:    "Unable to load performance metrics. Using fallback data.",
			FetchedAt: fixedNow,
		}, snapshot)
		fetcher.AssertExpectations(t)
	})
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, 0, overallScore(nil))
	assert.Equal(t, 50, overallScore([]domain.Metric{{Score: 50}}))
	assert.Equal(t, 99, overallScore(domain.FallbackMetrics()))
}
