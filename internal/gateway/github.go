// Package gateway provides gateways to the external APIs the widgets read from,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/gurdipscode/portfolio/internal/domain"
)

// ErrContributionsUnavailable is returned when no token is configured for the GraphQL API.
var ErrContributionsUnavailable = errors.New("contribution count requires a GitHub token")

// RepositoryFetcher defines the behavior of a gateway for fetching information from GitHub.
type RepositoryFetcher interface {
	FetchRecentRepositories(ctx context.Context, user string, limit int) ([]domain.Repository, error)
	FetchContributions(ctx context.Context, user string) (int, error)
}

// GitHubGateway is the concrete implementation of the RepositoryFetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client // nil without a token
	logger        *zap.Logger
}

// contributionsQuery fetches the contribution total of the last year.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions githubv4.Int
			}
		}
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway creates a gateway. An empty token leaves the REST client
// unauthenticated and disables the GraphQL client.
func NewGitHubGateway(token string, timeout time.Duration, logger *zap.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	if token == "" {
		return &GitHubGateway{
			restClient: github.NewClient(&http.Client{Transport: rateLimitWaiter, Timeout: timeout}),
			logger:     logger,
		}, nil
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
		Timeout: timeout,
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchRecentRepositories lists the public repositories of user, most recently updated first.
func (g *GitHubGateway) FetchRecentRepositories(ctx context.Context, user string, limit int) ([]domain.Repository, error) {
	g.logger.Debug("fetching recent repositories", zap.String("user", user), zap.Int("limit", limit))
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: limit},
	}
	repos, _, err := g.restClient.Repositories.ListByUser(ctx, user, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
	}

	result := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		result = append(result, domain.Repository{
			Name:            repo.GetName(),
			Description:     repo.GetDescription(),
			HTMLURL:         repo.GetHTMLURL(),
			StargazersCount: repo.GetStargazersCount(),
			ForksCount:      repo.GetForksCount(),
			Language:        repo.GetLanguage(),
			UpdatedAt:       repo.GetUpdatedAt().Time,
		})
	}
	g.logger.Debug("fetched recent repositories", zap.Int("count", len(result)))
	return result, nil
}

// FetchContributions returns the number of contributions user made in the last year.
func (g *GitHubGateway) FetchContributions(ctx context.Context, user string) (int, error) {
	if g.graphqlClient == nil {
		return 0, ErrContributionsUnavailable
	}
	var q contributionsQuery
	variables := map[string]interface{}{"login": githubv4.String(user)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for contributions: %w", err)
	}
	return int(q.User.ContributionsCollection.ContributionCalendar.TotalContributions), nil
}
