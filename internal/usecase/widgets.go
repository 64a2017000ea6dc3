// Package usecase contains the business logic of the application: the two
// data widgets and the dashboard that keeps their latest snapshots.
package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/gurdipscode/portfolio/internal/domain"
	"github.com/gurdipscode/portfolio/internal/gateway"
	"github.com/gurdipscode/portfolio/internal/metrics"
)

const (
	// GitHubErrorMessage is shown in place of the repositories when they cannot be fetched.
	GitHubErrorMessage = "Failed to load GitHub activity"
	// FallbackNotice accompanies the fallback scores of the performance widget.
	FallbackNotice = "Unable to load performance metrics. Using fallback data."
	// FallbackReportURL is linked instead of the site's own report when the audit fails.
	FallbackReportURL = "https://pagespeed.web.dev/"

	reportURLPrefix = "https://pagespeed.web.dev/report?url="
)

// GitHubWidget loads the recent repository activity of a single user.
type GitHubWidget struct {
	fetcher  gateway.RepositoryFetcher
	username string
	limit    int
	logger   *zap.Logger
	now      func() time.Time
}

// NewGitHubWidget creates a new GitHubWidget instance.
func NewGitHubWidget(fetcher gateway.RepositoryFetcher, username string, limit int, logger *zap.Logger) *GitHubWidget {
	return &GitHubWidget{
		fetcher:  fetcher,
		username: username,
		limit:    limit,
		logger:   logger,
		now:      time.Now,
	}
}

// Placeholder returns the snapshot shown while the first load is in flight.
func (w *GitHubWidget) Placeholder() domain.GitHubActivity {
	return domain.LoadingGitHubActivity(w.username)
}

// Load fetches the repositories once. The returned snapshot is always renderable;
// a non-nil error means it is in the error state.
func (w *GitHubWidget) Load(ctx context.Context) (domain.GitHubActivity, error) {
	start := time.Now()
	snapshot := w.Placeholder()
	repos, err := w.fetcher.FetchRecentRepositories(ctx, w.username, w.limit)
	metrics.ObserveFetch("github", start, err)
	snapshot.FetchedAt = w.now()
	if err != nil {
		w.logger.Error("Error fetching GitHub data", zap.String("user", w.username), zap.Error(err))
		snapshot.Status = domain.StatusError
		snapshot.Error = GitHubErrorMessage
		return snapshot, err
	}
	snapshot.Status = domain.StatusReady
	snapshot.Repositories = repos

	total, err := w.fetcher.FetchContributions(ctx, w.username)
	switch {
	case err == nil:
		snapshot.Contributions = &total
	case errors.Is(err, gateway.ErrContributionsUnavailable):
		w.logger.Debug("skipping contribution count", zap.Error(err))
	default:
		w.logger.Warn("failed to fetch contribution count", zap.Error(err))
	}
	return snapshot, nil
}

// PerformanceWidget loads the Lighthouse scores of a single site.
type PerformanceWidget struct {
	fetcher gateway.PerformanceFetcher
	siteURL string
	logger  *zap.Logger
	now     func() time.Time
}

// NewPerformanceWidget creates a new PerformanceWidget instance.
func NewPerformanceWidget(fetcher gateway.PerformanceFetcher, siteURL string, logger *zap.Logger) *PerformanceWidget {
	return &PerformanceWidget{
		fetcher: fetcher,
		siteURL: siteURL,
		logger:  logger,
		now:     time.Now,
	}
}

// Placeholder returns the snapshot shown while the first audit is in flight.
func (w *PerformanceWidget) Placeholder() domain.Performance {
	return domain.LoadingPerformance(w.siteURL)
}

// Load runs the audit once. On failure the snapshot carries the fallback scores
// and the error is returned for reporting only.
func (w *PerformanceWidget) Load(ctx context.Context) (domain.Performance, error) {
	start := time.Now()
	snapshot := w.Placeholder()
	scores, err := w.fetcher.FetchScores(ctx, w.siteURL)
	metrics.ObserveFetch("performance", start, err)
	snapshot.Status = domain.StatusReady
	snapshot.FetchedAt = w.now()
	if err != nil {
		w.logger.Error("Failed to fetch Lighthouse data", zap.String("url", w.siteURL), zap.Error(err))
		snapshot.Metrics = domain.FallbackMetrics()
		snapshot.Fallback = true
		snapshot.Notice = FallbackNotice
		snapshot.ReportURL = FallbackReportURL
	} else {
		snapshot.Metrics = scores
		snapshot.ReportURL = reportURLPrefix + url.QueryEscape(w.siteURL)
	}
	snapshot.Overall = overallScore(snapshot.Metrics)
	return snapshot, err
}

// overallScore is the rounded mean of the metric scores, or 0 without metrics.
func overallScore(ms []domain.Metric) int {
	data := make(stats.Float64Data, 0, len(ms))
	for _, m := range ms {
		data = append(data, float64(m.Score))
	}
	mean, err := data.Mean()
	if err != nil {
		return 0
	}
	rounded, err := stats.Round(mean, 0)
	if err != nil {
		return 0
	}
	return int(rounded)
}
