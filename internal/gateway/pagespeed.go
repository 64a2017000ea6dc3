package gateway

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	pagespeedonline "google.golang.org/api/pagespeedonline/v5"

	"github.com/gurdipscode/portfolio/internal/domain"
)

// PerformanceFetcher defines the behavior of a gateway for running website performance audits.
type PerformanceFetcher interface {
	FetchScores(ctx context.Context, siteURL string) ([]domain.Metric, error)
}

// PageSpeedOptions configures a PageSpeedGateway.
type PageSpeedOptions struct {
	APIKey   string
	Strategy string
	// Endpoint overrides the API base URL.
	Endpoint string
	// Timeout bounds a single audit; zero leaves it to the caller's context.
	Timeout time.Duration
	// HTTPClient replaces the default transport. The API key is ignored when set.
	HTTPClient *http.Client
}

// PageSpeedGateway is the PageSpeed Insights implementation of PerformanceFetcher.
type PageSpeedGateway struct {
	service  *pagespeedonline.Service
	strategy string
	timeout  time.Duration
	logger   *zap.Logger
}

// lighthouseCategories lists the audited categories in display order.
var lighthouseCategories = []struct {
	param string
	name  string
	score func(*pagespeedonline.Categories) *pagespeedonline.LighthouseCategoryV5
}{
	{"PERFORMANCE", domain.MetricPerformance, func(c *pagespeedonline.Categories) *pagespeedonline.LighthouseCategoryV5 { return c.Performance }},
	{"ACCESSIBILITY", domain.MetricAccessibility, func(c *pagespeedonline.Categories) *pagespeedonline.LighthouseCategoryV5 { return c.Accessibility }},
	{"BEST_PRACTICES", domain.MetricBestPractices, func(c *pagespeedonline.Categories) *pagespeedonline.LighthouseCategoryV5 { return c.BestPractices }},
	{"SEO", domain.MetricSEO, func(c *pagespeedonline.Categories) *pagespeedonline.LighthouseCategoryV5 { return c.Seo }},
}

// NewPageSpeedGateway creates a gateway. Without an API key the requests are sent anonymously.
func NewPageSpeedGateway(ctx context.Context, opts PageSpeedOptions, logger *zap.Logger) (*PageSpeedGateway, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.HTTPClient != nil:
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	default:
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	service, err := pagespeedonline.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create PageSpeed client: %w", err)
	}
	strategy := strings.ToUpper(opts.Strategy)
	if strategy == "" {
		strategy = "MOBILE"
	}
	return &PageSpeedGateway{service: service, strategy: strategy, timeout: opts.Timeout, logger: logger}, nil
}

// FetchScores runs a Lighthouse audit of siteURL and returns the four category scores as percentages.
func (g *PageSpeedGateway) FetchScores(ctx context.Context, siteURL string) ([]domain.Metric, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	g.logger.Debug("running PageSpeed audit", zap.String("url", siteURL), zap.String("strategy", g.strategy))
	params := make([]string, 0, len(lighthouseCategories))
	for _, c := range lighthouseCategories {
		params = append(params, c.param)
	}
	resp, err := g.service.Pagespeedapi.Runpagespeed(siteURL).
		Strategy(g.strategy).
		Category(params...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to run PageSpeed audit: %w", err)
	}
	if resp.LighthouseResult == nil || resp.LighthouseResult.Categories == nil {
		return nil, fmt.Errorf("PageSpeed response for %s has no Lighthouse categories", siteURL)
	}

	metrics := make([]domain.Metric, 0, len(lighthouseCategories))
	for _, c := range lighthouseCategories {
		category := c.score(resp.LighthouseResult.Categories)
		if category == nil {
			return nil, fmt.Errorf("PageSpeed response is missing the %s category", c.name)
		}
		score, ok := category.Score.(float64)
		if !ok {
			return nil, fmt.Errorf("PageSpeed response has no score for the %s category", c.name)
		}
		metrics = append(metrics, domain.Metric{Name: c.name, Score: int(math.Round(score * 100))})
	}
	g.logger.Debug("completed PageSpeed audit", zap.Any("metrics", metrics))
	return metrics, nil
}
