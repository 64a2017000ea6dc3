package cmd

import (
	"context"
	"fmt"

	"github.com/gurdipscode/portfolio/internal/gateway"
	"github.com/gurdipscode/portfolio/internal/usecase"
)

// Inject dependencies into the widgets from the loaded configuration.

func newGitHubWidget() (*usecase.GitHubWidget, error) {
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, cfg.GitHub.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return usecase.NewGitHubWidget(githubGateway, cfg.GitHub.Username, cfg.GitHub.RepoLimit, logger), nil
}

func newPerformanceWidget(ctx context.Context) (*usecase.PerformanceWidget, error) {
	pageSpeedGateway, err := gateway.NewPageSpeedGateway(ctx, gateway.PageSpeedOptions{
		APIKey:   cfg.PageSpeed.APIKey,
		Strategy: cfg.PageSpeed.Strategy,
		Endpoint: cfg.PageSpeed.Endpoint,
		Timeout:  cfg.PageSpeed.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PageSpeed gateway: %w", err)
	}
	return usecase.NewPerformanceWidget(pageSpeedGateway, cfg.PageSpeed.SiteURL, logger), nil
}
