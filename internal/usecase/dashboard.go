package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gurdipscode/portfolio/internal/domain"
)

// Dashboard keeps the latest snapshot of each widget. Until the first load of a
// widget completes its snapshot is in the loading state.
type Dashboard struct {
	github      *GitHubWidget
	performance *PerformanceWidget
	logger      *zap.Logger
	interval    time.Duration
	report      func(error)

	mu              sync.RWMutex
	githubSnap      domain.GitHubActivity
	performanceSnap domain.Performance
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithRefreshInterval makes Run reload the widgets every d. Zero loads them once.
func WithRefreshInterval(d time.Duration) DashboardOption {
	return func(db *Dashboard) { db.interval = d }
}

// WithErrorReporter passes every widget fetch error to report.
func WithErrorReporter(report func(error)) DashboardOption {
	return func(db *Dashboard) { db.report = report }
}

// NewDashboard creates a new Dashboard instance.
func NewDashboard(github *GitHubWidget, performance *PerformanceWidget, logger *zap.Logger, opts ...DashboardOption) *Dashboard {
	db := &Dashboard{
		github:          github,
		performance:     performance,
		logger:          logger,
		report:          func(error) {},
		githubSnap:      github.Placeholder(),
		performanceSnap: performance.Placeholder(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// GitHub returns a copy of the current GitHub widget snapshot.
func (d *Dashboard) GitHub() domain.GitHubActivity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := d.githubSnap
	snap.Repositories = slices.Clone(d.githubSnap.Repositories)
	return snap
}

// Performance returns a copy of the current performance widget snapshot.
func (d *Dashboard) Performance() domain.Performance {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := d.performanceSnap
	snap.Metrics = slices.Clone(d.performanceSnap.Metrics)
	return snap
}

// Refresh loads both widgets concurrently and stores the results. The snapshots
// are updated even when a load fails; the returned error aggregates the failures.
// A load cut short by cancellation of ctx keeps the previous snapshot and is not reported.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.logger.Debug("Usecase: refreshing widgets...")

	var (
		errMu  sync.Mutex
		result *multierror.Error
	)
	collect := func(widget string, err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		defer errMu.Unlock()
		result = multierror.Append(result, fmt.Errorf("%s widget: %w", widget, err))
	}

	var eg errgroup.Group
	eg.Go(func() error {
		snap, err := d.github.Load(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		d.mu.Lock()
		d.githubSnap = snap
		d.mu.Unlock()
		collect("github", err)
		return nil
	})
	eg.Go(func() error {
		snap, err := d.performance.Load(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		d.mu.Lock()
		d.performanceSnap = snap
		d.mu.Unlock()
		collect("performance", err)
		return nil
	})
	_ = eg.Wait()

	if err := result.ErrorOrNil(); err != nil {
		for _, e := range result.Errors {
			d.report(e)
		}
		d.logger.Warn("Usecase: refresh completed with errors", zap.Int("failed", len(result.Errors)))
		return err
	}
	d.logger.Debug("Usecase: refresh complete.")
	return nil
}

// Run refreshes once and then on every refresh interval until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	_ = d.Refresh(ctx)
	if d.interval <= 0 {
		return
	}
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = d.Refresh(ctx)
		}
	}
}
