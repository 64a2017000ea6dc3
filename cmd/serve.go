package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gurdipscode/portfolio/internal/monitoring"
	"github.com/gurdipscode/portfolio/internal/usecase"
	"github.com/gurdipscode/portfolio/internal/web"
)

const monitoringFlushTimeout = 2 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the portfolio page",
	Long:  `Starts the HTTP server rendering the portfolio page. The GitHub and Lighthouse widgets are loaded in the background once at start, or on every refresh interval when one is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		flush, err := monitoring.Init(monitoring.Options{
			DSN:            cfg.Sentry.DSN,
			SendDefaultPII: cfg.Sentry.SendDefaultPII,
			Environment:    cfg.Sentry.Environment,
			Release:        "portfolio@" + version,
		}, logger)
		if err != nil {
			return err
		}
		defer flush(monitoringFlushTimeout)

		githubWidget, err := newGitHubWidget()
		if err != nil {
			return err
		}
		performanceWidget, err := newPerformanceWidget(ctx)
		if err != nil {
			return err
		}
		dashboard := usecase.NewDashboard(githubWidget, performanceWidget, logger,
			usecase.WithRefreshInterval(cfg.Server.RefreshInterval),
			usecase.WithErrorReporter(monitoring.Report),
		)

		srv, err := web.NewServer(dashboard, cfg.Profile, logger)
		if err != nil {
			return err
		}
		httpServer := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go dashboard.Run(ctx)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server is ready to handle requests", zap.String("addr", cfg.Server.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
