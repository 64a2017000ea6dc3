// Package monitoring bootstraps the Sentry SDK once per process and reports errors to it.
package monitoring

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"go.uber.org/zap"
)

// Options configures the SDK.
type Options struct {
	DSN string
	// SendDefaultPII attaches caller network identity (IP address, cookies) to events.
	SendDefaultPII bool
	Environment    string
	Release        string

	beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
}

// Init initialises the SDK. An empty DSN disables monitoring. The returned
// function flushes buffered events and must be called before the process exits.
func Init(opts Options, logger *zap.Logger) (func(time.Duration), error) {
	if opts.DSN == "" {
		logger.Info("monitoring disabled: no DSN configured")
		return func(time.Duration) {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		SendDefaultPII:   opts.SendDefaultPII,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		BeforeSend:       opts.beforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}
	logger.Info("monitoring enabled", zap.String("environment", opts.Environment), zap.Bool("send_default_pii", opts.SendDefaultPII))
	return func(timeout time.Duration) {
		if !sentry.Flush(timeout) {
			logger.Warn("timed out flushing monitoring events")
		}
	}, nil
}

// Report sends err to Sentry. It is a no-op before Init or when disabled.
func Report(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Middleware reports panics of next and re-panics so outer recoverers still run.
func Middleware(next http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(next)
}
