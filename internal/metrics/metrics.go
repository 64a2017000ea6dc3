// Package metrics holds the Prometheus collectors of the widget fetches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of the fetch counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	widgetFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_widget_fetches_total",
			Help: "Number of widget data fetches by outcome",
		},
		[]string{"widget", "outcome"},
	)

	widgetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_widget_fetch_duration_seconds",
			Help:    "Duration of widget data fetches",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"widget"},
	)
)

// ObserveFetch records one fetch of widget that started at start.
func ObserveFetch(widget string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	widgetFetchesTotal.WithLabelValues(widget, outcome).Inc()
	widgetFetchDuration.WithLabelValues(widget).Observe(time.Since(start).Seconds())
}
