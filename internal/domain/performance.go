package domain

import "time"

// Grade buckets a percentage score.
type Grade string

const (
	GradeGood    Grade = "good"
	GradeAverage Grade = "average"
	GradePoor    Grade = "poor"
)

// GradeFor returns the grade of a 0..100 score.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeGood
	case score >= 75:
		return GradeAverage
	default:
		return GradePoor
	}
}

// Metric is a single named Lighthouse category score.
type Metric struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Grade is a shorthand for GradeFor(m.Score).
func (m Metric) Grade() Grade {
	return GradeFor(m.Score)
}

// Category names in display order.
const (
	MetricPerformance   = "Performance"
	MetricAccessibility = "Accessibility"
	MetricBestPractices = "Best Practices"
	MetricSEO           = "SEO"
)

// FallbackMetrics returns the static scores shown when the live audit fails.
func FallbackMetrics() []Metric {
	return []Metric{
		{Name: MetricPerformance, Score: 96},
		{Name: MetricAccessibility, Score: 98},
		{Name: MetricBestPractices, Score: 100},
		{Name: MetricSEO, Score: 100},
	}
}

// Performance is a snapshot of the website performance widget.
type Performance struct {
	Status    Status   `json:"status"`
	SiteURL   string   `json:"site_url"`
	Metrics   []Metric `json:"metrics"`
	Overall   int      `json:"overall"`
	ReportURL string   `json:"report_url,omitempty"`
	// Fallback is set when Metrics holds FallbackMetrics instead of live data.
	Fallback  bool      `json:"fallback"`
	Notice    string    `json:"notice,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitzero"`
}

// LoadingPerformance returns the snapshot shown before any data has arrived.
func LoadingPerformance(siteURL string) Performance {
	return Performance{
		Status:  StatusLoading,
		SiteURL: siteURL,
		Metrics: []Metric{},
	}
}
