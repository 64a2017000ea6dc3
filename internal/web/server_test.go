package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gurdipscode/portfolio/internal/config"
	"github.com/gurdipscode/portfolio/internal/domain"
)

type stubSnapshots struct {
	github      domain.GitHubActivity
	performance domain.Performance
}

func (s stubSnapshots) GitHub() domain.GitHubActivity   { return s.github }
func (s stubSnapshots) Performance() domain.Performance { return s.performance }

var testProfile = config.Profile{Name: "Ada", Headline: "Platform Engineer", About: "Ships things."}

func setupTestServer(t *testing.T, snapshots Snapshots) *httptest.Server {
	srv, err := NewServer(snapshots, testProfile, zap.NewNop())
	require.NoError(t, err)
	srv.now = func() time.Time { return time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC) }
	server := httptest.NewServer(srv.Routes())
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (int, string, http.Header) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestServer_IndexStates(t *testing.T) {
	contributions := 321
	testCases := []struct {
		name        string
		snapshots   stubSnapshots
		contains    []string
		notContains []string
	}{
		{
			name: "loading state before data arrives",
			snapshots: stubSnapshots{
				github:      domain.LoadingGitHubActivity("octocat"),
				performance: domain.LoadingPerformance("https://example.com"),
			},
			contains: []string{
				`<h1>Ada</h1>`,
				`id="github" data-status="loading"`,
				`class="skeleton"`,
				`Loading metrics...`,
				`Last updated Mar 14, 2025`,
			},
			notContains: []string{"View full report", "No public repositories found"},
		},
		{
			name: "success renders the payload",
			snapshots: stubSnapshots{
				github: func() domain.GitHubActivity {
					g := domain.LoadingGitHubActivity("octocat")
					g.Status = domain.StatusReady
					g.Contributions = &contributions
					g.Repositories = []domain.Repository{
						{Name: "infra", Description: "Terraform modules", HTMLURL: "https://github.com/octocat/infra", StargazersCount: 12, ForksCount: 3, Language: "HCL", UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
						{Name: "notes", HTMLURL: "https://github.com/octocat/notes", UpdatedAt: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
					}
					return g
				}(),
				performance: domain.Performance{
					Status:    domain.StatusReady,
					SiteURL:   "https://example.com",
					Metrics:   []domain.Metric{{Name: "Performance", Score: 72}, {Name: "SEO", Score: 95}},
					Overall:   84,
					ReportURL: "https://pagespeed.web.dev/report?url=https%3A%2F%2Fexample.com",
				},
			},
			contains: []string{
				`data-status="ready"`,
				`<h4>infra</h4>`,
				`<p>Terraform modules</p>`,
				`Updated May 1, 2024`,
				`<span class="stars">12</span>`,
				`<span class="forks">3</span>`,
				`<span class="language">HCL</span>`,
				`<p>No description provided</p>`,
				`321 contributions in the last year`,
				`class="metric grade-poor"><span class="name">Performance</span> <span class="score">72</span>`,
				`class="metric grade-good"><span class="name">SEO</span> <span class="score">95</span>`,
				`class="overall grade-average">Overall 84`,
				`href="https://pagespeed.web.dev/report?url=https%3A%2F%2Fexample.com"`,
				`href="https://github.com/octocat?tab=repositories"`,
			},
			notContains: []string{"Loading metrics...", "class=\"notice\""},
		},
		{
			name: "failure renders the error message and fallback scores",
			snapshots: stubSnapshots{
				github: func() domain.GitHubActivity {
					g := domain.LoadingGitHubActivity("octocat")
					g.Status = domain.StatusError
					g.Error = "Failed to load GitHub activity"
					return g
				}(),
				performance: domain.Performance{
					Status:    domain.StatusReady,
					Metrics:   domain.FallbackMetrics(),
					Overall:   99,
					Fallback:  true,
					Notice:    "Unable to load performance metrics. Using fallback data.",
					ReportURL: "https://pagespeed.web.dev/",
				},
			},
			contains: []string{
				`<p class="error">Failed to load GitHub activity</p>`,
				`Unable to load performance metrics. Using fallback data.`,
				`<span class="score">96</span>`,
				`<span class="name">Best Practices</span>`,
				`href="https://pagespeed.web.dev/"`,
			},
			notContains: []string{"Recent Repositories"},
		},
		{
			name: "empty repository list",
			snapshots: stubSnapshots{
				github: func() domain.GitHubActivity {
					g := domain.LoadingGitHubActivity("octocat")
					g.Status = domain.StatusReady
					return g
				}(),
				performance: domain.LoadingPerformance("https://example.com"),
			},
			contains: []string{"No public repositories found"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := setupTestServer(t, tc.snapshots)
			status, body, header := get(t, server.URL+"/")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, "text/html; charset=utf-8", header.Get("Content-Type"))
			for _, s := range tc.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestServer_API(t *testing.T) {
	snapshots := stubSnapshots{
		github: func() domain.GitHubActivity {
			g := domain.LoadingGitHubActivity("octocat")
			g.Status = domain.StatusReady
			g.Repositories = []domain.Repository{{Name: "infra", StargazersCount: 2}}
			return g
		}(),
		performance: domain.Performance{Status: domain.StatusReady, Metrics: domain.FallbackMetrics(), Fallback: true},
	}
	server := setupTestServer(t, snapshots)

	status, body, header := get(t, server.URL+"/api/github")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	var gh domain.GitHubActivity
	require.NoError(t, json.Unmarshal([]byte(body), &gh))
	assert.Equal(t, domain.StatusReady, gh.Status)
	assert.Equal(t, "infra", gh.Repositories[0].Name)

	status, body, _ = get(t, server.URL+"/api/performance")
	assert.Equal(t, http.StatusOK, status)
	var perf domain.Performance
	require.NoError(t, json.Unmarshal([]byte(body), &perf))
	assert.True(t, perf.Fallback)
	assert.Equal(t, domain.FallbackMetrics(), perf.Metrics)

	status, body, _ = get(t, server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	status, body, _ = get(t, server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(body, "go_goroutines"))

	status, _, _ = get(t, server.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, status)
}
