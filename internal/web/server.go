// Package web serves the portfolio page and the widget data over HTTP.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gurdipscode/portfolio/internal/config"
	"github.com/gurdipscode/portfolio/internal/domain"
	"github.com/gurdipscode/portfolio/internal/monitoring"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "Jan 2, 2006"

// skeletonCount is the number of placeholder cards shown while repositories load.
const skeletonCount = 4

// Snapshots is the read side of the dashboard.
type Snapshots interface {
	GitHub() domain.GitHubActivity
	Performance() domain.Performance
}

// Server renders the widgets held by a Snapshots source.
type Server struct {
	snapshots Snapshots
	profile   config.Profile
	logger    *zap.Logger
	tmpl      *template.Template
	now       func() time.Time
}

type pageData struct {
	Profile     config.Profile
	GitHub      domain.GitHubActivity
	Performance domain.Performance
	Now         time.Time
}

// NewServer parses the page template and creates a new Server instance.
func NewServer(snapshots Snapshots, profile config.Profile, logger *zap.Logger) (*Server, error) {
	funcs := template.FuncMap{
		"date":  func(t time.Time) string { return t.Format(dateLayout) },
		"grade": domain.GradeFor,
		"skeletons": func() []struct{} {
			return make([]struct{}, skeletonCount)
		},
	}
	tmpl, err := template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Server{
		snapshots: snapshots,
		profile:   profile,
		logger:    logger,
		tmpl:      tmpl,
		now:       time.Now,
	}, nil
}

// Routes returns the HTTP handler of the server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(monitoring.Middleware)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/github", s.handleGitHub)
		r.Get("/performance", s.handlePerformance)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Profile:     s.profile,
		GitHub:      s.snapshots.GitHub(),
		Performance: s.snapshots.Performance(),
		Now:         s.now(),
	}
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
		monitoring.Report(err)
		writeError(w, "INTERNAL_ERROR", "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleGitHub(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshots.GitHub())
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshots.Performance())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	writeJSON(w, status, resp)
}
