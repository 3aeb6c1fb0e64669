// Package gateway is the presentation tier: every page view makes exactly one
// call to the data-access tier and renders the result, or a degraded
// message, as HTML.
package gateway

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/koustreak/tierline/internal/gateway/backend"
	"github.com/koustreak/tierline/internal/logger"
	"github.com/koustreak/tierline/internal/metrics"
)

// Fetcher performs the single backend call behind a page.
type Fetcher interface {
	Fetch(ctx context.Context) (*backend.Response, error)
}

// Server routes the gateway endpoints.
type Server struct {
	backend Fetcher
	host    string
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New creates a Server. host is shown in the page footer.
func New(f Fetcher, host string, log *logger.Logger, m *metrics.Metrics) *Server {
	return &Server{backend: f, host: host, log: log, metrics: m}
}

// Routes returns the HTTP handler for the tier.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.log.Middleware())
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePage always answers 200: failures render as a visible message
// inside the page rather than as an HTTP error.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	resp, err := s.backend.Fetch(r.Context())
	out := Classify(resp, err)

	s.metrics.Event(out.Kind.String())
	if out.Failed() {
		logger.FromContext(r.Context()).WarnWith("degraded render", err, map[string]interface{}{
			"outcome": out.Kind.String(),
			"detail":  out.Message,
		})
	}

	var buf bytes.Buffer
	if err := Render(&buf, Page{Outcome: out, Host: s.host}); err != nil {
		logger.FromContext(r.Context()).ErrorWith("render failed", err, nil)
		http.Error(w, "An unexpected issue occurred while rendering the page.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
