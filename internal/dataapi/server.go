// Package dataapi is the data-access tier: it owns the store handle and
// serves the items table as JSON over HTTP.
package dataapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/koustreak/tierline/internal/errs"
	"github.com/koustreak/tierline/internal/items"
	"github.com/koustreak/tierline/internal/logger"
	"github.com/koustreak/tierline/internal/metrics"
)

// Response bodies. Failures never carry driver detail to the caller.
const (
	bodyHealthy = "OK"
	bodyBanner  = "Backend API is running!"
	bodyFailed  = "Error fetching data"
)

// Lister is the read the /api/data endpoint needs.
type Lister interface {
	List(ctx context.Context) ([]items.Item, error)
}

// Server routes the data-access endpoints.
type Server struct {
	items        Lister
	log          *logger.Logger
	metrics      *metrics.Metrics
	queryTimeout time.Duration
}

// New creates a Server. queryTimeout bounds each /api/data query,
// including time spent waiting for a pooled connection; 0 leaves only
// the request context as the bound.
func New(l Lister, log *logger.Logger, m *metrics.Metrics, queryTimeout time.Duration) *Server {
	return &Server{
		items:        l,
		log:          log,
		metrics:      m,
		queryTimeout: queryTimeout,
	}
}

// Routes returns the HTTP handler for the tier.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.log.Middleware())
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/", s.handleBanner)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/data", s.handleData)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// handleHealthz never touches the store.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, bodyHealthy)
}

func (s *Server) handleBanner(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, bodyBanner)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	list, err := s.items.List(ctx)
	if err != nil {
		s.fail(w, r, "error fetching data from store", err)
		return
	}

	body, err := json.Marshal(list)
	if err != nil {
		s.fail(w, r, "error encoding items", err)
		return
	}

	s.metrics.Event("query_ok")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// fail logs err with its kind and answers with the generic 500 body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.FromContext(r.Context()).ErrorWith(msg, err, map[string]interface{}{
		"kind": errs.KindOf(err).String(),
	})
	s.metrics.Event("query_failed")
	writeText(w, http.StatusInternalServerError, bodyFailed)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
