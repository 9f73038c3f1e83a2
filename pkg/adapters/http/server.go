// Package http exposes a running application over HTTP: health, status,
// a server-sent stream of Models and, optionally, Prometheus metrics.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/granchi/hollywood"
	"github.com/granchi/hollywood/internal/logging"
	"github.com/granchi/hollywood/pkg/domain"
)

// Application is the part of a hollywood.Application the server reads.
type Application interface {
	ID() string
	State() hollywood.State
	Model() (domain.Model, bool)
	Subscribe() (<-chan domain.Model, func())
}

var _ Application = (*hollywood.Application)(nil)

// Option configures the handler.
type Option func(*Server)

// WithGatherer serves the metrics of g under /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server serves one Application.
type Server struct {
	app      Application
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Status is the body of GET /status.
type Status struct {
	RunID string     `json:"run_id"`
	State string     `json:"state"`
	Model *ModelView `json:"model,omitempty"`
}

// ModelView is the printable form of a Model.
type ModelView struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func viewOf(m domain.Model) *ModelView {
	return &ModelView{Type: fmt.Sprintf("%T", m), Text: fmt.Sprintf("%v", m)}
}

// NewHandler creates the HTTP handler for app.
func NewHandler(app Application, opts ...Option) http.Handler {
	s := &Server{app: app, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Get("/readyz", s.Ready)
	r.Get("/status", s.Status)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Health handles GET /healthz. It answers while the process is up.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz. It answers 200 only while the application runs.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	state := s.app.State()
	code := http.StatusOK
	if state != hollywood.StateRunning {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]string{"state": state.String()})
}

// Status handles GET /status.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	status := Status{RunID: s.app.ID(), State: s.app.State().String()}
	if m, ok := s.app.Model(); ok {
		status.Model = viewOf(m)
	}
	s.writeJSON(w, http.StatusOK, status)
}

// SubscribeEvents handles GET /events: every Model is sent as a "model"
// event until the application terminates or the client leaves.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	models, cancel := s.app.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case m, ok := <-models:
			if !ok {
				fmt.Fprintf(w, "event: end\ndata: %s\n\n", s.app.State())
				flusher.Flush()
				return
			}
			data, err := json.Marshal(viewOf(m))
			if err != nil {
				s.logger.Error("SSE: failed to encode model", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: model\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
