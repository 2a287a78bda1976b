// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/forgewatch/forgewatch/internal/adapters/repository"
	"github.com/forgewatch/forgewatch/internal/app"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the orchestrator implementation.
type Dependencies interface {
	// Stream control.
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop()
	Step(ctx context.Context) error
	State() app.State

	// Read operations over the processed history.
	Recent(ctx context.Context, k int) []repository.Entry
	Stats(ctx context.Context) map[string]interface{}
}

// Server wires HTTP routes for the pipeline API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	historyHandler  *HistoryHandler
	decisionHandler *DecisionHandler
	streamHandler   *StreamHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		historyHandler:  NewHistoryHandler(deps, cfg.maxRecent),
		decisionHandler: NewDecisionHandler(deps),
		streamHandler:   NewStreamHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/history/recent", MetricsMiddleware(s.historyHandler.HandleRecent, "history_recent"))
	mux.HandleFunc("/decisions/latest", MetricsMiddleware(s.decisionHandler.HandleLatest, "decisions_latest"))
	mux.HandleFunc("/stream/", MetricsMiddleware(s.streamHandler.HandleControl, "stream"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
