// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/forgewatch/forgewatch/internal/adapters/ingest"
	"github.com/forgewatch/forgewatch/internal/app"
)

// StreamDependencies defines the interface for stream control operations.
type StreamDependencies interface {
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop()
	Step(ctx context.Context) error
	State() app.State
}

// StreamHandler handles stream control requests.
type StreamHandler struct {
	deps StreamDependencies
}

// NewStreamHandler creates a new stream control handler.
func NewStreamHandler(deps StreamDependencies) *StreamHandler {
	return &StreamHandler{deps: deps}
}

type stateResponse struct {
	State string `json:"state"`
}

// HandleControl handles POST /stream/{start|pause|stop|step} requests.
func (h *StreamHandler) HandleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	verb := strings.TrimPrefix(r.URL.Path, "/stream/")
	if verb == "" || strings.Contains(verb, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var err error
	switch verb {
	case "start":
		err = h.deps.Start(r.Context())
	case "pause":
		err = h.deps.Pause(r.Context())
	case "stop":
		h.deps.Stop()
	case "step":
		err = h.deps.Step(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, ingest.ErrStreamExhausted):
		// Running off the end of the stream is a normal outcome; the
		// caller learns about it through the reported state.
	case errors.Is(err, app.ErrBadTransition):
		writeError(w, http.StatusConflict, "bad_transition", err)
		return
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: string(h.deps.State())})
}
