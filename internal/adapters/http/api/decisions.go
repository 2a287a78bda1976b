// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/forgewatch/forgewatch/internal/domain/types"
)

// DecisionHandler handles latest-decision requests.
type DecisionHandler struct {
	deps HistoryDependencies
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(deps HistoryDependencies) *DecisionHandler {
	return &DecisionHandler{deps: deps}
}

// HandleLatest handles GET /decisions/latest requests. Returns 404 until
// the first unit has been processed.
func (h *DecisionHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries := h.deps.Recent(r.Context(), 1)
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "no_data", ErrNoData)
		return
	}
	writeJSON(w, http.StatusOK, types.DecisionFrom(entries[0].Decision))
}
