// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/forgewatch/forgewatch/internal/adapters/repository"
	"github.com/forgewatch/forgewatch/internal/domain/types"
)

// HistoryDependencies defines the interface for history read operations.
type HistoryDependencies interface {
	Recent(ctx context.Context, k int) []repository.Entry
}

// HistoryHandler handles history read requests.
type HistoryHandler struct {
	deps     HistoryDependencies
	maxLimit int
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies, maxLimit int) *HistoryHandler {
	return &HistoryHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleRecent handles GET /history/recent?k=N requests. Entries come back
// oldest first, newest last, matching buffer order.
func (h *HistoryHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	kStr := r.URL.Query().Get("k")
	k, err := strconv.Atoi(kStr)
	if err != nil || k < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if k > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return
	}
	entries := h.deps.Recent(r.Context(), k)
	views := make([]types.HistoryEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, types.HistoryEntryView{
			Reading:    types.ReadingFrom(e.Record),
			Outputs:    types.OutputsFrom(e.Outputs),
			Decision:   types.DecisionFrom(e.Decision),
			IngestedAt: e.IngestedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}
