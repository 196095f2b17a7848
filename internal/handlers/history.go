package handlers

import (
	"net/http"
	"strings"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/internal/store"
	"github.com/facio/facio/validation"
)

type HistoryHandler struct {
	History *store.HistoryStore
}

func NewHistoryHandler(h *store.HistoryStore) *HistoryHandler {
	return &HistoryHandler{History: h}
}

// List: GET /api/history, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.History.List(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Last: GET /api/history/last?client=NAME returns the most recent invoice
// for a client, used to prefill the form.
func (h *HistoryHandler) Last(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("client"))
	if name == "" {
		invalid(w, r, validation.Violations{"client": "required"})
		return
	}
	entry, ok := h.History.LastForClient(r.Context(), name)
	if !ok {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

// Clear: DELETE /api/history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.History.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
