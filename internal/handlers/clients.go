package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/services"
	"github.com/facio/facio/internal/store"
	"github.com/facio/facio/validation"
)

type ClientHandler struct {
	Clients  *store.ClientStore
	Transfer *services.ClientTransfer
	Now      func() time.Time
}

func NewClientHandler(clients *store.ClientStore, transfer *services.ClientTransfer) *ClientHandler {
	return &ClientHandler{Clients: clients, Transfer: transfer, Now: time.Now}
}

// List: GET /api/clients, most recently used first.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Clients.List(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Upsert: POST /api/clients
func (h *ClientHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var c models.SavedClient
	if err := httpx.DecodeJSON(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.PersonalID = strings.TrimSpace(c.PersonalID)
	c.Address = strings.TrimSpace(c.Address)

	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	validation.Required("email", c.Email, v)
	validation.Email("email", c.Email, v)
	validation.Required("personnumber", c.PersonalID, v)
	validation.Required("address", c.Address, v)
	if !v.Empty() {
		invalid(w, r, v)
		return
	}
	if c.LastUsedAt.IsZero() {
		c.LastUsedAt = h.Now()
	}
	if err := h.Clients.Upsert(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	saved, _ := h.Clients.Get(r.Context(), c.PersonalID)
	httpx.JSON(w, http.StatusOK, saved)
}

// Remove: DELETE /api/clients/{id}. Unknown ids are not an error.
func (h *ClientHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Clients.RemoveByID(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear: DELETE /api/clients
func (h *ClientHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Clients.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export: GET /api/clients/export, served as a file download.
func (h *ClientHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc := h.Transfer.Export(r.Context())
	name := fmt.Sprintf("clients-export-%s.json", h.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	httpx.JSON(w, http.StatusOK, doc)
}

// Import: POST /api/clients/import with an export document as body.
func (h *ClientHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, httpx.MaxJSONBody))
	if err != nil || len(data) == 0 {
		writeError(w, r, httpx.ErrEmptyBody)
		return
	}
	report, err := h.Transfer.Import(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
