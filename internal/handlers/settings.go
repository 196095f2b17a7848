package handlers

import (
	"net/http"
	"strings"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/services"
	"github.com/facio/facio/validation"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

func NewSettingsHandler(s *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

// Get: GET /api/settings, stored values merged over the defaults.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.Settings.Load(r.Context()))
}

// Update: PUT /api/settings replaces the stored settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cfg models.BusinessConfig
	if err := httpx.DecodeJSON(r, &cfg); err != nil {
		writeError(w, r, err)
		return
	}
	cfg.BusinessName = strings.TrimSpace(cfg.BusinessName)
	cfg.Email = strings.TrimSpace(cfg.Email)
	cfg.InvoiceSaveDir = strings.TrimSpace(cfg.InvoiceSaveDir)
	cfg.StampedSaveDir = strings.TrimSpace(cfg.StampedSaveDir)

	v := validation.Violations{}
	validation.Email("businessEmail", cfg.Email, v)
	if cfg.RebateShare != nil {
		validation.PositiveFloat("rebateShare", *cfg.RebateShare, v)
		if v["rebateShare"] == "" {
			validation.RangeFloat("rebateShare", *cfg.RebateShare, 0, 1, v)
		}
	}
	if !v.Empty() {
		invalid(w, r, v)
		return
	}
	if err := h.Settings.Save(r.Context(), cfg); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.Settings.Load(r.Context()))
}
