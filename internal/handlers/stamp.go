package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/internal/middleware"
	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/services"
	"github.com/facio/facio/validation"
)

// MaxUpload bounds the PDF accepted by the stamp endpoints.
const MaxUpload = 32 << 20

type Stamper interface {
	StampPDF(src []byte, stamp models.PaymentStamp, locale string) ([]byte, error)
	PreviewStamp(src []byte, stamp models.PaymentStamp, locale string) ([]byte, error)
}

type StampHandler struct {
	Stamper  Stamper
	Settings *services.SettingsService
	Outputs  Outputs
	Now      func() time.Time
}

func NewStampHandler(s Stamper, settings *services.SettingsService, out Outputs) *StampHandler {
	return &StampHandler{Stamper: s, Settings: settings, Outputs: out, Now: time.Now}
}

type stampUpload struct {
	filename string
	src      []byte
	stamp    models.PaymentStamp
}

// parseUpload reads the multipart form: file, date (YYYY-MM-DD, default
// today), method, amount, reference.
func (h *StampHandler) parseUpload(w http.ResponseWriter, r *http.Request) (*stampUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUpload)
	if err := r.ParseMultipartForm(MaxUpload); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file: %v", errBadRequest, err)
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %v", errBadRequest, err)
	}

	up := &stampUpload{filename: hdr.Filename, src: src}
	up.stamp.Method = strings.TrimSpace(r.FormValue("method"))
	up.stamp.Amount = strings.TrimSpace(r.FormValue("amount"))
	up.stamp.Reference = strings.TrimSpace(r.FormValue("reference"))
	if d := strings.TrimSpace(r.FormValue("date")); d != "" {
		t, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			return nil, &services.ValidationError{Violations: validation.Violations{"date": "invalid_date"}}
		}
		up.stamp.Date = t
	} else {
		up.stamp.Date = h.Now()
	}
	return up, nil
}

// Stamp: POST /api/stamp
func (h *StampHandler) Stamp(w http.ResponseWriter, r *http.Request) {
	up, err := h.parseUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Stamper.StampPDF(up.src, up.stamp, middleware.LangFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	biz := h.Settings.Load(r.Context())
	name := services.StampedFilename(up.filename, h.Now())
	deliver(r.Context(), w, h.Outputs.For(biz.StampedSaveDir, h.Outputs.StampedDir), name, out, r.URL.Query().Get("download") == "1")
}

// Preview: POST /api/stamp/preview. The result is never saved.
func (h *StampHandler) Preview(w http.ResponseWriter, r *http.Request) {
	up, err := h.parseUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Stamper.PreviewStamp(up.src, up.stamp, middleware.LangFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.PDF(w, "", out, false)
}
