package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/facio/facio/httpx"
	"github.com/facio/facio/internal/middleware"
	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/services"
	"github.com/facio/facio/validation"
)

type InvoiceHandler struct {
	Exporter *services.InvoiceExporter
	Settings *services.SettingsService
	Outputs  Outputs
	Now      func() time.Time
}

func NewInvoiceHandler(exp *services.InvoiceExporter, settings *services.SettingsService, out Outputs) *InvoiceHandler {
	return &InvoiceHandler{Exporter: exp, Settings: settings, Outputs: out, Now: time.Now}
}

type totalsResponse struct {
	services.Totals
	Complete   bool                  `json:"complete"`
	Violations validation.Violations `json:"violations,omitempty"`
}

// Totals: POST /api/invoices/totals
func (h *InvoiceHandler) Totals(w http.ResponseWriter, r *http.Request) {
	var inv models.Invoice
	if err := httpx.DecodeJSON(r, &inv); err != nil {
		writeError(w, r, err)
		return
	}
	biz := h.Settings.Load(r.Context())
	resp := totalsResponse{Totals: h.Exporter.Totals(r.Context(), &inv), Complete: true}
	var verr *services.ValidationError
	if err := services.NewInvoiceService(biz.Rebate()).Validate(&inv); errors.As(err, &verr) {
		resp.Complete = false
		resp.Violations = verr.Violations
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// PDF: POST /api/invoices/pdf. With ?preview=1 the invoice is rendered as
// is and shown inline; otherwise it is validated, recorded and saved.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	var inv models.Invoice
	if err := httpx.DecodeJSON(r, &inv); err != nil {
		writeError(w, r, err)
		return
	}
	lang := middleware.LangFrom(r)
	ctx := r.Context()

	if r.URL.Query().Get("preview") == "1" {
		data, err := h.Exporter.Preview(ctx, &inv, lang)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.PDF(w, "", data, false)
		return
	}

	res, err := h.Exporter.Export(ctx, &inv, lang)
	if res == nil {
		writeError(w, r, err)
		return
	}
	if err != nil {
		w.Header().Set("X-Facio-Warning", "storage_write_failed")
	}
	w.Header().Set("X-Facio-Total", strconv.FormatFloat(res.Totals.Total, 'f', 2, 64))
	biz := h.Settings.Load(ctx)
	deliver(ctx, w, h.Outputs.For(biz.InvoiceSaveDir, h.Outputs.InvoiceDir), res.Filename, res.PDF, r.URL.Query().Get("download") == "1")
}

type nextNumberResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Auto          bool   `json:"auto"`
	Generated     string `json:"generated"`
}

// NextNumber: GET /api/invoices/next-number
func (h *InvoiceHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	biz := h.Settings.Load(r.Context())
	dir := biz.InvoiceSaveDir
	if dir == "" {
		dir = h.Outputs.InvoiceDir
	}
	next := services.FirstInvoiceNumber
	if dir != "" {
		n, err := services.NextInvoiceNumber(dir)
		switch {
		case err == nil:
			next = n
		case errors.Is(err, os.ErrNotExist):
			log.Printf("[api] invoice folder %s does not exist yet", dir)
		default:
			writeError(w, r, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, nextNumberResponse{
		InvoiceNumber: strconv.Itoa(next),
		Auto:          biz.AutoInvoiceNumbering,
		Generated:     services.GenerateInvoiceNumber(h.Now()),
	})
}
