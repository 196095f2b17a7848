package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/store"
)

// DocumentRenderer turns an invoice into PDF bytes.
type DocumentRenderer interface {
	RenderInvoice(inv *models.Invoice, biz models.BusinessConfig, locale string) ([]byte, error)
}

type ExportResult struct {
	Filename string
	PDF      []byte
	Totals   Totals
}

// InvoiceExporter validates, renders and records invoices.
type InvoiceExporter struct {
	renderer DocumentRenderer
	settings *SettingsService
	clients  *store.ClientStore
	history  *store.HistoryStore
	now      func() time.Time
}

func NewInvoiceExporter(r DocumentRenderer, settings *SettingsService, clients *store.ClientStore, history *store.HistoryStore) *InvoiceExporter {
	return &InvoiceExporter{renderer: r, settings: settings, clients: clients, history: history, now: time.Now}
}

// Preview renders inv as is, without validation or bookkeeping.
func (e *InvoiceExporter) Preview(ctx context.Context, inv *models.Invoice, locale string) ([]byte, error) {
	return e.renderer.RenderInvoice(inv, e.settings.Load(ctx), locale)
}

// Totals computes totals with the configured rebate share.
func (e *InvoiceExporter) Totals(ctx context.Context, inv *models.Invoice) Totals {
	return NewInvoiceService(e.settings.Load(ctx).Rebate()).ComputeTotals(inv)
}

// Export validates inv, renders it and records the client and a history
// entry. When only the bookkeeping fails the result is still returned
// together with an error wrapping store.ErrWrite.
func (e *InvoiceExporter) Export(ctx context.Context, inv *models.Invoice, locale string) (*ExportResult, error) {
	biz := e.settings.Load(ctx)
	svc := NewInvoiceService(biz.Rebate())
	if err := svc.Validate(inv); err != nil {
		return nil, err
	}
	models.EnsureIDs(inv.Items)
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = e.now()
	}
	pdf, err := e.renderer.RenderInvoice(inv, biz, locale)
	if err != nil {
		return nil, err
	}
	res := &ExportResult{
		Filename: InvoiceFilename(locale, inv.Client.Name, inv.InvoiceNumber),
		PDF:      pdf,
		Totals:   svc.ComputeTotals(inv),
	}

	entry := models.InvoiceHistoryEntry{
		ClientName:       inv.Client.Name,
		InvoiceNumber:    inv.InvoiceNumber,
		Date:             inv.IssuedAt,
		Items:            inv.Items,
		TaxRate:          inv.TaxRate,
		IncludeTaxRebate: inv.IncludeTaxRebate,
		Total:            res.Totals.Total,
		ClientEmail:      inv.Client.Email,
		ClientPersonalID: inv.Client.PersonalID,
		ClientAddress:    inv.Client.Address,
	}
	var errs []error
	if err := e.history.Record(ctx, entry); err != nil {
		errs = append(errs, err)
	}
	if err := e.clients.Upsert(ctx, models.ClientFrom(inv.Client, e.now())); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		log.Printf("[export] invoice %s rendered but not recorded: %v", inv.InvoiceNumber, err)
		return res, err
	}
	return res, nil
}
