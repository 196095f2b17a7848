package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/validation"
)

// Totals are the derived amounts of an invoice. Values are unrounded;
// rounding to two decimals happens when they are formatted.
type Totals struct {
	Subtotal float64  `json:"subtotal"`
	Tax      float64  `json:"tax"`
	Total    float64  `json:"total"`
	Rebate   *float64 `json:"rebate,omitempty"`
}

// ComputeTotals sums the line items and applies the tax rate. The rebate is
// the default share of the total and only present when requested.
func ComputeTotals(items []models.LineItem, taxRate float64, includeRebate bool) Totals {
	return computeTotals(items, taxRate, includeRebate, models.DefaultRebateShare)
}

func computeTotals(items []models.LineItem, taxRate float64, includeRebate bool, share float64) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Total()
	}
	t.Tax = t.Subtotal * taxRate
	t.Total = t.Subtotal + t.Tax
	if includeRebate {
		r := t.Total * share
		t.Rebate = &r
	}
	return t
}

type InvoiceService struct {
	rebateShare float64
}

// NewInvoiceService returns a service using rebateShare for the rebate
// line. Values outside (0,1] select the default share.
func NewInvoiceService(rebateShare float64) *InvoiceService {
	if rebateShare <= 0 || rebateShare > 1 {
		rebateShare = models.DefaultRebateShare
	}
	return &InvoiceService{rebateShare: rebateShare}
}

func (s *InvoiceService) RebateShare() float64 { return s.rebateShare }

// ComputeTotals calculates subtotal, tax, total and the optional rebate.
func (s *InvoiceService) ComputeTotals(inv *models.Invoice) Totals {
	return computeTotals(inv.Items, inv.TaxRate, inv.IncludeTaxRebate, s.rebateShare)
}

// ValidationError lists the fields that keep an invoice from being exported.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid invoice: " + strings.Join(fields, ", ")
}

// Validate checks the invoice is complete enough to render and export.
func (s *InvoiceService) Validate(inv *models.Invoice) error {
	v := validation.Violations{}
	validation.Required("invoice_number", inv.InvoiceNumber, v)
	validation.Required("client.name", inv.Client.Name, v)
	validation.Required("client.email", inv.Client.Email, v)
	validation.Email("client.email", inv.Client.Email, v)
	validation.Required("client.personal_id", inv.Client.PersonalID, v)
	validation.Required("client.address", inv.Client.Address, v)
	validation.RangeFloat("tax_rate", inv.TaxRate, 0, 1, v)
	validation.MinLen("items", len(inv.Items), 1, v)
	for i, item := range inv.Items {
		if !item.IsComplete() {
			v[fmt.Sprintf("items[%d]", i)] = "incomplete_item"
		}
	}
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

// IsComplete is Validate as a predicate, for live form status.
func (s *InvoiceService) IsComplete(inv *models.Invoice) bool {
	return s.Validate(inv) == nil
}

// GenerateInvoiceNumber derives a number from t as YYYYMMDDHHmm.
func GenerateInvoiceNumber(t time.Time) string {
	return t.Format("200601021504")
}
