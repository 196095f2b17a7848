package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemKind distinguishes hourly from fixed-price line items.
type ItemKind string

const (
	ItemHourly ItemKind = "hourly"
	ItemFixed  ItemKind = "fixed"
)

// LineItem is one billable row. Hours and Rate apply to hourly items,
// FixedTotal to fixed ones; the other fields are ignored.
type LineItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       ItemKind `json:"type"`
	Hours      float64  `json:"hours,omitempty"`
	Rate       float64  `json:"rate,omitempty"`
	FixedTotal float64  `json:"total,omitempty"`
}

// NewHourlyItem returns an hourly item with a fresh ID.
func NewHourlyItem(name string, hours, rate float64) LineItem {
	return LineItem{ID: uuid.NewString(), Name: name, Kind: ItemHourly, Hours: hours, Rate: rate}
}

// NewFixedItem returns a fixed-price item with a fresh ID.
func NewFixedItem(name string, total float64) LineItem {
	return LineItem{ID: uuid.NewString(), Name: name, Kind: ItemFixed, FixedTotal: total}
}

// IsFixed reports whether the item is billed as a flat amount. Items
// without a kind are treated as hourly.
func (i LineItem) IsFixed() bool { return i.Kind == ItemFixed }

// Total is the line total. Negative inputs contribute zero.
func (i LineItem) Total() float64 {
	if i.IsFixed() {
		return nonNegative(i.FixedTotal)
	}
	return nonNegative(i.Hours) * nonNegative(i.Rate)
}

// IsComplete reports whether the item can be put on an invoice.
func (i LineItem) IsComplete() bool {
	if strings.TrimSpace(i.Name) == "" {
		return false
	}
	if i.IsFixed() {
		return i.FixedTotal > 0
	}
	return i.Hours > 0 && i.Rate > 0
}

// EnsureIDs assigns IDs to items that lack one, keeping order.
func EnsureIDs(items []LineItem) {
	for idx := range items {
		if items[idx].ID == "" {
			items[idx].ID = uuid.NewString()
		}
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Client holds the billing party of an invoice.
type Client struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	PersonalID string `json:"personnumber"`
	Address    string `json:"address"`
}

// Invoice is the in-memory form state of one invoice. Totals are always
// derived, never stored.
type Invoice struct {
	InvoiceNumber    string     `json:"invoiceNumber"`
	Client           Client     `json:"client"`
	Items            []LineItem `json:"services"`
	TaxRate          float64    `json:"taxRate"`
	IncludeTaxRebate bool       `json:"includeSkatterabatt"`
	Comment          string     `json:"comment,omitempty"`
	IssuedAt         time.Time  `json:"issuedAt"`
}

// IssueDate returns IssuedAt, or now when it was never set.
func (inv *Invoice) IssueDate(now func() time.Time) time.Time {
	if !inv.IssuedAt.IsZero() {
		return inv.IssuedAt
	}
	if now == nil {
		now = time.Now
	}
	return now()
}
