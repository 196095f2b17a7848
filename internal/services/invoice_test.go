package services

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/facio/facio/internal/models"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 0.005 }

func TestComputeTotals_Example(t *testing.T) {
	items := []models.LineItem{{Name: "Städning", Kind: models.ItemHourly, Hours: 3, Rate: 100}}
	got := ComputeTotals(items, 0.25, true)
	if got.Subtotal != 300 || got.Tax != 75 || got.Total != 375 {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got.Rebate == nil || *got.Rebate != 187.5 {
		t.Fatalf("expected rebate 187.5, got %v", got.Rebate)
	}
}

func TestComputeTotals_Properties(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.LineItem
		taxRate float64
	}{
		{"single hourly", []models.LineItem{{Kind: models.ItemHourly, Hours: 2.5, Rate: 99.9}}, 0.25},
		{"mixed", []models.LineItem{
			{Kind: models.ItemHourly, Hours: 1, Rate: 450},
			{Kind: models.ItemFixed, FixedTotal: 1234.56},
		}, 0.12},
		{"zero tax", []models.LineItem{{Kind: models.ItemFixed, FixedTotal: 10}}, 0},
		{"full tax", []models.LineItem{{Kind: models.ItemFixed, FixedTotal: 10}}, 1},
		{"incomplete rows", []models.LineItem{
			{Kind: models.ItemHourly, Hours: 0, Rate: 100},
			{Kind: models.ItemFixed},
			{Kind: models.ItemHourly, Hours: 4, Rate: 10},
		}, 0.06},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			without := ComputeTotals(tt.items, tt.taxRate, false)
			with := ComputeTotals(tt.items, tt.taxRate, true)
			if !approx(without.Total, without.Subtotal+without.Tax) {
				t.Errorf("total %f != subtotal+tax", without.Total)
			}
			if !approx(without.Tax, without.Subtotal*tt.taxRate) {
				t.Errorf("tax %f != subtotal*rate", without.Tax)
			}
			if without.Rebate != nil {
				t.Errorf("rebate present without flag")
			}
			if with.Subtotal != without.Subtotal || with.Tax != without.Tax || with.Total != without.Total {
				t.Errorf("rebate flag changed totals: %+v vs %+v", with, without)
			}
			if with.Rebate == nil || !approx(*with.Rebate, with.Total/2) {
				t.Errorf("rebate should be half of total")
			}
		})
	}
}

func TestComputeTotals_ZeroContribution(t *testing.T) {
	items := []models.LineItem{
		{Name: "a", Kind: models.ItemHourly, Hours: 0, Rate: 100},
		{Name: "b", Kind: models.ItemHourly, Hours: 5, Rate: 0},
		{Name: "c", Kind: models.ItemFixed, FixedTotal: 0},
	}
	if got := ComputeTotals(items, 0.25, false); got.Subtotal != 0 {
		t.Fatalf("expected zero subtotal, got %f", got.Subtotal)
	}
	for _, it := range items {
		if it.IsComplete() {
			t.Fatalf("%s should be incomplete", it.Name)
		}
	}
}

func TestInvoiceService_RebateShare(t *testing.T) {
	inv := &models.Invoice{
		Items:            []models.LineItem{{Kind: models.ItemFixed, FixedTotal: 100}},
		IncludeTaxRebate: true,
	}
	got := NewInvoiceService(0.3).ComputeTotals(inv)
	if got.Rebate == nil || !approx(*got.Rebate, 30) {
		t.Fatalf("expected 30, got %v", got.Rebate)
	}
	if s := NewInvoiceService(0).RebateShare(); s != models.DefaultRebateShare {
		t.Fatalf("expected default share, got %f", s)
	}
}

func validInvoice() *models.Invoice {
	return &models.Invoice{
		InvoiceNumber: "1001",
		Client: models.Client{
			Name:       "Anna Andersson",
			Email:      "anna@example.se",
			PersonalID: "19900101-1234",
			Address:    "Storgatan 1, Stockholm",
		},
		Items:   []models.LineItem{models.NewHourlyItem("Städning", 3, 100)},
		TaxRate: 0.25,
	}
}

func TestValidate(t *testing.T) {
	svc := NewInvoiceService(0)
	if err := svc.Validate(validInvoice()); err != nil {
		t.Fatalf("valid invoice rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*models.Invoice)
		field  string
		code   string
	}{
		{"missing number", func(i *models.Invoice) { i.InvoiceNumber = " " }, "invoice_number", "required"},
		{"bad email", func(i *models.Invoice) { i.Client.Email = "anna" }, "client.email", "invalid_email"},
		{"missing address", func(i *models.Invoice) { i.Client.Address = "" }, "client.address", "required"},
		{"missing personal id", func(i *models.Invoice) { i.Client.PersonalID = "" }, "client.personal_id", "required"},
		{"tax out of range", func(i *models.Invoice) { i.TaxRate = 1.25 }, "tax_rate", "out_of_range"},
		{"no items", func(i *models.Invoice) { i.Items = nil }, "items", "too_few"},
		{"incomplete item", func(i *models.Invoice) { i.Items[0].Hours = 0 }, "items[0]", "incomplete_item"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)
			err := svc.Validate(inv)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Violations[tt.field] != tt.code {
				t.Fatalf("%s: got %q want %q (all: %v)", tt.field, verr.Violations[tt.field], tt.code, verr.Violations)
			}
			if svc.IsComplete(inv) {
				t.Fatalf("IsComplete should be false")
			}
		})
	}
}

func TestGenerateInvoiceNumber(t *testing.T) {
	ts := time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)
	if got := GenerateInvoiceNumber(ts); got != "202503070905" {
		t.Fatalf("got %s", got)
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	dir := t.TempDir()
	got, err := NextInvoiceNumber(dir)
	if err != nil || got != FirstInvoiceNumber {
		t.Fatalf("empty dir: got %d, %v", got, err)
	}
	for _, name := range []string{"faktura_anna_1001.pdf", "invoice_bo_1007.PDF", "notes_2000.txt", "scan.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "old_9999.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err = NextInvoiceNumber(dir)
	if err != nil || got != 1008 {
		t.Fatalf("got %d, %v", got, err)
	}
	zeros := t.TempDir()
	if err := os.WriteFile(filepath.Join(zeros, "invoice_client_0.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := NextInvoiceNumber(zeros); err != nil || got != FirstInvoiceNumber {
		t.Fatalf("zero-numbered folder: got %d, %v", got, err)
	}
	if _, err := NextInvoiceNumber(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		lang, client, number, want string
	}{
		{"sv", "Anna Andersson", "1001", "faktura_Anna_Andersson_1001.pdf"},
		{"en", "Ström & Co. AB", "202503070905", "invoice_Ström_Co_AB_202503070905.pdf"},
		{"en", "  ", "", "invoice_client_0.pdf"},
		{"en", "../../etc", "1/2", "invoice_etc_1_2.pdf"},
	}
	for _, tt := range tests {
		if got := InvoiceFilename(tt.lang, tt.client, tt.number); got != tt.want {
			t.Errorf("InvoiceFilename(%q,%q,%q) = %q, want %q", tt.lang, tt.client, tt.number, got, tt.want)
		}
	}

	at := time.UnixMilli(1735689600123)
	if got := StampedFilename("/tmp/in/faktura_anna_1001.pdf", at); got != "faktura_anna_1001_stamped_1735689600123.pdf" {
		t.Errorf("StampedFilename = %q", got)
	}
	if got := StampedFilename("", at); got != "document_stamped_1735689600123.pdf" {
		t.Errorf("StampedFilename empty = %q", got)
	}
}
