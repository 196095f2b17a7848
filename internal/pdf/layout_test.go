package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/facio/facio/internal/models"
)

var issued = time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		InvoiceNumber: "1001",
		Client: models.Client{
			Name:       "Anna Andersson",
			Email:      "anna@example.se",
			PersonalID: "19900101-1234",
			Address:    "Storgatan 1, Stockholm",
		},
		Items: []models.LineItem{
			{ID: "a", Name: "Städning", Kind: models.ItemHourly, Hours: 3, Rate: 100},
			{ID: "b", Name: "Fönsterputs", Kind: models.ItemHourly, Hours: 1, Rate: 250},
			{ID: "c", Name: "Flytt", Kind: models.ItemFixed, FixedTotal: 1200},
		},
		TaxRate:          0.25,
		IncludeTaxRebate: true,
		IssuedAt:         issued,
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		v    float64
		lang string
		want string
	}{
		{375, "en", "$375.00"},
		{375, "sv", "375.00 kr"},
		{187.5, "sv-SE", "187.50 kr"},
		{0.125, "en", "$0.13"},
		{1234.567, "en", "$1234.57"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.v, tt.lang); got != tt.want {
			t.Errorf("FormatMoney(%v,%s) = %q, want %q", tt.v, tt.lang, got, tt.want)
		}
	}
	if Round2(2.675) != 2.68 {
		t.Errorf("Round2(2.675) = %v", Round2(2.675))
	}
	if FormatPercent(0.25) != "25%" || FormatPercent(0.125) != "12.5%" {
		t.Errorf("FormatPercent: %s %s", FormatPercent(0.25), FormatPercent(0.125))
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		h          float64
		lang, want string
	}{
		{3, "en", "3 hours"},
		{1, "en", "1 hour"},
		{2.5, "en", "2.5 hours"},
		{3, "sv", "3 timmar"},
		{1, "sv", "1 timme"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.h, tt.lang); got != tt.want {
			t.Errorf("FormatHours(%v,%s) = %q, want %q", tt.h, tt.lang, got, tt.want)
		}
	}
}

func TestBuildInvoiceDocument_English(t *testing.T) {
	doc := BuildInvoiceDocument(sampleInvoice(), models.DefaultBusinessConfig(), "en", nil)
	if doc.Title != "INVOICE" || doc.NumberLine != "Invoice #1001" || doc.DateLine != "Date: 07/03/2025" {
		t.Fatalf("title block %q %q %q", doc.Title, doc.NumberLine, doc.DateLine)
	}
	if doc.Business[0] != "Facio AB" || doc.Business[2] != "Tax ID: SE556789012301" {
		t.Fatalf("business block %v", doc.Business)
	}
	if doc.Client[1] != "Personal ID: 19900101-1234" {
		t.Fatalf("client block %v", doc.Client)
	}
	wantRows := [][4]string{
		{"Städning", "3 hours", "$100.00", "$300.00"},
		{"Fönsterputs", "1 hour", "$250.00", "$250.00"},
		{"Flytt", "Fixed price", "N/A", "$1200.00"},
	}
	for i, want := range wantRows {
		if doc.Rows[i] != want {
			t.Errorf("row %d = %v, want %v", i, doc.Rows[i], want)
		}
	}
	wantFooter := []FooterRow{
		{Label: "Subtotal:", Value: "$1750.00"},
		{Label: "Tax (25%):", Value: "$437.50"},
		{Label: "Total:", Value: "$2187.50", Strong: true},
		{Label: "Skatterabatt:", Value: "$1093.75"},
	}
	if len(doc.Footer) != len(wantFooter) {
		t.Fatalf("footer %v", doc.Footer)
	}
	for i := range wantFooter {
		if doc.Footer[i] != wantFooter[i] {
			t.Errorf("footer %d = %+v, want %+v", i, doc.Footer[i], wantFooter[i])
		}
	}
}

func TestBuildInvoiceDocument_LocaleSwitch(t *testing.T) {
	inv := sampleInvoice()
	biz := models.DefaultBusinessConfig()
	en := BuildInvoiceDocument(inv, biz, "en", nil)
	sv := BuildInvoiceDocument(inv, biz, "sv", nil)

	if en.Totals.Total != sv.Totals.Total {
		t.Fatalf("total changed with locale: %v vs %v", en.Totals.Total, sv.Totals.Total)
	}
	if sv.Title != "FAKTURA" || sv.BillTo != "Faktureras till:" || sv.Header[0] != "Tjänst" {
		t.Fatalf("swedish labels missing: %q %q %q", sv.Title, sv.BillTo, sv.Header[0])
	}
	if sv.Rows[0][1] != "3 timmar" || sv.Rows[2][1] != "Fast pris" {
		t.Fatalf("swedish quantity labels %v", sv.Rows)
	}
	if sv.Footer[2].Value != "2187.50 kr" || sv.Footer[1].Label != "Moms (25%):" {
		t.Fatalf("swedish footer %+v", sv.Footer)
	}
	// no english label may leak into the swedish document
	english := map[string]bool{}
	for _, s := range append(append([]string{en.Title, en.BillTo, en.FromTitle}, en.Header[:]...), en.Rows[2][1], en.Rows[2][2]) {
		english[s] = true
	}
	for _, s := range append(append([]string{sv.Title, sv.BillTo, sv.FromTitle}, sv.Header[:]...), sv.Rows[2][1], sv.Rows[2][2]) {
		if english[s] {
			t.Errorf("label %q not translated", s)
		}
	}
	for _, f := range sv.Footer {
		if strings.Contains(f.Value, "$") {
			t.Errorf("dollar sign in swedish footer: %q", f.Value)
		}
	}
}

func TestBuildInvoiceDocument_Placeholders(t *testing.T) {
	inv := &models.Invoice{Items: []models.LineItem{{Kind: models.ItemHourly}}}
	biz := models.BusinessConfig{}
	doc := BuildInvoiceDocument(inv, biz, "en", func() time.Time { return issued })
	if doc.NumberLine != "Invoice #-" {
		t.Fatalf("number placeholder %q", doc.NumberLine)
	}
	if doc.Client[0] != Placeholder || doc.Business[0] != Placeholder || doc.Rows[0][0] != Placeholder {
		t.Fatalf("placeholders missing: %v %v %v", doc.Client, doc.Business, doc.Rows)
	}
	if doc.DateLine != "Date: 07/03/2025" {
		t.Fatalf("date fallback %q", doc.DateLine)
	}
	if len(doc.Footer) != 3 {
		t.Fatalf("rebate row without flag: %+v", doc.Footer)
	}
	if doc.Comment != nil {
		t.Fatalf("empty comment rendered")
	}
}

func TestBuildInvoiceDocument_RebateShare(t *testing.T) {
	share := 0.3
	biz := models.DefaultBusinessConfig()
	biz.RebateShare = &share
	inv := sampleInvoice()
	inv.Comment = "Tack för uppdraget"
	doc := BuildInvoiceDocument(inv, biz, "sv", nil)
	if got := doc.Footer[3].Value; got != "656.25 kr" {
		t.Fatalf("rebate row %q", got)
	}
	if doc.Comment == nil || doc.Comment.Title != "Anmärkning" {
		t.Fatalf("comment %+v", doc.Comment)
	}
}
