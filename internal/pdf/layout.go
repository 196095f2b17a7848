// Package pdf renders invoices and overlays payment stamps on existing
// documents.
package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/facio/facio/i18n"
	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/services"
)

// Placeholder replaces empty values so the layout never shows a gap.
const Placeholder = "-"

// Document is the fully resolved content of an invoice page: every label
// translated, every amount formatted. The maroto renderer only draws it.
type Document struct {
	Locale     string
	Title      string
	NumberLine string
	DateLine   string
	FromTitle  string
	Business   []string
	BillTo     string
	Client     []string
	Header     [4]string
	Rows       [][4]string
	Footer     []FooterRow
	Comment    *Paragraph
	Totals     services.Totals
}

type FooterRow struct {
	Label  string
	Value  string
	Strong bool
}

type Paragraph struct {
	Title string
	Text  string
}

// BuildInvoiceDocument lays out inv for locale. It does not validate: empty
// strings become Placeholder. now is used when the invoice has no issue
// date; nil means time.Now.
func BuildInvoiceDocument(inv *models.Invoice, biz models.BusinessConfig, locale string, now func() time.Time) Document {
	lang := i18n.Normalize(locale)
	t := func(code string) string { return i18n.T(lang, code) }
	totals := services.NewInvoiceService(biz.Rebate()).ComputeTotals(inv)

	doc := Document{
		Locale:     lang,
		Title:      t("invoice"),
		NumberLine: t("invoice_number") + orPlaceholder(inv.InvoiceNumber),
		DateLine:   t("date") + ": " + inv.IssueDate(now).Format("02/01/2006"),
		FromTitle:  t("from"),
		Business: []string{
			orPlaceholder(biz.BusinessName),
			orPlaceholder(biz.Email),
			t("tax_id") + " " + orPlaceholder(biz.TaxID),
			t("phone") + " " + orPlaceholder(biz.Phone),
			t("payment_account") + " " + orPlaceholder(biz.PaymentAccount),
		},
		BillTo: t("bill_to"),
		Client: []string{
			orPlaceholder(inv.Client.Name),
			t("personal_id") + " " + orPlaceholder(inv.Client.PersonalID),
			orPlaceholder(inv.Client.Email),
			orPlaceholder(inv.Client.Address),
		},
		Header: [4]string{t("service"), t("quantity"), t("rate"), t("amount")},
		Totals: totals,
	}

	for _, item := range inv.Items {
		doc.Rows = append(doc.Rows, itemRow(item, lang))
	}

	doc.Footer = []FooterRow{
		{Label: t("subtotal"), Value: FormatMoney(totals.Subtotal, lang)},
		{Label: fmt.Sprintf("%s (%s):", t("tax"), FormatPercent(inv.TaxRate)), Value: FormatMoney(totals.Tax, lang)},
		{Label: t("total"), Value: FormatMoney(totals.Total, lang), Strong: true},
	}
	if totals.Rebate != nil {
		doc.Footer = append(doc.Footer, FooterRow{Label: t("skatterabatt") + ":", Value: FormatMoney(*totals.Rebate, lang)})
	}

	if c := strings.TrimSpace(inv.Comment); c != "" {
		doc.Comment = &Paragraph{Title: t("comment"), Text: c}
	}
	return doc
}

func itemRow(item models.LineItem, lang string) [4]string {
	name := orPlaceholder(item.Name)
	if item.IsFixed() {
		return [4]string{
			name,
			i18n.T(lang, "fixed_price"),
			i18n.T(lang, "not_applicable"),
			FormatMoney(item.Total(), lang),
		}
	}
	return [4]string{
		name,
		FormatHours(item.Hours, lang),
		FormatMoney(item.Rate, lang),
		FormatMoney(item.Total(), lang),
	}
}

// FormatHours prints "1 hour" or "N hours" in lang.
func FormatHours(h float64, lang string) string {
	unit := i18n.T(lang, "hours")
	if h == 1 {
		unit = i18n.T(lang, "hour")
	}
	return formatNumber(h) + " " + unit
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
