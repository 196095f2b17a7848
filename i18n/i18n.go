// Package i18n holds the label tables used by the PDF renderer, the stamp
// overlay and API error messages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const DefaultLang = "en"

// Supported lists the languages with a full table, default first.
var Supported = []string{"en", "sv"}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Swedish})

var translations = map[string]map[string]string{
	"en": {
		// invoice document
		"invoice":         "INVOICE",
		"invoice_number":  "Invoice #",
		"date":            "Date",
		"from":            "From:",
		"bill_to":         "Bill To:",
		"service":         "Service",
		"quantity":        "Hours",
		"rate":            "Rate",
		"amount":          "Amount",
		"subtotal":        "Subtotal:",
		"tax":             "Tax",
		"total":           "Total:",
		"skatterabatt":    "Skatterabatt",
		"fixed_price":     "Fixed price",
		"hour":            "hour",
		"hours":           "hours",
		"not_applicable":  "N/A",
		"tax_id":          "Tax ID:",
		"personal_id":     "Personal ID:",
		"phone":           "Phone:",
		"payment_account": "Payment account:",
		"comment":         "Details",
		"page":            "Page",
		"file_prefix":     "invoice",

		// stamp
		"paid":         "PAID",
		"date_label":   "Date:",
		"method_label": "Method:",
		"ref_label":    "Ref:",
		"amount_label": "Amount:",

		// payment methods
		"method.bank_transfer": "Bank Transfer",
		"method.credit_card":   "Credit Card",
		"method.cash":          "Cash",
		"method.check":         "Check",
		"method.other":         "Other",

		// validation & api errors
		"required":             "Required",
		"invalid_email":        "Invalid email address",
		"must_be_positive":     "Must be greater than zero",
		"must_not_be_negative": "Must not be negative",
		"out_of_range":         "Out of range",
		"too_few":              "At least one entry is required",
		"incomplete_item":      "Line item is incomplete",
		"invalid_document":     "The file is not a readable PDF",
		"storage_write_failed": "Could not save your changes, please retry",
		"not_found":            "Not found",
		"bad_request":          "Bad request",
		"validation_failed":    "Please correct the highlighted fields",
		"invalid_export":       "The file is not a client export",
		"invalid_date":         "Invalid date",
		"internal_error":       "Something went wrong",
	},
	"sv": {
		"invoice":         "FAKTURA",
		"invoice_number":  "Fakturanr ",
		"date":            "Datum",
		"from":            "Från:",
		"bill_to":         "Faktureras till:",
		"service":         "Tjänst",
		"quantity":        "Timmar",
		"rate":            "Timpris",
		"amount":          "Belopp",
		"subtotal":        "Delsumma:",
		"tax":             "Moms",
		"total":           "Summa:",
		"skatterabatt":    "Skatterabatt",
		"fixed_price":     "Fast pris",
		"hour":            "timme",
		"hours":           "timmar",
		"not_applicable":  "Ej tillämpligt",
		"tax_id":          "Momsreg.nr:",
		"personal_id":     "Personnummer:",
		"phone":           "Telefon:",
		"payment_account": "Plusgiro:",
		"comment":         "Anmärkning",
		"page":            "Sida",
		"file_prefix":     "faktura",

		"paid":         "BETALD",
		"date_label":   "Datum:",
		"method_label": "Metod:",
		"ref_label":    "Ref:",
		"amount_label": "Belopp:",

		"method.bank_transfer": "Banköverföring",
		"method.credit_card":   "Kreditkort",
		"method.cash":          "Kontanter",
		"method.check":         "Check",
		"method.other":         "Annat",

		"required":             "Obligatoriskt",
		"invalid_email":        "Ogiltig e-postadress",
		"must_be_positive":     "Måste vara större än noll",
		"must_not_be_negative": "Får inte vara negativt",
		"out_of_range":         "Utanför tillåtet intervall",
		"too_few":              "Minst en rad krävs",
		"incomplete_item":      "Raden är inte komplett",
		"invalid_document":     "Filen är inte en läsbar PDF",
		"storage_write_failed": "Kunde inte spara ändringarna, försök igen",
		"not_found":            "Hittades inte",
		"bad_request":          "Felaktig förfrågan",
		"validation_failed":    "Rätta de markerade fälten",
		"invalid_export":       "Filen är ingen kundexport",
		"invalid_date":         "Ogiltigt datum",
		"internal_error":       "Något gick fel",
	},
}

// T returns the translation for code in lang; unknown languages use the
// default table and unknown codes are returned verbatim.
func T(lang, code string) string {
	if m, ok := translations[Normalize(lang)]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations[DefaultLang][code]; ok {
		return s
	}
	return code
}

// PaymentMethod maps a method id (bank_transfer, credit_card, ...) to its
// display label. Ids without a translation are returned as given.
func PaymentMethod(lang, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	key := "method." + strings.ToLower(id)
	if s := T(lang, key); s != key {
		return s
	}
	return id
}

// Normalize reduces a locale like "sv-SE" to a supported base language,
// else the default.
func Normalize(lang string) string {
	base := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	for _, s := range Supported {
		if s == base {
			return s
		}
	}
	return DefaultLang
}

// DetectLanguage picks the best supported language for an Accept-Language
// header value.
func DetectLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return Supported[idx]
}
