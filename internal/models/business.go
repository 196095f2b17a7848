package models

// DefaultRebateShare is the fraction of the total shown as the
// skatterabatt line.
const DefaultRebateShare = 0.5

// BusinessConfig is the issuing business as printed on every invoice, plus
// local output preferences.
type BusinessConfig struct {
	BusinessName         string   `json:"businessName"`
	Email                string   `json:"businessEmail"`
	TaxID                string   `json:"businessMomsregnr"`
	Phone                string   `json:"businessPhone"`
	PaymentAccount       string   `json:"businessPlusgiro"`
	InvoiceSaveDir       string   `json:"invoiceSavePath,omitempty"`
	StampedSaveDir       string   `json:"stampedInvoiceSavePath,omitempty"`
	AutoInvoiceNumbering bool     `json:"useAutoInvoiceNumber,omitempty"`
	RebateShare          *float64 `json:"rebateShare,omitempty"`
}

// DefaultBusinessConfig returns the settings used before anything was saved.
func DefaultBusinessConfig() BusinessConfig {
	return BusinessConfig{
		BusinessName:   "Facio AB",
		Email:          "info@facio.se",
		TaxID:          "SE556789012301",
		Phone:          "+46 8 123 456 78",
		PaymentAccount: "123456-7",
	}
}

// Rebate returns the configured rebate share, or the default.
func (b BusinessConfig) Rebate() float64 {
	if b.RebateShare == nil || *b.RebateShare <= 0 || *b.RebateShare > 1 {
		return DefaultRebateShare
	}
	return *b.RebateShare
}
