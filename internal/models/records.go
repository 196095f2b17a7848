package models

import "time"

// SavedClient is a remembered client, keyed by PersonalID.
type SavedClient struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PersonalID string    `json:"personnumber"`
	Address    string    `json:"address"`
	LastUsedAt time.Time `json:"lastUsed"`
}

// ClientFrom builds the saved record for an invoice client.
func ClientFrom(c Client, usedAt time.Time) SavedClient {
	return SavedClient{
		ID:         c.PersonalID,
		Name:       c.Name,
		Email:      c.Email,
		PersonalID: c.PersonalID,
		Address:    c.Address,
		LastUsedAt: usedAt,
	}
}

// AsClient converts a saved record back to invoice form data.
func (c SavedClient) AsClient() Client {
	return Client{Name: c.Name, Email: c.Email, PersonalID: c.PersonalID, Address: c.Address}
}

// InvoiceHistoryEntry is the snapshot recorded when an invoice is exported.
type InvoiceHistoryEntry struct {
	ClientName       string     `json:"clientName"`
	InvoiceNumber    string     `json:"invoiceNumber"`
	Date             time.Time  `json:"date"`
	Items            []LineItem `json:"services"`
	TaxRate          float64    `json:"taxRate"`
	IncludeTaxRebate bool       `json:"includeSkatterabatt"`
	Total            float64    `json:"total"`
	ClientEmail      string     `json:"clientEmail,omitempty"`
	ClientPersonalID string     `json:"clientPersonnumber,omitempty"`
	ClientAddress    string     `json:"clientAddress,omitempty"`
}

// PaymentStamp describes a payment to overlay on an existing PDF. Only Date
// is required.
type PaymentStamp struct {
	Date      time.Time `json:"date"`
	Method    string    `json:"method,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Reference string    `json:"reference,omitempty"`
}

// KVEntry backs the SQL record store: one serialized collection per key.
type KVEntry struct {
	Key       string `gorm:"primaryKey;column:kv_key;size:64"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_entries" }
