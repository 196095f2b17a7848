package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// ExportVersion is written into every client export document.
const ExportVersion = "1.0"

// ErrInvalidExport means the import payload is not an export document at all.
var ErrInvalidExport = errors.New("not a client export document")

// ClientExport is the client backup file format.
type ClientExport struct {
	ExportDate  time.Time        `json:"exportDate"`
	Version     string           `json:"version"`
	ClientCount int              `json:"clientCount"`
	Clients     []ExportedClient `json:"clients"`
}

type ExportedClient struct {
	Name       string     `json:"name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	PersonalID string     `json:"personnumber" validate:"required"`
	Address    string     `json:"address" validate:"required"`
	LastUsed   *time.Time `json:"lastUsed,omitempty"`
}

// Rejection explains why one entry of an import was skipped.
type Rejection struct {
	Index  int    `json:"index"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Imported int         `json:"imported"`
	Updated  int         `json:"updated"`
	Rejected []Rejection `json:"rejected"`
}

// ClientTransfer exports and imports the saved client list.
type ClientTransfer struct {
	clients  *store.ClientStore
	validate *validator.Validate
	now      func() time.Time
}

func NewClientTransfer(clients *store.ClientStore) *ClientTransfer {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ClientTransfer{clients: clients, validate: v, now: time.Now}
}

// Export snapshots the current client list.
func (t *ClientTransfer) Export(ctx context.Context) ClientExport {
	list := t.clients.List(ctx)
	out := ClientExport{
		ExportDate:  t.now().UTC(),
		Version:     ExportVersion,
		ClientCount: len(list),
		Clients:     make([]ExportedClient, 0, len(list)),
	}
	for _, c := range list {
		used := c.LastUsedAt
		out.Clients = append(out.Clients, ExportedClient{
			Name:       c.Name,
			Email:      c.Email,
			PersonalID: c.PersonalID,
			Address:    c.Address,
			LastUsed:   &used,
		})
	}
	return out
}

// Parse validates an export document entry by entry. Only a payload that
// is not an export document at all is an error.
func (t *ClientTransfer) Parse(data []byte) ([]models.SavedClient, []Rejection, error) {
	var doc struct {
		Clients []json.RawMessage `json:"clients"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if doc.Clients == nil {
		return nil, nil, fmt.Errorf("%w: missing clients array", ErrInvalidExport)
	}

	accepted := make([]models.SavedClient, 0, len(doc.Clients))
	rejected := []Rejection{}
	for i, raw := range doc.Clients {
		var ec ExportedClient
		if err := json.Unmarshal(raw, &ec); err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: "malformed"})
			continue
		}
		ec.Name = strings.TrimSpace(ec.Name)
		ec.Email = strings.TrimSpace(ec.Email)
		ec.PersonalID = strings.TrimSpace(ec.PersonalID)
		ec.Address = strings.TrimSpace(ec.Address)
		if err := t.validate.Struct(ec); err != nil {
			rejected = append(rejected, rejectionFor(i, err))
			continue
		}
		c := models.SavedClient{
			ID:         ec.PersonalID,
			Name:       ec.Name,
			Email:      ec.Email,
			PersonalID: ec.PersonalID,
			Address:    ec.Address,
		}
		if ec.LastUsed != nil {
			c.LastUsedAt = *ec.LastUsed
		}
		accepted = append(accepted, c)
	}
	return accepted, rejected, nil
}

// Import parses data and upserts every valid entry by personal ID.
func (t *ClientTransfer) Import(ctx context.Context, data []byte) (ImportReport, error) {
	accepted, rejected, err := t.Parse(data)
	if err != nil {
		return ImportReport{}, err
	}
	report := ImportReport{Rejected: rejected}
	if len(accepted) == 0 {
		return report, nil
	}
	added, updated, err := t.clients.UpsertMany(ctx, accepted)
	if err != nil {
		return report, err
	}
	report.Imported = added
	report.Updated = updated
	return report, nil
}

func rejectionFor(index int, err error) Rejection {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fe.Tag()
		if reason == "email" {
			reason = "invalid_email"
		}
		return Rejection{Index: index, Field: fe.Field(), Reason: reason}
	}
	return Rejection{Index: index, Reason: err.Error()}
}
