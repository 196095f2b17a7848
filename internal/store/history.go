package store

import (
	"context"
	"strings"
	"sync"

	"github.com/facio/facio/internal/models"
)

// DefaultMaxHistory caps the invoice history.
const DefaultMaxHistory = 100

// HistoryStore is the append-only invoice history, newest first.
type HistoryStore struct {
	mu      sync.Mutex
	backend Backend
	max     int
}

func NewHistoryStore(b Backend, max int) *HistoryStore {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &HistoryStore{backend: b, max: max}
}

// Record inserts e at the head and evicts the oldest entries past the cap.
func (s *HistoryStore) Record(ctx context.Context, e models.InvoiceHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := load[models.InvoiceHistoryEntry](ctx, s.backend, KeyInvoiceHistory)
	history = append([]models.InvoiceHistoryEntry{e}, history...)
	if len(history) > s.max {
		history = history[:s.max]
	}
	return save(ctx, s.backend, KeyInvoiceHistory, history)
}

func (s *HistoryStore) List(ctx context.Context) []models.InvoiceHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[models.InvoiceHistoryEntry](ctx, s.backend, KeyInvoiceHistory)
}

// LastForClient returns the most recent entry whose client name matches
// name, ignoring case and surrounding spaces.
func (s *HistoryStore) LastForClient(ctx context.Context, name string) (models.InvoiceHistoryEntry, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.InvoiceHistoryEntry{}, false
	}
	for _, e := range s.List(ctx) {
		if strings.EqualFold(strings.TrimSpace(e.ClientName), name) {
			return e, true
		}
	}
	return models.InvoiceHistoryEntry{}, false
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(ctx, s.backend, KeyInvoiceHistory)
}
