package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/facio/facio/internal/models"
)

// DefaultMaxClients caps the remembered client list.
const DefaultMaxClients = 50

// ClientStore keeps saved clients keyed by personal/tax ID, most recently
// used first.
type ClientStore struct {
	mu      sync.Mutex
	backend Backend
	max     int
	now     func() time.Time
}

// ClientOption configures a ClientStore.
type ClientOption func(*ClientStore)

// WithMaxClients sets the cap; n <= 0 disables it.
func WithMaxClients(n int) ClientOption {
	return func(s *ClientStore) { s.max = n }
}

// WithClock replaces time.Now for LastUsedAt stamps.
func WithClock(now func() time.Time) ClientOption {
	return func(s *ClientStore) { s.now = now }
}

func NewClientStore(b Backend, opts ...ClientOption) *ClientStore {
	s := &ClientStore{backend: b, max: DefaultMaxClients, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns all clients ordered by LastUsedAt, newest first.
func (s *ClientStore) List(ctx context.Context) []models.SavedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients := load[models.SavedClient](ctx, s.backend, KeyClients)
	sortClients(clients)
	return clients
}

// Get returns the client with the given personal/tax ID.
func (s *ClientStore) Get(ctx context.Context, id string) (models.SavedClient, bool) {
	id = strings.TrimSpace(id)
	for _, c := range s.List(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return models.SavedClient{}, false
}

// Upsert saves c, replacing any record with the same ID. A zero LastUsedAt
// is stamped with the current time.
func (s *ClientStore) Upsert(ctx context.Context, c models.SavedClient) error {
	_, _, err := s.UpsertMany(ctx, []models.SavedClient{c})
	return err
}

// UpsertMany applies several upserts with a single write and reports how
// many records were added and how many replaced.
func (s *ClientStore) UpsertMany(ctx context.Context, in []models.SavedClient) (added, updated int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := load[models.SavedClient](ctx, s.backend, KeyClients)
	index := make(map[string]int, len(clients))
	for i, c := range clients {
		index[c.ID] = i
	}
	for _, c := range in {
		c = normalizeClient(c)
		if c.ID == "" {
			continue
		}
		if c.LastUsedAt.IsZero() {
			c.LastUsedAt = s.now()
		}
		if i, ok := index[c.ID]; ok {
			clients[i] = c
			updated++
			continue
		}
		index[c.ID] = len(clients)
		clients = append(clients, c)
		added++
	}
	sortClients(clients)
	if s.max > 0 && len(clients) > s.max {
		clients = clients[:s.max]
	}
	if err := save(ctx, s.backend, KeyClients, clients); err != nil {
		return 0, 0, err
	}
	return added, updated, nil
}

// RemoveByID deletes the client with the given ID. Unknown IDs are a no-op.
func (s *ClientStore) RemoveByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients := load[models.SavedClient](ctx, s.backend, KeyClients)
	kept := clients[:0]
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(clients) {
		return nil
	}
	sortClients(kept)
	return save(ctx, s.backend, KeyClients, kept)
}

// Clear forgets every saved client.
func (s *ClientStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(ctx, s.backend, KeyClients)
}

func normalizeClient(c models.SavedClient) models.SavedClient {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.PersonalID = strings.TrimSpace(c.PersonalID)
	if c.PersonalID == "" {
		c.PersonalID = strings.TrimSpace(c.ID)
	}
	c.ID = c.PersonalID
	return c
}

func sortClients(clients []models.SavedClient) {
	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].LastUsedAt.After(clients[j].LastUsedAt)
	})
}
