// Package store persists the client list, invoice history and settings as
// one serialized blob per key on an interchangeable backend.
package store

import (
	"context"
	"errors"
	"sync"
)

// Keys of the persisted collections.
const (
	KeyClients        = "clients"
	KeyInvoiceHistory = "invoiceHistory"
	KeyBusinessConfig = "businessConfig"
)

var (
	// ErrNotFound is returned by a Backend when nothing is stored under a key.
	ErrNotFound = errors.New("store: key not found")
	// ErrWrite wraps every failed write. Callers keep their in-memory state
	// and may retry.
	ErrWrite = errors.New("store: write failed")
)

// Backend stores opaque blobs by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Backend, used by tests and as a scratch store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
