package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/goccy/go-json"
)

// load decodes the collection under key. Missing or unreadable blobs yield
// an empty result; only corruption is worth a log line.
func load[T any](ctx context.Context, b Backend, key string) []T {
	data, err := b.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}
	}
	if err != nil {
		log.Printf("[store] read %s failed, using empty list: %v", key, err)
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("[store] %s is corrupt, using empty list: %v", key, err)
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

func save[T any](ctx context.Context, b Backend, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrWrite, key, err)
	}
	if err := b.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, key, err)
	}
	return nil
}

func remove(ctx context.Context, b Backend, key string) error {
	if err := b.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrWrite, key, err)
	}
	return nil
}
