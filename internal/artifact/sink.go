// Package artifact writes generated PDFs to their destination: a local
// folder or an S3 bucket.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ErrHostBridge marks a failed save. Callers fall back to handing the bytes
// to the user directly.
var ErrHostBridge = errors.New("artifact: save failed")

// Sink persists a named document and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// validName rejects anything that is not a plain file name.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid file name %q", ErrHostBridge, name)
	}
	return nil
}

// DirSink writes into a local directory, creating it when needed.
type DirSink struct {
	Root string
}

func NewDirSink(root string) *DirSink { return &DirSink{Root: root} }

func (d *DirSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(d.Root) == "" {
		return "", fmt.Errorf("%w: no output directory configured", ErrHostBridge)
	}
	if err := validName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHostBridge, err)
	}
	dst := filepath.Join(d.Root, name)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHostBridge, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrHostBridge, err)
	}
	return dst, nil
}

// Fallback tries Primary first and Secondary when it fails.
type Fallback struct {
	Primary   Sink
	Secondary Sink
}

func (f Fallback) Save(ctx context.Context, name string, data []byte) (string, error) {
	if f.Primary == nil {
		return f.saveSecondary(ctx, name, data, nil)
	}
	loc, err := f.Primary.Save(ctx, name, data)
	if err == nil {
		return loc, nil
	}
	log.Printf("[artifact] primary sink failed for %s: %v", name, err)
	return f.saveSecondary(ctx, name, data, err)
}

func (f Fallback) saveSecondary(ctx context.Context, name string, data []byte, prev error) (string, error) {
	if f.Secondary == nil {
		if prev == nil {
			prev = fmt.Errorf("%w: no sink configured", ErrHostBridge)
		}
		return "", prev
	}
	loc, err := f.Secondary.Save(ctx, name, data)
	if err != nil {
		return "", errors.Join(prev, err)
	}
	return loc, nil
}
