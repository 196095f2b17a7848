package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/facio/facio/internal/models"
	"github.com/hashicorp/go-multierror"
)

// Stamper overlays a payment stamp on a PDF.
type Stamper interface {
	StampPDF(src []byte, stamp models.PaymentStamp, locale string) ([]byte, error)
}

// OutputSink stores a produced file and returns where it went.
type OutputSink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type StampedFile struct {
	Source string `json:"source"`
	Output string `json:"output"`
}

type BatchReport struct {
	Total     int           `json:"total"`
	Stamped   []StampedFile `json:"stamped"`
	Failed    int           `json:"failed"`
	Cancelled bool          `json:"cancelled"`
}

// StampBatch stamps every PDF of a directory, one file at a time.
type StampBatch struct {
	stamper Stamper
	sink    OutputSink
	now     func() time.Time
}

func NewStampBatch(s Stamper, sink OutputSink) *StampBatch {
	return &StampBatch{stamper: s, sink: sink, now: time.Now}
}

// ListPDFs returns the PDFs of dir in name order, skipping earlier stamp
// outputs.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".pdf") || strings.Contains(name, "_stamped_") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

// Run stamps the PDFs in dir. The context is checked before each file, so
// cancellation stops the batch between files. Per-file failures do not stop
// the batch and come back aggregated in the returned error.
func (b *StampBatch) Run(ctx context.Context, dir string, stamp models.PaymentStamp, locale string, progress func(done, total int)) (BatchReport, error) {
	files, err := ListPDFs(dir)
	if err != nil {
		return BatchReport{}, err
	}
	report := BatchReport{Total: len(files), Stamped: []StampedFile{}}
	var result *multierror.Error
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			result = multierror.Append(result, err)
			break
		}
		out, err := b.stampOne(ctx, path, stamp, locale)
		if err != nil {
			report.Failed++
			result = multierror.Append(result, fmt.Errorf("%s: %w", filepath.Base(path), err))
		} else {
			report.Stamped = append(report.Stamped, StampedFile{Source: path, Output: out})
		}
		if progress != nil {
			progress(i+1, len(files))
		}
	}
	return report, result.ErrorOrNil()
}

func (b *StampBatch) stampOne(ctx context.Context, path string, stamp models.PaymentStamp, locale string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out, err := b.stamper.StampPDF(src, stamp, locale)
	if err != nil {
		return "", err
	}
	return b.sink.Save(ctx, StampedFilename(path, b.now()), out)
}
