package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/facio/facio/internal/preview"
	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const invoiceJSON = `{
  "invoiceNumber": "1001",
  "client": {"name": "Anna Andersson", "email": "anna@example.se", "personnumber": "19900101-1234", "address": "Storgatan 1"},
  "services": [
    {"name": "Städning", "type": "hourly", "hours": 3, "rate": 100},
    {"name": "Flytt", "type": "fixed", "total": 200}
  ],
  "taxRate": 0.25,
  "includeSkatterabatt": true
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"facio"}, args...))
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestTotalsCommand(t *testing.T) {
	path := writeTemp(t, "inv.json", invoiceJSON)
	out, err := run(t, "--storage", "memory", "totals", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Subtotal:")
	assert.Contains(t, out, "$500.00")
	assert.Contains(t, out, "$625.00")
	assert.Contains(t, out, "Skatterabatt:")
	assert.Contains(t, out, "$312.50")

	out, err = run(t, "--storage", "memory", "--lang", "sv", "totals", path)
	require.NoError(t, err)
	assert.Contains(t, out, "625.00 kr")
}

func TestRenderCommand(t *testing.T) {
	path := writeTemp(t, "inv.json", invoiceJSON)
	dst := filepath.Join(t.TempDir(), "out", "invoice.pdf")
	_, err := run(t, "--storage", "memory", "render", "--out", dst, path)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	incomplete := writeTemp(t, "draft.json", `{"services":[]}`)
	_, err = run(t, "--storage", "memory", "render", "--out", dst, incomplete)
	require.Error(t, err)

	previewFile := filepath.Join(t.TempDir(), "preview.pdf")
	_, err = run(t, "--storage", "memory", "render", "--preview", "--out", previewFile, incomplete)
	require.NoError(t, err)
	assert.FileExists(t, previewFile)
}

func samplePDF(t *testing.T, dir, name string) string {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Text(20, 20, name)
	p := filepath.Join(dir, name)
	require.NoError(t, doc.OutputFileAndClose(p))
	return p
}

func TestStampCommands(t *testing.T) {
	dir := t.TempDir()
	src := samplePDF(t, dir, "faktura_Anna_1001.pdf")
	samplePDF(t, dir, "faktura_Bo_1002.pdf")

	dst := filepath.Join(dir, "single.pdf")
	_, err := run(t, "stamp", "--date", "2025-03-07", "--method", "swish", "--out", dst, src)
	require.NoError(t, err)
	assert.FileExists(t, dst)

	_, err = run(t, "stamp", "--date", "07/03/2025", src)
	require.Error(t, err)

	outDir := filepath.Join(t.TempDir(), "stamped")
	out, err := run(t, "stamp-dir", "--out", outDir, "--amount", "375.00 kr", dir)
	require.NoError(t, err)
	// single.pdf is a plain name, so three inputs are stamped
	assert.Contains(t, out, "stamped 3 of 3, 0 failed")
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.Contains(t, e.Name(), "_stamped_")
	}
}

func TestClientsCommands(t *testing.T) {
	data := t.TempDir()
	export := writeTemp(t, "clients.json", `{"version":"1.0","clients":[
	  {"name":"Bo","email":"bo@example.se","personnumber":"P1","address":"Väg 2"},
	  {"name":"","email":"broken","personnumber":"P2","address":"x"}
	]}`)

	out, err := run(t, "--storage", "file", "--data-dir", data, "clients", "import", export)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1, updated 0, rejected 1")

	out, err = run(t, "--storage", "file", "--data-dir", data, "clients", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "bo@example.se")

	out, err = run(t, "--storage", "file", "--data-dir", data, "clients", "export")
	require.NoError(t, err)
	assert.Contains(t, out, `"clientCount": 1`)
}

func TestNextNumberCommand(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"invoice_Anna_1001.pdf", "faktura_Bo_1007.pdf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	out, err := run(t, "next-number", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "1008", strings.TrimSpace(out))

	out, err = run(t, "next-number", "--dir", filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, "1001", strings.TrimSpace(out))
}

func TestWatchInvoiceRendersOnChange(t *testing.T) {
	path := writeTemp(t, "inv.json", invoiceJSON)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seqs []uint64
	renders := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchInvoice(ctx, path, 10*time.Millisecond, 20*time.Millisecond,
			func(context.Context) ([]byte, error) { return []byte("%PDF"), nil },
			func(r preview.Result) {
				mu.Lock()
				seqs = append(seqs, r.Seq)
				mu.Unlock()
				renders <- struct{}{}
			})
	}()

	select {
	case <-renders:
	case <-time.After(2 * time.Second):
		t.Fatal("initial render not delivered")
	}

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	select {
	case <-renders:
	case <-time.After(2 * time.Second):
		t.Fatal("change not rendered")
	}

	cancel()
	require.NoError(t, <-done)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2}, seqs)
}
