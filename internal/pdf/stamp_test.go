package pdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/facio/facio/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/phpdave11/gofpdf"
)

func samplePDF(t *testing.T, orientation, size string, pages int) []byte {
	t.Helper()
	doc := gofpdf.New(orientation, "mm", size, "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Text(20, 20, "Invoice page")
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("sample pdf: %v", err)
	}
	return buf.Bytes()
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(data), pdfcpuConfig())
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	return n
}

var paidOn = time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

func TestStampPDF_AddsContentKeepsPages(t *testing.T) {
	tests := []struct {
		name        string
		orientation string
		size        string
		pages       int
	}{
		{"a4 single", "P", "A4", 1},
		{"letter multi", "P", "Letter", 3},
		{"a5 landscape", "L", "A5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := samplePDF(t, tt.orientation, tt.size, tt.pages)
			orig := append([]byte(nil), src...)

			out, err := StampPDF(src, models.PaymentStamp{Date: paidOn, Method: "bank_transfer", Reference: "OCR 4711"}, "sv")
			if err != nil {
				t.Fatalf("stamp: %v", err)
			}
			if got := pageCount(t, out); got != tt.pages {
				t.Fatalf("page count %d, want %d", got, tt.pages)
			}
			if len(out) <= len(src) {
				t.Fatalf("stamped output not larger: %d <= %d", len(out), len(src))
			}
			if !bytes.Equal(src, orig) {
				t.Fatalf("input was modified")
			}
		})
	}
}

func TestStampPDF_InvalidDocument(t *testing.T) {
	for name, in := range map[string][]byte{
		"garbage":   []byte("this is not a pdf"),
		"empty":     nil,
		"truncated": samplePDF(t, "P", "A4", 1)[:40],
	} {
		t.Run(name, func(t *testing.T) {
			out, err := StampPDF(in, models.PaymentStamp{Date: paidOn}, "en")
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
			if out != nil {
				t.Fatalf("no output expected on failure")
			}
		})
	}
}

func TestPreviewStampMatchesStamp(t *testing.T) {
	src := samplePDF(t, "P", "A4", 1)
	s := NewStamper()
	out, err := s.PreviewStamp(src, models.PaymentStamp{Date: paidOn}, "en")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if pageCount(t, out) != 1 || len(out) <= len(src) {
		t.Fatalf("preview differs from stamp contract")
	}
}

func TestStampLines(t *testing.T) {
	tests := []struct {
		name  string
		stamp models.PaymentStamp
		lang  string
		want  []string
	}{
		{"date only", models.PaymentStamp{Date: paidOn}, "en", []string{"PAID", "Date: 07/03/2025"}},
		{"all fields sv", models.PaymentStamp{Date: paidOn, Method: "bank_transfer", Reference: "OCR 4711", Amount: "375 kr"}, "sv",
			[]string{"BETALD 375 kr", "Datum: 07/03/2025", "Metod: Banköverföring", "Ref: OCR 4711"}},
		{"unknown method verbatim", models.PaymentStamp{Date: paidOn, Method: "Swish"}, "en", []string{"PAID", "Date: 07/03/2025", "Method: Swish"}},
		{"blank reference skipped", models.PaymentStamp{Date: paidOn, Reference: "  "}, "en", []string{"PAID", "Date: 07/03/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StampLines(tt.stamp, tt.lang)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDrawStampCanvas_OnlyRectangleTranslucent(t *testing.T) {
	canvas, err := DrawStampCanvas(models.PaymentStamp{Date: paidOn, Method: "cash"}, "en")
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	s := string(canvas)
	gs := strings.Index(s, " gs")
	rect := strings.Index(s, " re")
	text := strings.Index(s, "BT ")
	if gs < 0 || rect < 0 || text < 0 {
		t.Fatalf("missing operators gs=%d re=%d BT=%d", gs, rect, text)
	}
	if !(gs < rect && rect < text) {
		t.Fatalf("unexpected operator order gs=%d re=%d BT=%d", gs, rect, text)
	}
	if !strings.Contains(s[:gs], "q\n") {
		t.Fatalf("alpha not inside a saved graphics state")
	}
	if !strings.Contains(s[rect:text], "Q\n") {
		t.Fatalf("graphics state not restored before text")
	}
	if !strings.Contains(s, "(PAID)") {
		t.Fatalf("label not drawn")
	}
}
