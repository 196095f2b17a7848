package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/facio/facio/i18n"
	"github.com/facio/facio/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/phpdave11/gofpdf"
)

// ErrInvalidDocument is returned when the input does not parse as a PDF or
// has no pages.
var ErrInvalidDocument = errors.New("invalid PDF document")

// Stamp geometry in points. The box sits stampRight from the right edge and
// stampTop from the top edge of the first page, whatever the page size.
const (
	stampW     = 140.0
	stampH     = 50.0
	stampPad   = 2.0 // canvas margin so the border stroke is not clipped
	stampRight = 20.0
	stampTop   = 40.0
	stampAlpha = 0.55
	textInset  = 10.0
)

var (
	borderRGB = [3]int{51, 179, 51}   // rgb(0.2, 0.7, 0.2)
	fillRGB   = [3]int{230, 255, 230} // rgb(0.9, 1, 0.9)
	labelRGB  = [3]int{51, 179, 51}
	bodyRGB   = [3]int{26, 128, 26} // rgb(0.1, 0.5, 0.1)
)

func init() {
	// pdfcpu would otherwise create a config dir under the user's home.
	api.DisableConfigDir()
}

func pdfcpuConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// Stamper overlays payment stamps. The zero value is ready to use.
type Stamper struct{}

func NewStamper() *Stamper { return &Stamper{} }

// StampPDF returns a copy of src with a payment stamp on its first page.
// src is never modified.
func (s *Stamper) StampPDF(src []byte, stamp models.PaymentStamp, locale string) ([]byte, error) {
	return StampPDF(src, stamp, locale)
}

// PreviewStamp performs the same transform as StampPDF; callers display
// the result and discard it.
func (s *Stamper) PreviewStamp(src []byte, stamp models.PaymentStamp, locale string) ([]byte, error) {
	return PreviewStamp(src, stamp, locale)
}

func StampPDF(src []byte, stamp models.PaymentStamp, locale string) ([]byte, error) {
	conf := pdfcpuConfig()
	pages, err := api.PageCount(bytes.NewReader(src), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrInvalidDocument)
	}

	canvas, err := DrawStampCanvas(stamp, locale)
	if err != nil {
		return nil, fmt.Errorf("draw stamp: %w", err)
	}
	tmp, err := os.CreateTemp("", "facio-stamp-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("stamp temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(canvas); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("stamp temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("stamp temp file: %w", err)
	}

	desc := fmt.Sprintf("pos:tr, off:%.0f %.0f, sc:1 abs, rot:0, op:1", -(stampRight - stampPad), -(stampTop - stampPad))
	wm, err := api.PDFWatermark(tmp.Name(), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("stamp description: %w", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(src), &out, []string{"1"}, wm, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return out.Bytes(), nil
}

func PreviewStamp(src []byte, stamp models.PaymentStamp, locale string) ([]byte, error) {
	return StampPDF(src, stamp, locale)
}

// StampLines returns the text lines of the stamp in drawing order: the
// PAID label, the date, then method and reference when present.
func StampLines(stamp models.PaymentStamp, locale string) []string {
	lang := i18n.Normalize(locale)
	label := i18n.T(lang, "paid")
	if a := strings.TrimSpace(stamp.Amount); a != "" {
		label += " " + a
	}
	lines := []string{label, i18n.T(lang, "date_label") + " " + stamp.Date.Format("02/01/2006")}
	if m := i18n.PaymentMethod(lang, stamp.Method); m != "" {
		lines = append(lines, i18n.T(lang, "method_label")+" "+m)
	}
	if ref := strings.TrimSpace(stamp.Reference); ref != "" {
		lines = append(lines, i18n.T(lang, "ref_label")+" "+ref)
	}
	return lines
}

// DrawStampCanvas draws the stamp on a page exactly the size of the box
// plus its stroke margin. Only the rectangle is translucent: its alpha is
// set inside a q/Q pair.
func DrawStampCanvas(stamp models.PaymentStamp, locale string) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: stampW + 2*stampPad, Ht: stampH + 2*stampPad},
	})
	pdf.SetCompression(false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.TransformBegin()
	pdf.SetAlpha(stampAlpha, "Normal")
	pdf.SetLineWidth(2)
	pdf.SetDrawColor(borderRGB[0], borderRGB[1], borderRGB[2])
	pdf.SetFillColor(fillRGB[0], fillRGB[1], fillRGB[2])
	pdf.Rect(stampPad, stampPad, stampW, stampH, "FD")
	pdf.TransformEnd()

	lines := StampLines(stamp, locale)
	maxW := stampW - 2*textInset

	// bold label, centred
	pdf.SetTextColor(labelRGB[0], labelRGB[1], labelRGB[2])
	size := 16.0
	pdf.SetFont("Helvetica", "B", size)
	label := tr(lines[0])
	for size > 9 && pdf.GetStringWidth(label) > maxW {
		size--
		pdf.SetFont("Helvetica", "B", size)
	}
	label = fitText(pdf, label, maxW)
	pdf.Text(stampPad+(stampW-pdf.GetStringWidth(label))/2, stampPad+15, label)

	pdf.SetTextColor(bodyRGB[0], bodyRGB[1], bodyRGB[2])
	baseline := stampPad + 27
	for i, l := range lines[1:] {
		fontSize := 10.0
		if i > 0 {
			fontSize = 8
		}
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.Text(stampPad+textInset, baseline, fitText(pdf, tr(l), maxW))
		baseline += fontSize + 1
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitText shortens s until it fits into w at the current font.
func fitText(pdf *gofpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > w {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
