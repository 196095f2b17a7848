package pdf

import (
	"fmt"
	"time"

	"github.com/facio/facio/internal/models"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	headingColor = &props.Color{Red: 40, Green: 40, Blue: 40}
	mutedColor   = &props.Color{Red: 100, Green: 100, Blue: 100}
	headerFill   = &props.Color{Red: 240, Green: 240, Blue: 240}
	stripeFill   = &props.Color{Red: 248, Green: 248, Blue: 248}
)

// column spans of the item table, out of 12
var tableCols = [4]int{5, 2, 2, 3}

const (
	lineStep     = 4.5
	tableRowH    = 7.0
	footerRowH   = 6.5
	infoFontSize = 9.0
)

// Renderer draws invoices with maroto. The zero value is ready to use.
type Renderer struct {
	// Now stamps invoices without an issue date; nil means time.Now.
	Now func() time.Time
}

func NewRenderer() *Renderer { return &Renderer{} }

// RenderInvoice lays out and draws inv. It never validates and never
// writes files.
func (r *Renderer) RenderInvoice(inv *models.Invoice, biz models.BusinessConfig, locale string) ([]byte, error) {
	return r.Draw(BuildInvoiceDocument(inv, biz, locale, r.Now))
}

// RenderInvoice is Renderer.RenderInvoice with the default renderer.
func RenderInvoice(inv *models.Invoice, biz models.BusinessConfig, locale string) ([]byte, error) {
	return NewRenderer().RenderInvoice(inv, biz, locale)
}

// Draw turns a resolved document into PDF bytes. Item rows paginate
// automatically.
func (r *Renderer) Draw(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(20).
		WithTopMargin(20).
		WithRightMargin(20).
		Build()

	m := maroto.New(cfg)
	addTitle(m, doc)
	m.AddRow(4, line.NewCol(12))
	addParties(m, doc)
	m.AddRow(4)
	addTable(m, doc)
	addFooter(m, doc)
	if doc.Comment != nil {
		addComment(m, doc.Comment)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return out.GetBytes(), nil
}

func addTitle(m core.Maroto, doc Document) {
	business := make([]core.Component, 0, len(doc.Business)+1)
	business = append(business, text.New(doc.FromTitle, props.Text{
		Size:  infoFontSize,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: headingColor,
	}))
	for i, l := range doc.Business {
		business = append(business, text.New(l, props.Text{
			Size:  infoFontSize,
			Top:   float64(i+1) * lineStep,
			Align: align.Right,
			Color: mutedColor,
		}))
	}
	height := max(24, float64(len(business))*lineStep+2)

	m.AddRow(height,
		col.New(6).Add(
			text.New(doc.Title, props.Text{
				Size:  22,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: headingColor,
			}),
			text.New(doc.NumberLine, props.Text{
				Size:  10,
				Top:   11,
				Align: align.Left,
				Color: mutedColor,
			}),
			text.New(doc.DateLine, props.Text{
				Size:  10,
				Top:   16,
				Align: align.Left,
				Color: mutedColor,
			}),
		),
		col.New(6).Add(business...),
	)
}

func addParties(m core.Maroto, doc Document) {
	client := make([]core.Component, 0, len(doc.Client)+1)
	client = append(client, text.New(doc.BillTo, props.Text{
		Size:  11,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: headingColor,
	}))
	for i, l := range doc.Client {
		client = append(client, text.New(l, props.Text{
			Size:  infoFontSize + 1,
			Top:   6 + float64(i)*(lineStep+0.5),
			Align: align.Left,
		}))
	}
	m.AddRow(8+float64(len(doc.Client))*(lineStep+0.5), col.New(12).Add(client...))
}

func addTable(m core.Maroto, doc Document) {
	header := make([]core.Col, 0, 4)
	for i, label := range doc.Header {
		header = append(header, col.New(tableCols[i]).Add(text.New(label, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Top:   2,
			Left:  cellPad(i),
			Right: cellPad(i),
			Align: cellAlign(i),
			Color: headingColor,
		})))
	}
	m.AddRow(8, header...).WithStyle(&props.Cell{BackgroundColor: headerFill})

	for n, row := range doc.Rows {
		cells := make([]core.Col, 0, 4)
		for i, value := range row {
			cells = append(cells, col.New(tableCols[i]).Add(text.New(value, props.Text{
				Size:  10,
				Top:   1.5,
				Left:  cellPad(i),
				Right: cellPad(i),
				Align: cellAlign(i),
			})))
		}
		r := m.AddRow(tableRowH, cells...)
		if n%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: stripeFill})
		}
	}
	m.AddRow(3, line.NewCol(12))
}

func addFooter(m core.Maroto, doc Document) {
	for _, f := range doc.Footer {
		style := fontstyle.Normal
		if f.Strong {
			style = fontstyle.Bold
		}
		m.AddRow(footerRowH,
			col.New(5),
			col.New(4).Add(text.New(f.Label, props.Text{Size: 10, Style: style, Align: align.Right, Color: headingColor})),
			col.New(3).Add(text.New(f.Value, props.Text{Size: 10, Style: style, Align: align.Right, Right: 2, Color: headingColor})),
		)
	}
}

func addComment(m core.Maroto, p *Paragraph) {
	m.AddRow(8)
	m.AddRow(6, text.NewCol(12, p.Title, props.Text{Size: 10, Style: fontstyle.Bold, Color: mutedColor}))
	m.AddRow(12, text.NewCol(12, p.Text, props.Text{Size: 9, Color: mutedColor}))
}

func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Right
}

func cellPad(i int) float64 {
	if i == 0 || i == 3 {
		return 2
	}
	return 0
}
