// Package pdf draws the layout models of a bundle with gofpdf: the global chart on the
// first page and one page per category, each page sized to its chart.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/harrisonrobin/gantta/pkg/colors"
	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/render"
)

// pt is the size of one layout pixel at 96 dpi.
const pt = 0.75

const font = "Helvetica"

type Adapter struct{}

func (Adapter) Name() string { return "pdf" }

func (Adapter) Render(ctx context.Context, b *render.Bundle) (*render.Output, error) {
	views := append([]render.View{b.Global}, b.Categories...)

	first := views[0].Model
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           pageSize(first),
	})
	doc.SetCreationDate(b.GeneratedAt)
	doc.SetCatalogSort(true)
	doc.SetTitle(b.Title, true)
	doc.SetCreator("gantta", true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for _, v := range views {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.AddPageFormat("P", pageSize(v.Model))
		draw(doc, tr, v.Model)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return &render.Output{
		Name:      render.FileName(b.Title, "", "pdf"),
		MediaType: render.MediaPDF,
		Data:      buf.Bytes(),
	}, nil
}

func pageSize(m layout.Model) gofpdf.SizeType {
	return gofpdf.SizeType{Wd: m.Width * pt, Ht: m.Height * pt}
}

type align int

const (
	left align = iota
	center
	right
)

type painter struct {
	doc *gofpdf.Fpdf
	tr  func(string) string
}

func draw(doc *gofpdf.Fpdf, tr func(string) string, m layout.Model) {
	p := painter{doc: doc, tr: tr}

	if m.Empty() {
		p.text(layout.Point{X: m.Width / 2, Y: m.Height / 2}, "No data", 14, "", "#999999", center)
		return
	}

	p.text(m.TitleAt, m.Title, 20, "B", "#1f4e79", center)
	p.text(m.SubtitleAt, m.Subtitle, 11, "", "#333333", center)

	for _, g := range m.Grid {
		p.line(g.X, g.Y1, g.X, g.Y2)
		p.text(g.LabelAt, g.Label, 11, "", "#333333", center)
	}

	chartRight := m.Chart.X + m.Chart.W
	for _, r := range m.Rows {
		p.line(m.Chart.X, r.SeparatorY, chartRight, r.SeparatorY)
		if r.CategoryStart {
			p.text(r.CategoryAt, r.CategoryLabel, 11, "B", "#666666", left)
		}
		p.text(r.LabelAt, r.Label, 12, "", "#333333", right)
		p.rect(r.Bar.Rect, r.Color)
		if r.Bar.Label != "" {
			p.text(r.Bar.LabelAt, r.Bar.Label, 10, "", "#ffffff", center)
		}
	}

	for _, e := range m.Legend {
		p.rect(e.Swatch, e.Color)
		p.text(e.LabelAt, e.Label, 11, "", "#333333", left)
	}
}

func (p painter) rect(r layout.Rect, color string) {
	p.fill(color)
	p.doc.Rect(r.X*pt, r.Y*pt, r.W*pt, r.H*pt, "F")
}

func (p painter) line(x1, y1, x2, y2 float64) {
	p.doc.SetDrawColor(0xe0, 0xe0, 0xe0)
	p.doc.SetLineWidth(pt)
	p.doc.Line(x1*pt, y1*pt, x2*pt, y2*pt)
}

func (p painter) text(at layout.Point, s string, size float64, style, color string, a align) {
	if s == "" {
		return
	}
	p.doc.SetFont(font, style, size*pt)
	r, g, b, err := colors.RGB(color)
	if err == nil {
		p.doc.SetTextColor(r, g, b)
	}
	s = p.tr(s)
	x := at.X * pt
	switch a {
	case center:
		x -= p.doc.GetStringWidth(s) / 2
	case right:
		x -= p.doc.GetStringWidth(s)
	}
	p.doc.Text(x, at.Y*pt, s)
}

func (p painter) fill(color string) {
	r, g, b, err := colors.RGB(color)
	if err != nil {
		r, g, b = 0, 0, 0
	}
	p.doc.SetFillColor(r, g, b)
}
