// Package svg draws a layout model as SVG markup.
package svg

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/render"
)

const style = `<defs>
<style>
.title { font: bold 20px sans-serif; fill: #1f4e79; }
.axis-label { font: 11px sans-serif; fill: #333; }
.task-label { font: 12px sans-serif; fill: #333; }
.category-label { font: bold 11px sans-serif; fill: #666; }
.grid-line { stroke: #e0e0e0; stroke-width: 1; }
.bar { rx: 4; ry: 4; }
.bar-text { font: 10px sans-serif; fill: white; }
.legend-text { font: 11px sans-serif; fill: #333; }
.empty { font: 14px sans-serif; fill: #999; }
</style>
</defs>`

// NoData is printed in place of the chart when there are no tasks.
const NoData = "No data"

// Adapter renders one view of a bundle. The zero value renders the global chart.
type Adapter struct {
	Category string
}

// ForCategory renders the chart of a single category.
func ForCategory(category string) Adapter {
	return Adapter{Category: category}
}

func (a Adapter) Name() string {
	if a.Category == "" {
		return "svg"
	}
	return "svg:" + a.Category
}

func (a Adapter) Render(_ context.Context, b *render.Bundle) (*render.Output, error) {
	v, ok := b.View(a.Category)
	if !ok {
		return nil, fmt.Errorf("svg: unknown category %q", a.Category)
	}
	return &render.Output{
		Name:      render.FileName(b.Title, a.Category, "svg"),
		MediaType: render.MediaSVG,
		Data:      []byte(Markup(v.Model)),
	}, nil
}

// Markup returns the SVG document of m. Every piece of user text is escaped.
func Markup(m layout.Model) string {
	var w writer
	w.printf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`,
		num(m.Width), num(m.Height), num(m.Width), num(m.Height))
	w.line(style)
	w.printf(`<rect width="%s" height="%s" fill="white"/>`, num(m.Width), num(m.Height))

	if m.Empty() {
		w.printf(`<text x="%s" y="%s" text-anchor="middle" class="empty">%s</text>`,
			num(m.Width/2), num(m.Height/2), esc(NoData))
		w.line("</svg>")
		return w.String()
	}

	w.printf(`<text x="%s" y="%s" text-anchor="middle" class="title">%s</text>`,
		num(m.TitleAt.X), num(m.TitleAt.Y), esc(m.Title))
	w.printf(`<text x="%s" y="%s" text-anchor="middle" class="axis-label">%s</text>`,
		num(m.SubtitleAt.X), num(m.SubtitleAt.Y), esc(m.Subtitle))

	for _, g := range m.Grid {
		w.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" class="grid-line"/>`,
			num(g.X), num(g.Y1), num(g.X), num(g.Y2))
		w.printf(`<text x="%s" y="%s" text-anchor="middle" class="axis-label">%s</text>`,
			num(g.LabelAt.X), num(g.LabelAt.Y), esc(g.Label))
	}

	right := m.Chart.X + m.Chart.W
	for _, r := range m.Rows {
		w.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" class="grid-line"/>`,
			num(m.Chart.X), num(r.SeparatorY), num(right), num(r.SeparatorY))
		if r.CategoryStart {
			w.printf(`<text x="%s" y="%s" class="category-label">%s</text>`,
				num(r.CategoryAt.X), num(r.CategoryAt.Y), esc(r.CategoryLabel))
		}
		w.printf(`<text x="%s" y="%s" text-anchor="end" class="task-label">%s</text>`,
			num(r.LabelAt.X), num(r.LabelAt.Y), esc(r.Label))
		w.printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" class="bar">`,
			num(r.Bar.X), num(r.Bar.Y), num(r.Bar.W), num(r.Bar.H), esc(r.Color))
		w.printf(`<title>%s</title>`, esc(r.Tooltip))
		w.line(`</rect>`)
		if r.Bar.Label != "" {
			w.printf(`<text x="%s" y="%s" text-anchor="middle" class="bar-text">%s</text>`,
				num(r.Bar.LabelAt.X), num(r.Bar.LabelAt.Y), esc(r.Bar.Label))
		}
	}

	for _, e := range m.Legend {
		w.printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" rx="2"/>`,
			num(e.Swatch.X), num(e.Swatch.Y), num(e.Swatch.W), num(e.Swatch.H), esc(e.Color))
		w.printf(`<text x="%s" y="%s" class="legend-text">%s</text>`,
			num(e.LabelAt.X), num(e.LabelAt.Y), esc(e.Label))
	}

	w.line("</svg>")
	return w.String()
}

type writer struct {
	strings.Builder
}

func (w *writer) printf(format string, args ...any) {
	fmt.Fprintf(&w.Builder, format, args...)
	w.WriteByte('\n')
}

func (w *writer) line(s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func esc(s string) string {
	var b strings.Builder
	// xml.EscapeText only fails when the underlying writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
