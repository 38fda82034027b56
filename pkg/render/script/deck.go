package script

import (
	"fmt"
	"strconv"

	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/render"
	"github.com/harrisonrobin/gantta/pkg/stats"
)

// Text styles of a chart, in layout pixels.
const (
	titleSize    = 20
	axisSize     = 11
	taskSize     = 12
	categorySize = 11
	barTextSize  = 10
	legendSize   = 11

	titleColor    = "#1f4e79"
	textColor     = "#333333"
	categoryColor = "#666666"
	gridColor     = "#e0e0e0"
	barTextColor  = "#ffffff"

	// width of the text boxes anchored on labels
	axisLabelWidth = 80
	legendWidth    = 260
)

// BuildDeck lays out one summary slide, one slide for the global chart and one slide per
// category.
func BuildDeck(b *render.Bundle) Deck {
	d := Deck{Width: SlideWidth, Height: SlideHeight}
	d.Slides = append(d.Slides, summarySlide(b))
	d.Slides = append(d.Slides, chartSlide(b.Global.Model, b.Layout))
	for _, v := range b.Categories {
		d.Slides = append(d.Slides, chartSlide(v.Model, b.Layout))
	}
	return d
}

func summarySlide(b *render.Bundle) Slide {
	s := b.Summary
	title := b.Title
	if title == "" {
		title = "Gantt chart"
	}
	margin := EMUPerInch / 2
	width := SlideWidth - 2*margin

	slide := Slide{Title: title}
	slide.Shapes = append(slide.Shapes,
		Text{
			Box:   Box{X: margin, Y: margin, W: width, H: EMUPerInch},
			Value: title, Size: 32, Color: titleColor, Bold: true, Align: AlignLeft,
		},
		Table{
			Box:    Box{X: margin, Y: 2 * EMUPerInch, W: width, H: EMUPerInch},
			Header: []string{"Tasks", "Categories", "Mean duration", "Start", "End"},
			Rows: [][]string{{
				strconv.Itoa(s.Tasks),
				strconv.Itoa(s.Categories),
				stats.Days(s.MeanDuration),
				periodStart(s),
				periodEnd(s),
			}},
		},
	)
	if len(s.PerCategory) > 0 {
		slide.Shapes = append(slide.Shapes, Table{
			Box:    Box{X: margin, Y: 3*EMUPerInch + margin, W: width, H: EMUPerInch},
			Header: []string{"Category", "Tasks", "Mean duration", "Period"},
			Rows:   categoryRows(s),
		})
	}
	return slide
}

func categoryRows(s stats.Summary) [][]string {
	rows := make([][]string, 0, len(s.PerCategory))
	for _, c := range s.PerCategory {
		rows = append(rows, []string{
			c.Category,
			strconv.Itoa(c.Count),
			stats.Days(c.MeanDuration),
			fmt.Sprintf("%s → %s", c.Start.Format(dates.Long), c.End.Format(dates.Long)),
		})
	}
	return rows
}

func periodStart(s stats.Summary) string {
	if s.Tasks == 0 {
		return "-"
	}
	return s.Start.Format(dates.Long)
}

func periodEnd(s stats.Summary) string {
	if s.Tasks == 0 {
		return "-"
	}
	return s.End.Format(dates.Long)
}

// chartSlide redraws the layout model with every coordinate scaled by the same factor.
func chartSlide(m layout.Model, cfg layout.Config) Slide {
	sc := PixelScale(m.Width, m.Height)
	slide := Slide{Title: m.Title}
	add := func(s ...Shape) { slide.Shapes = append(slide.Shapes, s...) }

	label := func(at layout.Point, w, size float64, value, color string, bold bool, align Align) Text {
		x := at.X
		switch align {
		case AlignCenter:
			x -= w / 2
		case AlignRight:
			x -= w
		}
		return Text{
			Box:   Box{X: sc.EMU(x), Y: sc.EMU(at.Y - size), W: sc.EMU(w), H: sc.EMU(size * 1.5)},
			Value: value,
			Size:  sc.Points(size),
			Color: color,
			Bold:  bold,
			Align: align,
		}
	}

	if m.Empty() {
		add(label(layout.Point{X: m.Width / 2, Y: m.Height / 2}, m.Width, titleSize, "No data", categoryColor, false, AlignCenter))
		return slide
	}

	add(label(m.TitleAt, m.Width, titleSize, m.Title, titleColor, true, AlignCenter))
	add(label(m.SubtitleAt, m.Width, axisSize, m.Subtitle, textColor, false, AlignCenter))

	for _, g := range m.Grid {
		add(Line{X1: sc.EMU(g.X), Y1: sc.EMU(g.Y1), X2: sc.EMU(g.X), Y2: sc.EMU(g.Y2), Color: gridColor})
		add(label(g.LabelAt, axisLabelWidth, axisSize, g.Label, textColor, false, AlignCenter))
	}

	right := m.Chart.X + m.Chart.W
	labelWidth := cfg.MarginLeft
	for _, r := range m.Rows {
		add(Line{X1: sc.EMU(m.Chart.X), Y1: sc.EMU(r.SeparatorY), X2: sc.EMU(right), Y2: sc.EMU(r.SeparatorY), Color: gridColor})
		if r.CategoryStart {
			add(label(r.CategoryAt, labelWidth, categorySize, r.CategoryLabel, categoryColor, true, AlignLeft))
		}
		add(label(r.LabelAt, labelWidth, taskSize, r.Label, textColor, false, AlignRight))
		add(Rect{
			Box:  Box{X: sc.EMU(r.Bar.X), Y: sc.EMU(r.Bar.Y), W: sc.EMU(r.Bar.W), H: sc.EMU(r.Bar.H)},
			Fill: r.Color,
		})
		if r.Bar.Label != "" {
			add(label(r.Bar.LabelAt, r.Bar.W, barTextSize, r.Bar.Label, barTextColor, false, AlignCenter))
		}
	}

	for _, e := range m.Legend {
		add(Rect{
			Box:  Box{X: sc.EMU(e.Swatch.X), Y: sc.EMU(e.Swatch.Y), W: sc.EMU(e.Swatch.W), H: sc.EMU(e.Swatch.H)},
			Fill: e.Color,
		})
		add(label(e.LabelAt, legendWidth, legendSize, e.Label, textColor, false, AlignLeft))
	}
	return slide
}
