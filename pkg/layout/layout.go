// Package layout computes the geometry of a Gantt chart. Compute is a pure function:
// the same task set and configuration always give the same Model, and every renderer
// draws from that Model instead of recomputing positions.
package layout

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/gantta/pkg/colors"
	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/model"
)

// Fixed offsets, in pixels, of labels relative to their row or grid line.
const (
	categoryLabelX  = 5
	taskLabelGap    = 10
	labelBaseline   = 4
	barInset        = 2
	barLabelOffset  = 3
	axisLabelOffset = 20
	swatchTextGap   = 18
	swatchBaseline  = 10
	legendBottomPad = 10
)

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Point is a text anchor.
type Point struct {
	X, Y float64
}

// Row is the geometry of one task band.
type Row struct {
	Index int
	// Y is the top of the band.
	Y     float64
	Task  model.Task
	Color string

	// CategoryStart is set on the first row of each category run.
	CategoryStart bool
	CategoryLabel string
	CategoryAt    Point

	Label   string
	LabelAt Point

	Bar Bar

	// SeparatorY is the horizontal line drawn under the band.
	SeparatorY float64
	Tooltip    string
}

// Bar is the horizontal extent of a task on the time axis.
type Bar struct {
	Rect
	// Label is the duration printed on wide bars; empty when the bar is too narrow.
	Label   string
	LabelAt Point
}

// GridLine is a vertical date marker.
type GridLine struct {
	X       float64
	Y1, Y2  float64
	Date    time.Time
	Label   string
	LabelAt Point
}

// LegendEntry is one category swatch with its label.
type LegendEntry struct {
	Category string
	Label    string
	Color    string
	Swatch   Rect
	LabelAt  Point
}

// Model is the complete geometry of one chart.
type Model struct {
	Title      string
	Subtitle   string
	TitleAt    Point
	SubtitleAt Point

	Width  float64
	Height float64
	Chart  Rect

	RowHeight float64
	BarHeight float64

	Start    time.Time
	End      time.Time
	SpanDays int

	Rows   []Row
	Grid   []GridLine
	Legend []LegendEntry
	// LegendOmitted counts legend entries that did not fit below the chart.
	LegendOmitted int
}

// Empty reports whether the model has no task rows.
func (m Model) Empty() bool {
	return len(m.Rows) == 0
}

// Compute lays out ts. Degenerate inputs (no tasks, zero-day span, unset configuration
// fields) are handled with defaults and never fail.
func Compute(ts model.TaskSet, cfg Config, title string) Model {
	cfg = cfg.withDefaults()
	rowHeight := cfg.RowHeight()
	chartWidth := cfg.ChartWidth()
	chartHeight := float64(len(ts)) * rowHeight

	m := Model{
		Title:      title,
		TitleAt:    Point{X: cfg.Width / 2, Y: cfg.TitleY},
		SubtitleAt: Point{X: cfg.Width / 2, Y: cfg.SubtitleY},
		Width:      cfg.Width,
		Height:     cfg.MarginTop + chartHeight + cfg.MarginBottom,
		Chart:      Rect{X: cfg.MarginLeft, Y: cfg.MarginTop, W: chartWidth, H: chartHeight},
		RowHeight:  rowHeight,
		BarHeight:  cfg.BarHeight,
		SpanDays:   1,
	}

	start, end, ok := ts.Span()
	if !ok {
		return m
	}
	m.Start, m.End = start, end
	if span := dates.DaysBetween(start, end); span > 0 {
		m.SpanDays = span
	}
	m.Subtitle = fmt.Sprintf("%s - %s", start.Format(dates.Long), end.Format(dates.Long))

	palette := colors.Assign(ts.Categories(), cfg.Palette)
	m.Grid = grid(m, cfg)
	m.Rows = rows(ts, m, cfg, palette)
	m.Legend, m.LegendOmitted = legend(m, cfg, palette)
	return m
}

// GridCount returns the number of intervals the time axis is divided into.
func GridCount(spanDays int, cfg Config) int {
	cfg = cfg.withDefaults()
	n := spanDays / cfg.DaysPerGridLine
	if n < cfg.MinGridLines {
		n = cfg.MinGridLines
	}
	if n > cfg.MaxGridLines {
		n = cfg.MaxGridLines
	}
	return n
}

func grid(m Model, cfg Config) []GridLine {
	n := GridCount(m.SpanDays, cfg)
	lines := make([]GridLine, 0, n+1)
	bottom := m.Chart.Y + m.Chart.H
	for i := 0; i <= n; i++ {
		x := m.Chart.X + float64(i)/float64(n)*m.Chart.W
		d := dates.AddDays(m.Start, i*m.SpanDays/n)
		lines = append(lines, GridLine{
			X:       x,
			Y1:      m.Chart.Y,
			Y2:      bottom,
			Date:    d,
			Label:   d.Format(dates.Label),
			LabelAt: Point{X: x, Y: bottom + axisLabelOffset},
		})
	}
	return lines
}

func rows(ts model.TaskSet, m Model, cfg Config, palette colors.Assignment) []Row {
	span := float64(m.SpanDays)
	out := make([]Row, len(ts))
	current := ""
	for i, t := range ts {
		y := m.Chart.Y + float64(i)*m.RowHeight
		textY := y + cfg.BarHeight/2 + labelBaseline

		offset := float64(dates.DaysBetween(m.Start, t.Start))
		x := m.Chart.X + offset/span*m.Chart.W
		w := float64(t.DurationDays) / span * m.Chart.W
		if w < cfg.MinBarWidth {
			w = cfg.MinBarWidth
		}

		bar := Bar{Rect: Rect{X: x, Y: y + barInset, W: w, H: cfg.BarHeight - 2*barInset}}
		if w > cfg.BarLabelMinWidth {
			bar.Label = fmt.Sprintf("%dd", t.DurationDays)
			bar.LabelAt = Point{X: x + w/2, Y: y + cfg.BarHeight/2 + barLabelOffset}
		}

		row := Row{
			Index:      i,
			Y:          y,
			Task:       t,
			Color:      palette.Color(t.Category),
			Label:      Truncate(t.Name, cfg.TaskLabelMax),
			LabelAt:    Point{X: cfg.MarginLeft - taskLabelGap, Y: textY},
			Bar:        bar,
			SeparatorY: y + m.RowHeight,
			Tooltip:    Tooltip(t),
		}
		if i == 0 || t.Category != current {
			current = t.Category
			row.CategoryStart = true
			row.CategoryLabel = Truncate(t.Category, cfg.CategoryLabelMax)
			row.CategoryAt = Point{X: categoryLabelX, Y: textY}
		}
		out[i] = row
	}
	return out
}

func legend(m Model, cfg Config, palette colors.Assignment) ([]LegendEntry, int) {
	top := m.Chart.Y + m.Chart.H + cfg.LegendOffset
	var entries []LegendEntry
	omitted := 0
	for i, c := range palette.Categories() {
		x := m.Chart.X + float64(i%cfg.LegendColumns)*cfg.LegendColumnWidth
		y := top + float64(i/cfg.LegendColumns)*cfg.LegendRowHeight
		if y >= m.Height-legendBottomPad {
			omitted++
			continue
		}
		entries = append(entries, LegendEntry{
			Category: c,
			Label:    Truncate(c, cfg.LegendLabelMax),
			Color:    palette.Color(c),
			Swatch:   Rect{X: x, Y: y, W: cfg.LegendSwatch, H: cfg.LegendSwatch},
			LabelAt:  Point{X: x + swatchTextGap, Y: y + swatchBaseline},
		})
	}
	return entries, omitted
}

// Truncate shortens s to limit runes, marking the cut with "...".
func Truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// Tooltip is the hover text of a task bar.
func Tooltip(t model.Task) string {
	return fmt.Sprintf("%s | %s | %s → %s (%dd)",
		t.Name, t.Category, t.Start.Format(dates.Long), t.End.Format(dates.Long), t.DurationDays)
}
