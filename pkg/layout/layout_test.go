package layout

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/gantta/pkg/colors"
	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func task(cat, name string, start, end time.Time) model.Task {
	return model.Task{
		Category:     cat,
		Name:         name,
		Start:        start,
		End:          end,
		DurationDays: dates.DaysBetween(start, end) + 1,
	}
}

func devTasks() model.TaskSet {
	return model.TaskSet{
		task("Dev", "Code", day(2025, 1, 1), day(2025, 1, 10)),
		task("Dev", "Review", day(2025, 1, 5), day(2025, 1, 15)),
	}
}

func TestComputeBasicGeometry(t *testing.T) {
	cfg := DefaultConfig()
	m := Compute(devTasks(), cfg, "Plan")

	assert.Equal(t, 1200.0, m.Width)
	assert.Equal(t, 80+2*36+60.0, m.Height)
	assert.Equal(t, Rect{X: 280, Y: 80, W: 880, H: 72}, m.Chart)
	assert.Equal(t, 14, m.SpanDays)
	assert.Equal(t, "01/01/2025 - 15/01/2025", m.Subtitle)
	assert.Equal(t, Point{X: 600, Y: 35}, m.TitleAt)

	require.Len(t, m.Rows, 2)
	code, review := m.Rows[0], m.Rows[1]

	assert.Equal(t, 80.0, code.Y)
	assert.Equal(t, 116.0, review.Y)
	assert.InDelta(t, 280.0, code.Bar.X, 1e-9)
	assert.InDelta(t, 10.0/14*880, code.Bar.W, 1e-9)
	assert.InDelta(t, 280+4.0/14*880, review.Bar.X, 1e-9)
	assert.InDelta(t, 11.0/14*880, review.Bar.W, 1e-9)
	assert.Equal(t, 82.0, code.Bar.Y)
	assert.Equal(t, 24.0, code.Bar.H)
	assert.Equal(t, "10d", code.Bar.Label)
	assert.Equal(t, Point{X: 270, Y: 98}, code.LabelAt)
	assert.Equal(t, 116.0, code.SeparatorY)
	assert.Equal(t, "Code | Dev | 01/01/2025 → 10/01/2025 (10d)", code.Tooltip)
	assert.Equal(t, colors.DefaultPalette[0], code.Color)
}

func TestComputeGridLines(t *testing.T) {
	m := Compute(devTasks(), DefaultConfig(), "")

	require.Len(t, m.Grid, 5)
	var xs []float64
	var labels []string
	for _, g := range m.Grid {
		xs = append(xs, g.X)
		labels = append(labels, g.Label)
		assert.Equal(t, 80.0, g.Y1)
		assert.Equal(t, 152.0, g.Y2)
		assert.Equal(t, 172.0, g.LabelAt.Y)
	}
	assert.Equal(t, []float64{280, 500, 720, 940, 1160}, xs)
	assert.Equal(t, []string{"01/01/25", "04/01/25", "08/01/25", "11/01/25", "15/01/25"}, labels)
}

func TestGridCountIsClamped(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 4, GridCount(1, cfg))
	assert.Equal(t, 4, GridCount(90, cfg))
	assert.Equal(t, 10, GridCount(300, cfg))
	assert.Equal(t, 12, GridCount(1000, cfg))
}

func TestComputeSingleDayTask(t *testing.T) {
	cfg := DefaultConfig()
	ts := model.TaskSet{task("Ops", "Release", day(2025, 6, 1), day(2025, 6, 1))}

	m := Compute(ts, cfg, "")

	assert.Equal(t, 1, ts[0].DurationDays)
	assert.Equal(t, 1, m.SpanDays)
	require.Len(t, m.Rows, 1)
	assert.GreaterOrEqual(t, m.Rows[0].Bar.W, cfg.MinBarWidth)
	assert.Equal(t, cfg.ChartWidth(), m.Rows[0].Bar.W)
	require.Len(t, m.Grid, 5)
	assert.Equal(t, day(2025, 6, 1), m.Grid[0].Date)
	assert.Equal(t, day(2025, 6, 2), m.Grid[4].Date)
}

func TestComputeShortBarsKeepMinimumWidth(t *testing.T) {
	cfg := DefaultConfig()
	ts := model.TaskSet{
		task("A", "Long", day(2025, 1, 1), day(2025, 10, 28)),
		task("A", "Blip", day(2025, 5, 1), day(2025, 5, 1)),
	}

	m := Compute(ts, cfg, "")

	assert.Equal(t, 300, m.SpanDays)
	assert.Equal(t, cfg.MinBarWidth, m.Rows[1].Bar.W)
	assert.Empty(t, m.Rows[1].Bar.Label)
	assert.Len(t, m.Grid, 11)
}

func TestComputeCategoryMarkers(t *testing.T) {
	ts := model.TaskSet{
		task("A", "a1", day(2025, 1, 1), day(2025, 1, 2)),
		task("A", "a2", day(2025, 1, 3), day(2025, 1, 4)),
		task("B", "b1", day(2025, 1, 1), day(2025, 1, 2)),
		task("C", "c1", day(2025, 1, 1), day(2025, 1, 2)),
		task("C", "c2", day(2025, 1, 2), day(2025, 1, 2)),
	}

	m := Compute(ts, DefaultConfig(), "")

	var starts []bool
	for _, r := range m.Rows {
		starts = append(starts, r.CategoryStart)
	}
	assert.Equal(t, []bool{true, false, true, true, false}, starts)
	assert.Equal(t, "B", m.Rows[2].CategoryLabel)
	assert.Equal(t, Point{X: 5, Y: 80 + 2*36 + 18.0}, m.Rows[2].CategoryAt)
	assert.Empty(t, m.Rows[1].CategoryLabel)
}

func TestComputeLegendOmitsEntriesBeyondCanvas(t *testing.T) {
	var ts model.TaskSet
	for i := 0; i < 6; i++ {
		ts = append(ts, task(fmt.Sprintf("cat-%d", i), "t", day(2025, 1, 1), day(2025, 1, 5)))
	}

	m := Compute(ts, DefaultConfig(), "")

	require.Len(t, m.Legend, 4)
	assert.Equal(t, 2, m.LegendOmitted)
	assert.Equal(t, Rect{X: 280, Y: 336, W: 12, H: 12}, m.Legend[0].Swatch)
	assert.Equal(t, Rect{X: 280 + 3*280, Y: 336, W: 12, H: 12}, m.Legend[3].Swatch)
	assert.Equal(t, Point{X: 298, Y: 346}, m.Legend[0].LabelAt)
	assert.Equal(t, colors.DefaultPalette[3], m.Legend[3].Color)
}

func TestComputeTruncatesLabels(t *testing.T) {
	long := "An exceptionally long task name that keeps going"
	cat := "Départements réunis et associés"
	ts := model.TaskSet{task(cat, long, day(2025, 1, 1), day(2025, 1, 5))}

	m := Compute(ts, DefaultConfig(), "")

	assert.Equal(t, "An exceptionally long task nam...", m.Rows[0].Label)
	assert.Equal(t, "Départements réunis et as...", m.Rows[0].CategoryLabel)
	assert.Equal(t, cat, m.Legend[0].Label)
	assert.Equal(t, long, m.Rows[0].Task.Name)
}

func TestComputeEmptyTaskSet(t *testing.T) {
	m := Compute(nil, DefaultConfig(), "Nothing")

	assert.True(t, m.Empty())
	assert.Equal(t, 1, m.SpanDays)
	assert.Equal(t, 140.0, m.Height)
	assert.Empty(t, m.Grid)
	assert.Empty(t, m.Legend)
}

func TestComputeCenturiesLongSpan(t *testing.T) {
	ts := model.TaskSet{
		task("Dev", "Typo year", day(25, 1, 1), day(2025, 1, 10)),
		task("Dev", "Normal", day(2025, 1, 1), day(2025, 1, 10)),
	}
	cfg := DefaultConfig()
	m := Compute(ts, cfg, "Typo")

	assert.Equal(t, 730494, m.SpanDays)
	assert.Equal(t, 730495, m.Rows[0].Task.DurationDays)
	assert.InDelta(t, cfg.ChartWidth(), m.Rows[0].Bar.W, 0.01)
	assert.Equal(t, cfg.MarginLeft, m.Rows[0].Bar.X)
	assert.Less(t, m.Rows[1].Bar.X, cfg.Width-cfg.MarginRight)
	assert.Equal(t, cfg.MinBarWidth, m.Rows[1].Bar.W)
}

func TestComputeZeroConfigFallsBackToDefaults(t *testing.T) {
	var m Model
	require.NotPanics(t, func() { m = Compute(devTasks(), Config{}, "Zero") })

	def := DefaultConfig()
	assert.Len(t, m.Grid, def.MinGridLines+1)
	assert.Equal(t, def.Width, m.Width)
	assert.Len(t, m.Rows, 2)
	assert.Equal(t, 1, len(m.Legend)+m.LegendOmitted)

	partial := DefaultConfig()
	partial.LegendColumns = 0
	partial.DaysPerGridLine = 0
	partial.MarginLeft = 0
	m = Compute(devTasks(), partial, "Partial")
	assert.Equal(t, 0.0, m.Chart.X, "explicit zero margins are kept")
	assert.Len(t, m.Grid, def.MinGridLines+1)
}

func TestComputeIsDeterministic(t *testing.T) {
	ts := model.TaskSet{
		task("A", "a1", day(2025, 1, 1), day(2025, 3, 2)),
		task("B", "b1", day(2025, 2, 1), day(2025, 2, 20)),
		task("B", "b2", day(2025, 2, 10), day(2025, 5, 20)),
	}
	cfg := DefaultConfig()

	first := Compute(ts, cfg, "Plan")
	second := Compute(ts, cfg, "Plan")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Compute is not deterministic (-first +second):\n%s", diff)
	}
}

func TestColorsDependOnlyOnCategoryOrder(t *testing.T) {
	a := model.TaskSet{
		task("A", "a1", day(2025, 1, 1), day(2025, 1, 2)),
		task("A", "a2", day(2025, 1, 3), day(2025, 1, 4)),
		task("B", "b1", day(2025, 1, 1), day(2025, 1, 2)),
	}
	b := model.TaskSet{a[1], a[0], a[2]}

	ma := Compute(a, DefaultConfig(), "")
	mb := Compute(b, DefaultConfig(), "")
	for i := range ma.Rows {
		assert.Equal(t, ma.Rows[i].Color, colorOf(mb, ma.Rows[i].Task.Name))
	}
}

func colorOf(m Model, name string) string {
	for _, r := range m.Rows {
		if r.Task.Name == name {
			return r.Color
		}
	}
	return ""
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abc", 2))
	assert.Equal(t, "éé...", Truncate("ééé", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
