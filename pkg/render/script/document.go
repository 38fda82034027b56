package script

import (
	"fmt"
	"math"
	"strconv"

	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/render"
	"github.com/harrisonrobin/gantta/pkg/stats"
)

// BuildDocument writes the report as prose: a summary, then for each category its tasks
// and a bar table drawn on the category's own grid.
func BuildDocument(b *render.Bundle) Document {
	title := b.Title
	if title == "" {
		title = "Gantt report"
	}
	s := b.Summary
	doc := Document{Title: title}
	add := func(bl ...Block) { doc.Blocks = append(doc.Blocks, bl...) }

	add(Heading{Text: title, Level: 0})
	if s.Tasks == 0 {
		add(Paragraph{Text: "No data"})
		return doc
	}
	add(Paragraph{Text: b.Global.Model.Subtitle})

	add(Heading{Text: "Summary", Level: 1})
	add(Table{
		Header: []string{"Tasks", "Categories", "Mean duration", "Start", "End"},
		Rows: [][]string{{
			strconv.Itoa(s.Tasks),
			strconv.Itoa(s.Categories),
			stats.Days(s.MeanDuration),
			s.Start.Format(dates.Long),
			s.End.Format(dates.Long),
		}},
	})
	add(Table{
		Header: []string{"Category", "Tasks", "Mean duration", "Period"},
		Rows:   categoryRows(s),
	})

	for _, v := range b.Categories {
		cs, _ := s.Category(v.Category)
		add(Heading{Text: v.Category, Level: 1})
		add(Paragraph{Text: fmt.Sprintf("%d %s | Mean duration: %s", cs.Count, tasksNoun(cs.Count), stats.Days(cs.MeanDuration))})

		rows := make([][]string, 0, len(v.Tasks))
		for _, t := range v.Tasks {
			rows = append(rows, []string{
				t.Name,
				t.Start.Format(dates.Long),
				t.End.Format(dates.Long),
				strconv.Itoa(t.DurationDays),
			})
		}
		add(Table{Header: []string{"Task", "Start", "End", "Days"}, Rows: rows})
		add(BarsOf(v.Model))
	}
	return doc
}

// BarsOf projects the bars of m onto its grid intervals. A task covers every interval its
// bar overlaps, and at least one.
func BarsOf(m layout.Model) Bars {
	n := len(m.Grid) - 1
	if n < 1 || m.Chart.W <= 0 {
		return Bars{}
	}
	bars := Bars{Columns: make([]string, n)}
	for i := range n {
		bars.Columns[i] = m.Grid[i].Label
	}
	step := m.Chart.W / float64(n)
	col := func(x float64) int {
		c := int(math.Floor((x - m.Chart.X) / step))
		return min(max(c, 0), n-1)
	}
	for _, r := range m.Rows {
		first := col(r.Bar.X)
		// the right edge itself belongs to the next interval
		last := max(col(r.Bar.X+r.Bar.W-0.001), first)
		bars.Rows = append(bars.Rows, BarRow{
			Label:   r.Label,
			Color:   r.Color,
			First:   first,
			Last:    last,
			Caption: fmt.Sprintf("%dd", r.Task.DurationDays),
		})
	}
	return bars
}

func tasksNoun(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}
