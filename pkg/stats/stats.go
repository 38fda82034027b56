// Package stats computes the summary figures shown next to a chart.
package stats

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/model"
)

// CategorySummary aggregates the tasks of one category.
type CategorySummary struct {
	Category     string
	Count        int
	MeanDuration float64
	Start        time.Time
	End          time.Time
}

// Summary aggregates a whole task set.
type Summary struct {
	Tasks        int
	Categories   int
	MeanDuration float64
	Start        time.Time
	End          time.Time
	// SpanDays is the number of days between the first start and the last end.
	SpanDays    int
	PerCategory []CategorySummary
}

// Summarize computes the summary of ts. Categories keep their first-seen order.
func Summarize(ts model.TaskSet) Summary {
	s := Summary{Tasks: len(ts)}
	if len(ts) == 0 {
		return s
	}
	s.Start, s.End, _ = ts.Span()
	s.SpanDays = dates.DaysBetween(s.Start, s.End)
	s.MeanDuration = meanDuration(ts)

	for _, c := range ts.Categories() {
		sub := ts.ByCategory(c)
		start, end, _ := sub.Span()
		s.PerCategory = append(s.PerCategory, CategorySummary{
			Category:     c,
			Count:        len(sub),
			MeanDuration: meanDuration(sub),
			Start:        start,
			End:          end,
		})
	}
	s.Categories = len(s.PerCategory)
	return s
}

// Category returns the summary of one category.
func (s Summary) Category(name string) (CategorySummary, bool) {
	for _, c := range s.PerCategory {
		if c.Category == name {
			return c, true
		}
	}
	return CategorySummary{}, false
}

// Days formats a mean duration as whole days, e.g. "12d".
func Days(mean float64) string {
	return fmt.Sprintf("%.0fd", mean)
}

func meanDuration(ts model.TaskSet) float64 {
	if len(ts) == 0 {
		return 0
	}
	total := 0
	for _, t := range ts {
		total += t.DurationDays
	}
	return float64(total) / float64(len(ts))
}
