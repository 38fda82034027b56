package model

import (
	"strconv"
	"time"
)

// Cell is an untyped value read from a source table: string, float64, int, bool,
// time.Time or nil.
type Cell = any

// Table is a header row plus row-indexed cells, as produced by a loader.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// At returns the cell at row r, column c, or nil when the row is short.
func (t Table) At(r, c int) Cell {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return nil
	}
	return t.Rows[r][c]
}

// Task is a validated row: a named task inside a category between two calendar dates.
type Task struct {
	Category string
	Name     string
	Start    time.Time
	End      time.Time
	// DurationDays counts both the start and end day.
	DurationDays int
}

// TaskSet is an ordered sequence of tasks rendered together. It is sorted by category
// then start date and is never modified in place.
type TaskSet []Task

// Categories returns the distinct categories in first-seen order.
func (ts TaskSet) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, t := range ts {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	return cats
}

// ByCategory returns a new TaskSet holding only the tasks of category.
func (ts TaskSet) ByCategory(category string) TaskSet {
	var out TaskSet
	for _, t := range ts {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Span returns the earliest start and the latest end. ok is false for an empty set.
func (ts TaskSet) Span() (start, end time.Time, ok bool) {
	if len(ts) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = ts[0].Start, ts[0].End
	for _, t := range ts[1:] {
		if t.Start.Before(start) {
			start = t.Start
		}
		if t.End.After(end) {
			end = t.End
		}
	}
	return start, end, true
}

// CellText renders a cell the way a spreadsheet would show it as text.
func CellText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
