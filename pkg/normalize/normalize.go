// Package normalize turns a raw table into the canonical, sorted task set.
package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harrisonrobin/gantta/pkg/columns"
	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/model"
)

var (
	// ErrInvalidInput is matched by every failure caused by the content of the table.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoValidRows means every row was filtered out.
	ErrNoValidRows = fmt.Errorf("%w: no valid rows after filtering", ErrInvalidInput)
)

// DropReason explains why a row was excluded.
type DropReason string

const (
	DropUnparseableDate DropReason = "unparseable-date"
	DropMissingName     DropReason = "missing-name"
	DropInvertedRange   DropReason = "inverted-range"
)

// Report counts what happened to the rows of one table.
type Report struct {
	Rows    int
	Kept    int
	Dropped map[DropReason]int
}

// Options configure a Normalizer.
type Options struct {
	Synonyms columns.Synonyms
	// DefaultCategory replaces blank categories.
	DefaultCategory string
	// MissingPlaceholders are texts that stand for an empty cell (compared case-insensitively).
	MissingPlaceholders []string
}

// DefaultOptions mirrors what a spreadsheet export usually produces for empty cells.
func DefaultOptions() Options {
	return Options{
		Synonyms:            columns.DefaultSynonyms(),
		DefaultCategory:     "nan",
		MissingPlaceholders: []string{"nan", "none", "null", "nat", "<nil>"},
	}
}

type Normalizer struct {
	opts        Options
	placeholder map[string]bool
}

func New(opts Options) *Normalizer {
	if strings.TrimSpace(opts.DefaultCategory) == "" {
		opts.DefaultCategory = DefaultOptions().DefaultCategory
	}
	n := &Normalizer{opts: opts, placeholder: make(map[string]bool)}
	for _, p := range opts.MissingPlaceholders {
		n.placeholder[strings.ToLower(strings.TrimSpace(p))] = true
	}
	return n
}

// Normalize resolves the columns of t and returns its valid rows as a TaskSet sorted by
// category then start date. Invalid rows are skipped and counted in the Report.
func (n *Normalizer) Normalize(t model.Table) (model.TaskSet, Report, error) {
	report := Report{Rows: len(t.Rows), Dropped: make(map[DropReason]int)}

	mapping, err := columns.Resolve(t.Headers, n.opts.Synonyms)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	tasks := make(model.TaskSet, 0, len(t.Rows))
	for r := range t.Rows {
		task, reason, ok := n.row(t, r, mapping)
		if !ok {
			report.Dropped[reason]++
			continue
		}
		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Category != tasks[j].Category {
			return tasks[i].Category < tasks[j].Category
		}
		return tasks[i].Start.Before(tasks[j].Start)
	})

	report.Kept = len(tasks)
	if len(tasks) == 0 {
		return nil, report, ErrNoValidRows
	}
	return tasks, report, nil
}

func (n *Normalizer) row(t model.Table, r int, m columns.Mapping) (model.Task, DropReason, bool) {
	start, okStart := dates.Parse(t.At(r, m[columns.Start].Index))
	end, okEnd := dates.Parse(t.At(r, m[columns.End].Index))
	if !okStart || !okEnd {
		return model.Task{}, DropUnparseableDate, false
	}

	name := strings.TrimSpace(model.CellText(t.At(r, m[columns.Task].Index)))
	if name == "" || n.placeholder[strings.ToLower(name)] {
		return model.Task{}, DropMissingName, false
	}

	if end.Before(start) {
		return model.Task{}, DropInvertedRange, false
	}

	category := strings.TrimSpace(model.CellText(t.At(r, m[columns.Category].Index)))
	if category == "" {
		category = n.opts.DefaultCategory
	}

	return model.Task{
		Category:     category,
		Name:         name,
		Start:        start,
		End:          end,
		DurationDays: dates.DaysBetween(start, end) + 1,
	}, "", true
}
