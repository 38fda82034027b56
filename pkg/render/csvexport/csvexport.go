// Package csvexport writes the normalized task set back out as CSV.
package csvexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/render"
)

// Header is the first record of every export.
var Header = []string{"category", "task", "start", "end", "duration_days"}

type Adapter struct{}

func (Adapter) Name() string { return "csv" }

func (Adapter) Render(_ context.Context, b *render.Bundle) (*render.Output, error) {
	data, err := Encode(b.Tasks)
	if err != nil {
		return nil, err
	}
	return &render.Output{
		Name:      render.FileName(b.Title, "tasks", "csv"),
		MediaType: render.MediaCSV,
		Data:      data,
	}, nil
}

// Encode writes ts with ISO dates, one record per task.
func Encode(ts model.TaskSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range ts {
		rec := []string{t.Category, t.Name, t.Start.Format(dates.ISO), t.End.Format(dates.ISO), strconv.Itoa(t.DurationDays)}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
