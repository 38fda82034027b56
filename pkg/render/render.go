// Package render turns one normalized task set into the shared geometry every output
// format draws from, and runs the output adapters over it.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/stats"
)

// Media types of the outputs.
const (
	MediaSVG    = "image/svg+xml"
	MediaHTML   = "text/html; charset=utf-8"
	MediaPython = "text/x-python"
	MediaPDF    = "application/pdf"
	MediaCSV    = "text/csv"
	MediaJSON   = "application/json"
	MediaPPTX   = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MediaDOCX   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// View is one chart: a task set and its computed geometry.
type View struct {
	// Category is empty for the global view.
	Category string
	Tasks    model.TaskSet
	Model    layout.Model
}

// Bundle is everything the adapters consume. It is built once per render and only read
// afterwards.
type Bundle struct {
	Title       string
	GeneratedAt time.Time
	Layout      layout.Config
	Tasks       model.TaskSet
	Summary     stats.Summary
	Global      View
	Categories  []View
}

// Options configure Build.
type Options struct {
	Title  string
	Layout layout.Config
	// GeneratedAt is stamped on reports; zero means now.
	GeneratedAt time.Time
}

// Build lays out the global chart and one chart per category. Category views are
// independent and computed concurrently.
func Build(ctx context.Context, ts model.TaskSet, opts Options) (*Bundle, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	b := &Bundle{
		Title:       opts.Title,
		GeneratedAt: opts.GeneratedAt,
		Layout:      opts.Layout,
		Tasks:       ts,
		Summary:     stats.Summarize(ts),
		Global: View{
			Tasks: ts,
			Model: layout.Compute(ts, opts.Layout, opts.Title),
		},
	}

	cats := ts.Categories()
	b.Categories = make([]View, len(cats))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range cats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sub := ts.ByCategory(c)
			b.Categories[i] = View{
				Category: c,
				Tasks:    sub,
				Model:    layout.Compute(sub, opts.Layout, CategoryTitle(opts.Title, c)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return b, nil
}

// CategoryTitle is the title of a per-category chart.
func CategoryTitle(title, category string) string {
	if title == "" {
		return category
	}
	return fmt.Sprintf("%s - %s", title, category)
}

// Output is one rendered artifact.
type Output struct {
	Name      string
	MediaType string
	Data      []byte
}

// Adapter renders a Bundle into one output format.
type Adapter interface {
	Name() string
	Render(ctx context.Context, b *Bundle) (*Output, error)
}

// Result pairs an adapter with what it produced.
type Result struct {
	Adapter string
	Output  *Output
	Err     error
}

// RenderAll runs every adapter concurrently. Results come back in adapter order and a
// failing adapter does not stop the others.
func RenderAll(ctx context.Context, b *Bundle, adapters []Adapter) []Result {
	results := make([]Result, len(adapters))
	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			out, err := a.Render(ctx, b)
			results[i] = Result{Adapter: a.Name(), Output: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// View returns the chart of category, or the global chart when category is empty.
func (b *Bundle) View(category string) (View, bool) {
	if category == "" {
		return b.Global, true
	}
	for _, v := range b.Categories {
		if v.Category == category {
			return v, true
		}
	}
	return View{}, false
}

// FileName builds a file-system safe output name from the chart title and an optional
// category.
func FileName(title, category, ext string) string {
	base := slug.Make(title)
	if base == "" {
		base = "gantt"
	}
	if s := slug.Make(category); s != "" {
		base += "-" + s
	}
	return base + "." + ext
}
