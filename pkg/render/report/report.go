// Package report renders a bundle as a single self-contained HTML page: a summary of the
// whole task set followed by one chart per category.
package report

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/render"
	"github.com/harrisonrobin/gantta/pkg/render/svg"
	"github.com/harrisonrobin/gantta/pkg/stats"
)

//go:embed report.html.tmpl
var source string

var page = template.Must(template.New("report").
	Option("missingkey=error").
	Funcs(sprig.FuncMap()).
	Funcs(template.FuncMap{
		"days":     stats.Days,
		"longDate": longDate,
		"truncate": layout.Truncate,
	}).
	Parse(source))

type section struct {
	Anchor   string
	Category string
	Summary  stats.CategorySummary
	Chart    template.HTML
}

type data struct {
	Title     string
	Generated time.Time
	Summary   stats.Summary
	Chart     template.HTML
	Sections  []section
}

type Adapter struct{}

func (Adapter) Name() string { return "html" }

func (Adapter) Render(ctx context.Context, b *render.Bundle) (*render.Output, error) {
	d := data{
		Title:     b.Title,
		Generated: b.GeneratedAt,
		Summary:   b.Summary,
		// svg.Markup escapes all user text, so its output is trusted here.
		Chart: template.HTML(svg.Markup(b.Global.Model)),
	}
	for i, v := range b.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs, _ := b.Summary.Category(v.Category)
		// section charts are titled by category only
		m := v.Model
		m.Title = v.Category
		d.Sections = append(d.Sections, section{
			Anchor:   Anchor(i),
			Category: v.Category,
			Summary:  cs,
			Chart:    template.HTML(svg.Markup(m)),
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return &render.Output{
		Name:      render.FileName(b.Title, "", "html"),
		MediaType: render.MediaHTML,
		Data:      buf.Bytes(),
	}, nil
}

// Anchor is the fragment identifier of the i-th category section.
func Anchor(i int) string {
	return fmt.Sprintf("cat-%d", i)
}

func longDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dates.Long)
}
