package svg

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/render"
)

func task(cat, name string, start time.Time, days int) model.Task {
	return model.Task{
		Category:     cat,
		Name:         name,
		Start:        start,
		End:          start.AddDate(0, 0, days-1),
		DurationDays: days,
	}
}

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestMarkupDrawsEveryRow(t *testing.T) {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := model.TaskSet{task("Dev", "Code", d, 10), task("Dev", "Review", d.AddDate(0, 0, 4), 11)}

	doc := Markup(layout.Compute(ts, layout.DefaultConfig(), "Plan"))
	wellFormed(t, doc)

	assert.True(t, strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1200 212"`))
	assert.Equal(t, 2, strings.Count(doc, `class="bar"`))
	assert.Equal(t, 1, strings.Count(doc, `class="category-label"`))
	assert.Contains(t, doc, ">Plan</text>")
	assert.Contains(t, doc, "<title>Code | Dev | 01/01/2025 → 10/01/2025 (10d)</title>")
	assert.Contains(t, doc, ">01/01/25</text>")
}

func TestMarkupEscapesUserText(t *testing.T) {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := model.TaskSet{task(`R&D <core>`, `<script>alert("x")</script>`, d, 3)}

	doc := Markup(layout.Compute(ts, layout.DefaultConfig(), `Q1 & "Q2"`))
	wellFormed(t, doc)

	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "&lt;script&gt;")
	assert.Contains(t, doc, "R&amp;D &lt;core&gt;")
	assert.Contains(t, doc, "Q1 &amp; &#34;Q2&#34;")
}

func TestMarkupEmptyModel(t *testing.T) {
	doc := Markup(layout.Compute(nil, layout.DefaultConfig(), "Nothing"))
	wellFormed(t, doc)

	assert.Contains(t, doc, NoData)
	assert.NotContains(t, doc, `class="bar"`)
	assert.NotContains(t, doc, `class="grid-line"`)
}

func TestAdapterRendersCategoryView(t *testing.T) {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := model.TaskSet{task("Dev", "Code", d, 2), task("Ops", "Deploy", d, 1)}
	b, err := render.Build(context.Background(), ts, render.Options{Title: "Roadmap", Layout: layout.DefaultConfig()})
	require.NoError(t, err)

	out, err := ForCategory("Ops").Render(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "roadmap-ops.svg", out.Name)
	assert.Equal(t, render.MediaSVG, out.MediaType)
	assert.Contains(t, string(out.Data), ">Deploy</text>")
	assert.NotContains(t, string(out.Data), ">Code</text>")
	assert.Contains(t, string(out.Data), ">Roadmap - Ops</text>")

	_, err = ForCategory("QA").Render(context.Background(), b)
	assert.Error(t, err)
}
