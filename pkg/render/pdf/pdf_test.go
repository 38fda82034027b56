package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/render"
)

func bundle(t *testing.T, ts model.TaskSet) *render.Bundle {
	t.Helper()
	b, err := render.Build(context.Background(), ts, render.Options{
		Title:       "Roadmap",
		Layout:      layout.DefaultConfig(),
		GeneratedAt: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func tasks() model.TaskSet {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.TaskSet{
		{Category: "Développement", Name: "Analyse", Start: d, End: d.AddDate(0, 0, 13), DurationDays: 14},
		{Category: "Tests", Name: "Tests unitaires", Start: d.AddDate(0, 0, 31), End: d.AddDate(0, 0, 44), DurationDays: 14},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Adapter{}.Render(context.Background(), bundle(t, tasks()))
	require.NoError(t, err)

	assert.Equal(t, "roadmap.pdf", out.Name)
	assert.Equal(t, render.MediaPDF, out.MediaType)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF-")))
	assert.True(t, mimetype.Detect(out.Data).Is("application/pdf"))
	// global page plus one page per category
	assert.Equal(t, 3, bytes.Count(out.Data, []byte("/Type /Page\n")))
}

func TestRenderIsDeterministic(t *testing.T) {
	b := bundle(t, tasks())
	first, err := Adapter{}.Render(context.Background(), b)
	require.NoError(t, err)
	second, err := Adapter{}.Render(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first.Data, second.Data))
}

func TestRenderEmptyBundle(t *testing.T) {
	out, err := Adapter{}.Render(context.Background(), bundle(t, nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF-")))
}
