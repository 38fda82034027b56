package csvexport

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/normalize"
	"github.com/harrisonrobin/gantta/pkg/render"
	"github.com/harrisonrobin/gantta/pkg/table"
)

func TestEncode(t *testing.T) {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := model.TaskSet{
		{Category: "Dev", Name: `Code, "v2"`, Start: d, End: d.AddDate(0, 0, 9), DurationDays: 10},
	}

	data, err := Encode(ts)
	require.NoError(t, err)
	assert.Equal(t, "category,task,start,end,duration_days\nDev,\"Code, \"\"v2\"\"\",2025-01-01,2025-01-10,10\n", string(data))
}

func TestExportNormalizesBackToSameTasks(t *testing.T) {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := model.TaskSet{
		{Category: "Dev", Name: "Code", Start: d, End: d.AddDate(0, 0, 9), DurationDays: 10},
		{Category: "Ops", Name: "Deploy", Start: d.AddDate(0, 0, 20), End: d.AddDate(0, 0, 20), DurationDays: 1},
	}
	b, err := render.Build(context.Background(), ts, render.Options{Title: "Plan", Layout: layout.DefaultConfig()})
	require.NoError(t, err)

	out, err := Adapter{}.Render(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "plan-tasks.csv", out.Name)

	tbl, err := table.ReadCSV(bytes.NewReader(out.Data))
	require.NoError(t, err)
	again, _, err := normalize.New(normalize.DefaultOptions()).Normalize(tbl)
	require.NoError(t, err)
	assert.Equal(t, ts, again)
	assert.Contains(t, string(out.Data), "Ops,Deploy,2025-01-21,2025-01-21,1\n")
}
