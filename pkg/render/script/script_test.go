package script

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/render"
)

const hostile = "\"); import os; os.system('rm -rf ~') #\\\n'''\"\"\" é\x00"

func bundle(t *testing.T, ts model.TaskSet, title string) *render.Bundle {
	t.Helper()
	b, err := render.Build(context.Background(), ts, render.Options{Title: title, Layout: layout.DefaultConfig()})
	require.NoError(t, err)
	return b
}

func tasks() model.TaskSet {
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.TaskSet{
		{Category: "Dev", Name: "Code", Start: d, End: d.AddDate(0, 0, 9), DurationDays: 10},
		{Category: "Dev", Name: "Review", Start: d.AddDate(0, 0, 4), End: d.AddDate(0, 0, 14), DurationDays: 11},
		{Category: "Ops", Name: "Deploy", Start: d.AddDate(0, 0, 20), End: d.AddDate(0, 0, 20), DurationDays: 1},
	}
}

// pythonParses checks the program with the interpreter's own parser when one is installed.
func pythonParses(t *testing.T, src []byte) {
	t.Helper()
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not installed")
	}
	cmd := exec.Command(python, "-c", "import ast, sys; ast.parse(sys.stdin.read())")
	cmd.Stdin = bytes.NewReader(src)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, Quote("plain"))
	assert.Equal(t, `"a\"b\\c\nd"`, Quote("a\"b\\c\nd"))
	assert.Equal(t, `"<x>"`, Quote("<x>"))
	assert.Equal(t, `"début"`, Quote("début"))

	q := Quote(hostile)
	assert.NotContains(t, q, "\n")
	assert.True(t, strings.HasPrefix(q, `"`) && strings.HasSuffix(q, `"`))
}

func TestQuoteIsAPythonLiteral(t *testing.T) {
	pythonParses(t, []byte("x = "+Quote(hostile)+"\n"))
}

func TestPixelScale(t *testing.T) {
	sc := PixelScale(1200, 212)
	assert.Equal(t, EMU(2844800), sc.EMU(280))
	assert.Equal(t, EMU(12192000), sc.EMU(1200))

	// tall charts are fitted on height
	tall := PixelScale(1200, 6858)
	assert.Equal(t, EMU(6858000), tall.EMU(6858))
	assert.Less(t, tall.EMU(1200), SlideWidth)
}

func TestBuildDeck(t *testing.T) {
	b := bundle(t, tasks(), "Roadmap")
	d := BuildDeck(b)

	require.Len(t, d.Slides, 4)
	assert.Equal(t, "Roadmap", d.Slides[0].Title)
	assert.Equal(t, "Roadmap", d.Slides[1].Title)
	assert.Equal(t, "Roadmap - Dev", d.Slides[2].Title)
	assert.Equal(t, "Roadmap - Ops", d.Slides[3].Title)

	var rects int
	for _, s := range d.Slides[1].Shapes {
		if _, ok := s.(Rect); ok {
			rects++
		}
	}
	// three bars and two legend swatches
	assert.Equal(t, 5, rects)
}

func TestPythonDeckEmbedsTextSafely(t *testing.T) {
	ts := tasks()
	ts[0].Name = hostile
	src := PythonDeck(BuildDeck(bundle(t, ts, hostile)))

	s := string(src)
	assert.True(t, strings.HasPrefix(s, "import sys\n"))
	assert.True(t, strings.HasSuffix(s, "prs.save(sys.argv[1])\n"))
	assert.Contains(t, s, Quote(hostile))
	assert.Contains(t, s, `rect(slide, 2844800, `)
	assert.Contains(t, s, `"4E79A7"`)
	pythonParses(t, src)
}

func TestBarsOf(t *testing.T) {
	b := bundle(t, tasks(), "")
	dev, ok := b.View("Dev")
	require.True(t, ok)

	bars := BarsOf(dev.Model)
	assert.Equal(t, []string{"01/01/25", "04/01/25", "08/01/25", "11/01/25"}, bars.Columns)
	require.Len(t, bars.Rows, 2)
	assert.Equal(t, BarRow{Label: "Code", Color: "#4e79a7", First: 0, Last: 2, Caption: "10d"}, bars.Rows[0])
	assert.Equal(t, 1, bars.Rows[1].First)
	assert.Equal(t, 3, bars.Rows[1].Last)

	assert.Equal(t, Bars{}, BarsOf(layout.Compute(nil, layout.DefaultConfig(), "")))
}

func TestPythonDocument(t *testing.T) {
	ts := tasks()
	ts[2].Category = hostile
	doc := BuildDocument(bundle(t, ts, "Roadmap"))

	require.IsType(t, Heading{}, doc.Blocks[0])
	assert.Equal(t, Heading{Text: "Roadmap", Level: 0}, doc.Blocks[0])

	src := PythonDocument(doc)
	s := string(src)
	assert.Contains(t, s, `doc.add_heading("Roadmap", level=0)`)
	assert.Contains(t, s, `doc.add_paragraph("2 tasks | Mean duration: 10d")`)
	assert.Contains(t, s, `bars(doc, ["01/01/25", "04/01/25", "08/01/25", "11/01/25"], [("Code", "4E79A7", 0, 2, "10d")`)
	assert.True(t, strings.HasSuffix(s, "doc.save(sys.argv[1])\n"))
	pythonParses(t, src)
}

func TestEmptyBundleScripts(t *testing.T) {
	b := bundle(t, nil, "")
	doc := BuildDocument(b)
	assert.Equal(t, []Block{Heading{Text: "Gantt report", Level: 0}, Paragraph{Text: "No data"}}, doc.Blocks)

	deck := BuildDeck(b)
	require.Len(t, deck.Slides, 2)
	pythonParses(t, PythonDeck(deck))
	pythonParses(t, PythonDocument(doc))
}

func TestAdapters(t *testing.T) {
	b := bundle(t, tasks(), "Roadmap")

	out, err := DeckAdapter{}.Render(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "roadmap-deck.py", out.Name)
	assert.Equal(t, render.MediaPython, out.MediaType)

	out, err = DocumentAdapter{}.Render(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "roadmap-document.py", out.Name)
}
