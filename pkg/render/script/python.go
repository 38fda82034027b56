package script

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Quote returns s as a Python string literal. A JSON string is a valid Python literal:
// quotes, backslashes and control characters are escaped and everything else is UTF-8.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// encoding a string never fails
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func quoteList(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = Quote(v)
	}
	return "[" + strings.Join(q, ", ") + "]"
}

func quoteRows(rows [][]string) string {
	q := make([]string, len(rows))
	for i, r := range rows {
		q[i] = quoteList(r)
	}
	return "[" + strings.Join(q, ", ") + "]"
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func pyFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type program struct {
	strings.Builder
}

func (p *program) line(format string, args ...any) {
	fmt.Fprintf(&p.Builder, format, args...)
	p.WriteByte('\n')
}

const deckPrelude = `import sys

from pptx import Presentation
from pptx.dml.color import RGBColor
from pptx.enum.shapes import MSO_CONNECTOR, MSO_SHAPE
from pptx.enum.text import PP_ALIGN
from pptx.util import Emu, Pt

ALIGN = {"left": PP_ALIGN.LEFT, "center": PP_ALIGN.CENTER, "right": PP_ALIGN.RIGHT}


def rect(slide, x, y, w, h, fill):
    shape = slide.shapes.add_shape(MSO_SHAPE.RECTANGLE, Emu(x), Emu(y), Emu(w), Emu(h))
    shape.fill.solid()
    shape.fill.fore_color.rgb = RGBColor.from_string(fill)
    shape.line.fill.background()
    return shape


def text(slide, x, y, w, h, value, size, color, bold, align):
    box = slide.shapes.add_textbox(Emu(x), Emu(y), Emu(w), Emu(h))
    frame = box.text_frame
    frame.word_wrap = False
    paragraph = frame.paragraphs[0]
    paragraph.alignment = ALIGN[align]
    run = paragraph.add_run()
    run.text = value
    run.font.size = Pt(size)
    run.font.bold = bold
    run.font.color.rgb = RGBColor.from_string(color)
    return box


def line(slide, x1, y1, x2, y2, color):
    connector = slide.shapes.add_connector(MSO_CONNECTOR.STRAIGHT, Emu(x1), Emu(y1), Emu(x2), Emu(y2))
    connector.line.color.rgb = RGBColor.from_string(color)
    connector.line.width = Emu(9525)
    return connector


def table(slide, x, y, w, h, header, rows):
    shape = slide.shapes.add_table(len(rows) + 1, len(header), Emu(x), Emu(y), Emu(w), Emu(h))
    grid = shape.table
    for c, value in enumerate(header):
        grid.cell(0, c).text = value
    for r, row in enumerate(rows):
        for c, value in enumerate(row):
            grid.cell(r + 1, c).text = value
    return shape

`

// PythonDeck serializes d as a python-pptx program. The program saves the presentation to
// the path given as its first argument.
func PythonDeck(d Deck) []byte {
	var p program
	p.WriteString(deckPrelude)
	p.line("")
	p.line("prs = Presentation()")
	p.line("prs.slide_width = Emu(%d)", d.Width)
	p.line("prs.slide_height = Emu(%d)", d.Height)
	p.line("blank = prs.slide_layouts[6]")
	for i, s := range d.Slides {
		p.line("")
		p.line("# slide %d", i+1)
		p.line("slide = prs.slides.add_slide(blank)")
		p.line("slide.name = %s", Quote(s.Title))
		for _, sh := range s.Shapes {
			switch v := sh.(type) {
			case Rect:
				p.line("rect(slide, %d, %d, %d, %d, %s)", v.X, v.Y, v.W, v.H, Quote(hex(v.Fill)))
			case Text:
				p.line("text(slide, %d, %d, %d, %d, %s, %s, %s, %s, %s)",
					v.X, v.Y, v.W, v.H, Quote(v.Value), pyFloat(v.Size), Quote(hex(v.Color)), pyBool(v.Bold), Quote(v.Align.String()))
			case Line:
				p.line("line(slide, %d, %d, %d, %d, %s)", v.X1, v.Y1, v.X2, v.Y2, Quote(hex(v.Color)))
			case Table:
				if len(v.Header) == 0 {
					continue
				}
				p.line("table(slide, %d, %d, %d, %d, %s, %s)", v.X, v.Y, v.W, v.H, quoteList(v.Header), quoteRows(v.Rows))
			}
		}
	}
	p.line("")
	p.line("prs.save(sys.argv[1])")
	return []byte(p.String())
}

const documentPrelude = `import sys

from docx import Document
from docx.oxml import OxmlElement
from docx.oxml.ns import qn


def shade(cell, fill):
    props = cell._tc.get_or_add_tcPr()
    shd = OxmlElement("w:shd")
    shd.set(qn("w:val"), "clear")
    shd.set(qn("w:color"), "auto")
    shd.set(qn("w:fill"), fill)
    props.append(shd)


def table(doc, header, rows):
    grid = doc.add_table(rows=len(rows) + 1, cols=len(header))
    grid.style = "Table Grid"
    for c, value in enumerate(header):
        grid.cell(0, c).text = value
    for r, row in enumerate(rows):
        for c, value in enumerate(row):
            grid.cell(r + 1, c).text = value
    return grid


def bars(doc, columns, rows):
    grid = doc.add_table(rows=len(rows) + 1, cols=len(columns) + 2)
    grid.style = "Table Grid"
    for c, value in enumerate(columns):
        grid.cell(0, c + 1).text = value
    for r, (label, fill, first, last, caption) in enumerate(rows):
        grid.cell(r + 1, 0).text = label
        for c in range(first, last + 1):
            shade(grid.cell(r + 1, c + 1), fill)
        grid.cell(r + 1, len(columns) + 1).text = caption
    return grid

`

// PythonDocument serializes d as a python-docx program. The program saves the document to
// the path given as its first argument.
func PythonDocument(d Document) []byte {
	var p program
	p.WriteString(documentPrelude)
	p.line("")
	p.line("doc = Document()")
	p.line("doc.core_properties.title = %s", Quote(d.Title))
	for _, bl := range d.Blocks {
		switch v := bl.(type) {
		case Heading:
			p.line("doc.add_heading(%s, level=%d)", Quote(v.Text), min(max(v.Level, 0), 9))
		case Paragraph:
			p.line("doc.add_paragraph(%s)", Quote(v.Text))
		case Table:
			if len(v.Header) == 0 {
				continue
			}
			p.line("table(doc, %s, %s)", quoteList(v.Header), quoteRows(v.Rows))
		case Bars:
			if len(v.Columns) == 0 {
				continue
			}
			rows := make([]string, len(v.Rows))
			for i, r := range v.Rows {
				rows[i] = fmt.Sprintf("(%s, %s, %d, %d, %s)", Quote(r.Label), Quote(hex(r.Color)), r.First, r.Last, Quote(r.Caption))
			}
			p.line("bars(doc, %s, [%s])", quoteList(v.Columns), strings.Join(rows, ", "))
		}
	}
	p.line("")
	p.line("doc.save(sys.argv[1])")
	return []byte(p.String())
}
