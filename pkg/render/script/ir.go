// Package script describes slide decks and text documents as a small tree of nodes and
// serializes that tree into Python programs for python-pptx and python-docx.
//
// Geometry comes from the layout model; user text only ever reaches the generated
// program through Quote.
package script

import (
	"fmt"
	"math"

	"github.com/harrisonrobin/gantta/pkg/colors"
)

// EMU is an English Metric Unit, the coordinate unit of OOXML documents.
type EMU int64

const (
	EMUPerInch  EMU = 914400
	EMUPerPoint EMU = 12700

	// 16:9 widescreen slide.
	SlideWidth  EMU = 12192000
	SlideHeight EMU = 6858000
)

// Scale converts layout pixels to EMU.
type Scale float64

// PixelScale is the uniform scale that fits a width x height pixel drawing into a slide.
func PixelScale(width, height float64) Scale {
	if width <= 0 || height <= 0 {
		return Scale(float64(EMUPerInch) / 96)
	}
	return Scale(math.Min(float64(SlideWidth)/width, float64(SlideHeight)/height))
}

func (s Scale) EMU(px float64) EMU {
	return EMU(math.Round(px * float64(s)))
}

// Points converts a pixel font size to points at this scale.
func (s Scale) Points(px float64) float64 {
	return math.Round(px*float64(s)/float64(EMUPerPoint)*10) / 10
}

// Box positions a shape on a slide.
type Box struct {
	X, Y, W, H EMU
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Shape is a node of a slide.
type Shape interface {
	shape()
}

// Block is a node of a document.
type Block interface {
	block()
}

type Rect struct {
	Box
	// Fill is a "#rrggbb" color.
	Fill string
}

type Text struct {
	Box
	Value string
	Size  float64
	Color string
	Bold  bool
	Align Align
}

type Line struct {
	X1, Y1, X2, Y2 EMU
	Color          string
}

// Table is placed with Box on a slide; in a document Box is ignored.
type Table struct {
	Box
	Header []string
	Rows   [][]string
}

type Slide struct {
	Title  string
	Shapes []Shape
}

type Deck struct {
	Width, Height EMU
	Slides        []Slide
}

type Heading struct {
	Text  string
	Level int
}

type Paragraph struct {
	Text string
}

// Bars is a coarse Gantt chart drawn as a table: one row per task, one column per grid
// interval, with the cells a task covers filled in its color.
type Bars struct {
	Columns []string
	Rows    []BarRow
}

type BarRow struct {
	Label string
	Color string
	// First and Last are the inclusive column range covered by the task.
	First, Last int
	Caption     string
}

type Document struct {
	Title  string
	Blocks []Block
}

func (Rect) shape()  {}
func (Text) shape()  {}
func (Line) shape()  {}
func (Table) shape() {}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Table) block()     {}
func (Bars) block()      {}

// hex turns a "#rrggbb" token into the "RRGGBB" form both Python libraries expect.
func hex(token string) string {
	r, g, b, err := colors.RGB(token)
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}
