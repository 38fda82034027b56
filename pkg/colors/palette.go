package colors

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPalette is the fixed, ordered set of category colors.
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
	"#6b6ecf", "#b5cf6b", "#d6616b", "#ce6dbd", "#de9ed6",
}

// CalendarColorIDs is the number of event colors Google Calendar offers ("1".."11").
const CalendarColorIDs = 11

// Assignment maps each category to a palette color, in first-seen order.
// Once there are more categories than colors, colors repeat cyclically.
type Assignment struct {
	order   []string
	index   map[string]int
	palette []string
}

// Assign gives every distinct category a color. Duplicates after the first occurrence
// are ignored, so the result only depends on first-seen order.
func Assign(categories []string, palette []string) Assignment {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	a := Assignment{
		index:   make(map[string]int, len(categories)),
		palette: palette,
	}
	for _, c := range categories {
		if _, exists := a.index[c]; exists {
			continue
		}
		a.index[c] = len(a.order)
		a.order = append(a.order, c)
	}
	return a
}

// Color returns the color of category, or the first palette color for an unknown one.
func (a Assignment) Color(category string) string {
	i, ok := a.index[category]
	if !ok {
		return a.palette[0]
	}
	return a.palette[i%len(a.palette)]
}

// Index returns the first-seen position of category, or -1.
func (a Assignment) Index(category string) int {
	if i, ok := a.index[category]; ok {
		return i
	}
	return -1
}

// CalendarColorID maps a category onto one of the Google Calendar event colors.
func (a Assignment) CalendarColorID(category string) string {
	i := a.Index(category)
	if i < 0 {
		i = 0
	}
	return colorIndexToString(i%CalendarColorIDs + 1)
}

// Categories returns the categories in assignment order.
func (a Assignment) Categories() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a Assignment) Len() int {
	return len(a.order)
}

// RGB decodes a "#rrggbb" color token.
func RGB(token string) (r, g, b int, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(token), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", token)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", token, err)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}

func colorIndexToString(i int) string {
	return strconv.Itoa(i)
}
