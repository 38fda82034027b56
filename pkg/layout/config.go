package layout

import "github.com/harrisonrobin/gantta/pkg/colors"

// Config holds every dimension the layout depends on. It is passed by value and never
// modified by the engine.
type Config struct {
	Width        float64 `yaml:"width" validate:"gt=0"`
	MarginLeft   float64 `yaml:"margin_left" validate:"gte=0"`
	MarginRight  float64 `yaml:"margin_right" validate:"gte=0"`
	MarginTop    float64 `yaml:"margin_top" validate:"gte=0"`
	MarginBottom float64 `yaml:"margin_bottom" validate:"gte=0"`

	BarHeight   float64 `yaml:"bar_height" validate:"gt=4"`
	BarSpacing  float64 `yaml:"bar_spacing" validate:"gte=0"`
	MinBarWidth float64 `yaml:"min_bar_width" validate:"gte=0"`
	// BarLabelMinWidth is the width a bar needs before its duration is printed on it.
	BarLabelMinWidth float64 `yaml:"bar_label_min_width" validate:"gte=0"`

	MinGridLines    int `yaml:"min_grid_lines" validate:"gte=1"`
	MaxGridLines    int `yaml:"max_grid_lines" validate:"gtefield=MinGridLines"`
	DaysPerGridLine int `yaml:"days_per_grid_line" validate:"gte=1"`

	TaskLabelMax     int `yaml:"task_label_max" validate:"gte=1"`
	CategoryLabelMax int `yaml:"category_label_max" validate:"gte=1"`
	LegendLabelMax   int `yaml:"legend_label_max" validate:"gte=1"`

	LegendColumns     int     `yaml:"legend_columns" validate:"gte=1"`
	LegendColumnWidth float64 `yaml:"legend_column_width" validate:"gt=0"`
	LegendRowHeight   float64 `yaml:"legend_row_height" validate:"gt=0"`
	// LegendOffset is the distance between the bottom of the chart and the first legend row.
	LegendOffset float64 `yaml:"legend_offset" validate:"gte=0"`
	LegendSwatch float64 `yaml:"legend_swatch" validate:"gt=0"`

	TitleY    float64 `yaml:"title_y" validate:"gte=0"`
	SubtitleY float64 `yaml:"subtitle_y" validate:"gte=0"`

	Palette []string `yaml:"palette" validate:"dive,hexcolor,len=7"`
}

// DefaultConfig returns the standard 1200px wide chart.
func DefaultConfig() Config {
	return Config{
		Width:        1200,
		MarginLeft:   280,
		MarginRight:  40,
		MarginTop:    80,
		MarginBottom: 60,

		BarHeight:        28,
		BarSpacing:       8,
		MinBarWidth:      4,
		BarLabelMinWidth: 40,

		MinGridLines:    4,
		MaxGridLines:    12,
		DaysPerGridLine: 30,

		TaskLabelMax:     30,
		CategoryLabelMax: 25,
		LegendLabelMax:   35,

		LegendColumns:     4,
		LegendColumnWidth: 280,
		LegendRowHeight:   20,
		LegendOffset:      40,
		LegendSwatch:      12,

		TitleY:    35,
		SubtitleY: 55,

		Palette: append([]string(nil), colors.DefaultPalette...),
	}
}

// withDefaults replaces the fields a zero value would make unusable with their defaults.
// Zero margins and spacing are legitimate and kept.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.BarHeight <= 0 {
		c.BarHeight = def.BarHeight
	}
	if c.DaysPerGridLine < 1 {
		c.DaysPerGridLine = def.DaysPerGridLine
	}
	if c.MinGridLines < 1 {
		c.MinGridLines = def.MinGridLines
	}
	if c.MaxGridLines < c.MinGridLines {
		c.MaxGridLines = max(def.MaxGridLines, c.MinGridLines)
	}
	if c.LegendColumns < 1 {
		c.LegendColumns = def.LegendColumns
	}
	if c.LegendColumnWidth <= 0 {
		c.LegendColumnWidth = def.LegendColumnWidth
	}
	if c.LegendRowHeight <= 0 {
		c.LegendRowHeight = def.LegendRowHeight
	}
	if c.LegendSwatch <= 0 {
		c.LegendSwatch = def.LegendSwatch
	}
	if c.TaskLabelMax < 1 {
		c.TaskLabelMax = def.TaskLabelMax
	}
	if c.CategoryLabelMax < 1 {
		c.CategoryLabelMax = def.CategoryLabelMax
	}
	if c.LegendLabelMax < 1 {
		c.LegendLabelMax = def.LegendLabelMax
	}
	return c
}

// RowHeight is the height of one task band.
func (c Config) RowHeight() float64 {
	return c.BarHeight + c.BarSpacing
}

// ChartWidth is the horizontal space available to bars.
func (c Config) ChartWidth() float64 {
	return c.Width - c.MarginLeft - c.MarginRight
}
