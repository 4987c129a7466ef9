package layout

import (
	"github.com/matzehuels/tornado/pkg/tornado/legend"
	"github.com/matzehuels/tornado/pkg/tornado/model"
)

// Geometry constants in pixels.
const (
	// Padding separates adjacent rows.
	Padding = 10.0

	// LabelMargin separates an outside label from the end of its bar.
	LabelMargin = 5.0

	// CategoryMargin is kept free between category text and the chart.
	CategoryMargin = 5.0
)

// Viewport is the drawing area handed to the chart.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Column is the geometry of one bar. The drawn rectangle is
// (X+DX, Y+DY, Width, Height) rotated by Angle degrees about (PX, PY).
type Column struct {
	Series   int    `json:"series"`
	Category int    `json:"category"`
	Index    int    `json:"index"`
	Name     string `json:"name"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	PX     float64 `json:"px"`
	PY     float64 `json:"py"`
	Angle  float64 `json:"angle"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Value   float64 `json:"value"`
	Fill    string  `json:"fill"`
	Opacity float64 `json:"opacity"`

	Label   Label               `json:"label"`
	Tooltip []model.TooltipItem `json:"tooltip"`
}

// Left returns the left edge of the drawn bar after rotation. Rotating by
// 180° about the bar's own center leaves its extent unchanged.
func (c Column) Left() float64 { return c.X + c.DX }

// Right returns the right edge of the drawn bar.
func (c Column) Right() float64 { return c.X + c.DX + c.Width }

// Label is the value label of one bar. The text extent spans
// [X+DX, X+DX+Width] horizontally; Y+DY is the text baseline.
type Label struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	Value   float64 `json:"value"`
	Text    string  `json:"text"`
	Fill    string  `json:"fill"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Inside  bool    `json:"inside"`
	Visible bool    `json:"visible"`
}

// AxisLine is the vertical divider between the two series.
type AxisLine struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// CategoryText is one category name in the left region. Y is the baseline.
type CategoryText struct {
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Fill   string  `json:"fill"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout is the complete geometry of one chart.
type Layout struct {
	Context       Context        `json:"context"`
	Columns       []Column       `json:"columns"`
	LabelsVisible bool           `json:"labelsVisible"`
	Axis          *AxisLine      `json:"axis,omitempty"`
	Categories    []CategoryText `json:"categories,omitempty"`
	Legend        legend.Legend  `json:"legend"`
}

// Empty reports whether the layout draws no bars.
func (l Layout) Empty() bool { return len(l.Columns) == 0 }

// SeriesCount returns the number of series the layout was built for.
func (l Layout) SeriesCount() int { return l.Context.SeriesCount }
