package layout

import (
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Context carries every value shared between layout stages. It is computed
// once per build and never mutated afterwards.
type Context struct {
	Viewport Viewport `json:"viewport"`
	Sections Sections `json:"sections"`

	// Top is the vertical offset of the chart below the legend.
	Top         float64 `json:"top"`
	ChartHeight float64 `json:"chartHeight"`
	RowHeight   float64 `json:"rowHeight"`
	Padding     float64 `json:"padding"`

	// RegionWidth is the horizontal space of one series: the full chart
	// region for one series, half of it for two.
	RegionWidth float64 `json:"regionWidth"`

	Min float64 `json:"min"`
	Max float64 `json:"max"`

	SeriesCount   int `json:"seriesCount"`
	CategoryCount int `json:"categoryCount"`

	LabelFont    text.Font `json:"labelFont"`
	CategoryFont text.Font `json:"categoryFont"`
}

// ChartWidth returns the width of the chart region.
func (c Context) ChartWidth() float64 { return c.Sections.Right }

// RowTop returns the top edge of row i.
func (c Context) RowTop(i int) float64 {
	return float64(i) * (c.RowHeight + c.Padding)
}

// NewContext computes the layout context of m for viewport vp. A nil model
// yields a context with no rows.
func NewContext(m *model.Model, vp Viewport, opts ...Option) Context {
	o := newOptions(opts)
	ctx := Context{
		Viewport:    vp,
		Padding:     Padding,
		Top:         o.legendHeight,
		ChartHeight: max(0, vp.Height-o.legendHeight),
	}
	if m == nil {
		return ctx
	}
	cfg := m.Settings
	ctx.Sections = SizeSections(cfg.Sections, cfg.ShowCategories, vp.Width)
	ctx.SeriesCount = len(m.Series)
	ctx.CategoryCount = len(m.Categories)
	ctx.Min, ctx.Max = m.Range()

	ctx.RegionWidth = ctx.Sections.Right
	if ctx.SeriesCount == 2 {
		ctx.RegionWidth /= 2
	}
	if n := ctx.CategoryCount; n > 0 {
		ctx.RowHeight = max(0, (ctx.ChartHeight-float64(n-1)*ctx.Padding)/float64(n))
	}
	ctx.LabelFont = text.Font{Family: text.DefaultFamily, Size: cfg.LabelFontSize}
	ctx.CategoryFont = text.Font{Family: text.DefaultFamily, Size: cfg.CategoryFontSize}
	return ctx
}
