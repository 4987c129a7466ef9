package layout

import (
	"math"

	"github.com/matzehuels/tornado/pkg/tornado/model"
)

// Columns returns one bar per (series, category) pair, ordered by series
// then category. Column.Index is the position in that order.
//
// Widths scale linearly from ctx.Min to ctx.Max onto [0, RegionWidth].
// When Min == Max every bar spans the full region.
func Columns(ctx Context, m *model.Model) []Column {
	if m == nil || ctx.CategoryCount == 0 {
		return nil
	}
	cols := make([]Column, 0, ctx.SeriesCount*ctx.CategoryCount)
	for si, s := range m.Series {
		mirrored := ctx.SeriesCount == 2 && si == 0
		for ci := range m.Categories {
			v := s.Values[ci]
			w := barWidth(ctx, v)
			c := Column{
				Series:   si,
				Category: ci,
				Index:    len(cols),
				Name:     s.Name,
				X:        0,
				Y:        ctx.RowTop(ci),
				Width:    w,
				Height:   ctx.RowHeight,
				Value:    v,
				Fill:     s.Fill,
				Opacity:  1,
				Tooltip:  m.Tooltip(si, ci),
			}
			switch {
			case mirrored:
				c.DX = ctx.RegionWidth - w
				c.Angle = 180
			case ctx.SeriesCount == 2:
				c.DX = ctx.RegionWidth
			}
			c.PX = c.DX + w/2
			c.PY = c.Y + c.Height/2
			cols = append(cols, c)
		}
	}
	return cols
}

func barWidth(ctx Context, v float64) float64 {
	if ctx.Min == ctx.Max {
		return ctx.RegionWidth
	}
	// Halved operands keep the span finite for values near ±MaxFloat64.
	num, span := v/2-ctx.Min/2, ctx.Max/2-ctx.Min/2
	w := ctx.RegionWidth * num / span
	if math.IsInf(w, 0) {
		w = ctx.RegionWidth * (num / span)
	}
	if math.IsNaN(w) {
		return 0
	}
	return max(0, min(ctx.RegionWidth, w))
}

// GrowsLeft reports whether a column extends leftward from the axis.
func GrowsLeft(c Column) bool { return c.Angle == 180 }
