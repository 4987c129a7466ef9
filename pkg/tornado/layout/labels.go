package layout

import (
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Labels places the value label of every column in place and reports
// whether the label layer is visible.
//
// A label goes centered inside its bar when the bar is wider than the text,
// otherwise just past the bar's growing end. The layer is hidden as a whole
// when labels are switched off or any label is taller than a row. A label
// whose extent leaves the chart region is hidden on its own.
func Labels(ctx Context, m *model.Model, cols []Column, ms text.Measurer) bool {
	if m == nil {
		return false
	}
	cfg := m.Settings
	layerVisible := cfg.ShowLabels
	for i := range cols {
		c := &cols[i]
		txt := ms.Truncate(m.Formatter.Format(c.Value), ctx.LabelFont, cfg.LabelMaxWidth)
		w := ms.MeasureWidth(txt, ctx.LabelFont)
		h := ms.MeasureHeight(txt, ctx.LabelFont)
		if h > ctx.RowHeight {
			layerVisible = false
		}
		c.Label = placeLabel(*c, txt, w, h, cfg.LabelInsideFill, cfg.LabelOutsideFill)
	}
	for i := range cols {
		l := &cols[i].Label
		l.Visible = layerVisible && !clipped(ctx, *l)
	}
	return layerVisible
}

func placeLabel(c Column, txt string, w, h float64, insideFill, outsideFill string) Label {
	l := Label{
		X:      c.X,
		Y:      c.Y,
		DY:     c.Height/2 + h/2,
		Value:  c.Value,
		Text:   txt,
		Width:  w,
		Height: h,
	}
	switch {
	case c.Width > w:
		l.Inside = true
		l.Fill = insideFill
		l.DX = c.DX + (c.Width-w)/2
	case GrowsLeft(c):
		l.Fill = outsideFill
		l.DX = c.DX - LabelMargin - w
	default:
		l.Fill = outsideFill
		l.DX = c.DX + c.Width + LabelMargin
	}
	return l
}

func clipped(ctx Context, l Label) bool {
	left := l.X + l.DX
	return left < 0 || left+l.Width > ctx.ChartWidth()
}
