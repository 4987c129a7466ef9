package layout

import (
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Axis returns the center divider, or nil unless exactly two series are
// drawn.
func Axis(ctx Context) *AxisLine {
	if ctx.SeriesCount != 2 {
		return nil
	}
	x := ctx.ChartWidth() / 2
	return &AxisLine{X1: x, Y1: 0, X2: x, Y2: ctx.ChartHeight}
}

// CategoryTexts returns one category name per row, vertically centered and
// truncated to the category region. It returns nil when categories are
// hidden.
func CategoryTexts(ctx Context, m *model.Model, ms text.Measurer) []CategoryText {
	if m == nil || !m.Settings.ShowCategories || len(m.Categories) == 0 {
		return nil
	}
	maxWidth := max(0, ctx.Sections.Left-CategoryMargin)
	out := make([]CategoryText, len(m.Categories))
	for i, name := range m.Categories {
		txt := ms.Truncate(name, ctx.CategoryFont, maxWidth)
		h := ms.MeasureHeight(txt, ctx.CategoryFont)
		out[i] = CategoryText{
			Index:  i,
			X:      0,
			Y:      ctx.RowTop(i) + ctx.RowHeight/2 + h/2,
			Text:   txt,
			Fill:   m.Settings.CategoriesFill,
			Width:  ms.MeasureWidth(txt, ctx.CategoryFont),
			Height: h,
		}
	}
	return out
}
