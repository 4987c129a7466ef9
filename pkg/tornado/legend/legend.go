// Package legend lays out the series legend above the chart and reports the
// height it occupies. The layout engine subtracts that height from the
// viewport before sizing rows.
package legend

import (
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Legend metrics in pixels.
const (
	IconSize    = 10.0
	IconGap     = 5.0
	ItemSpacing = 15.0
	RowPadding  = 6.0
)

// Item is one positioned legend entry. X/Y is the top-left of the icon;
// the label baseline sits at TextY.
type Item struct {
	model.LegendEntry
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	TextX float64 `json:"textX"`
	TextY float64 `json:"textY"`
	Text  string  `json:"text"`
}

// Legend is the positioned legend.
type Legend struct {
	Height   float64 `json:"height"`
	FontSize float64 `json:"fontSize,omitempty"`
	Fill     string  `json:"fill,omitempty"`
	Items    []Item  `json:"items,omitempty"`
}

// Layout flows entries left to right and wraps onto a new row when the next
// entry would exceed width. Labels wider than the viewport are truncated.
func Layout(entries []model.LegendEntry, width float64, font text.Font, ms text.Measurer) Legend {
	if len(entries) == 0 || width <= 0 {
		return Legend{}
	}
	textH := 0.0
	for _, e := range entries {
		textH = max(textH, ms.MeasureHeight(e.Label, font))
	}
	rowH := max(textH, IconSize) + RowPadding

	var items []Item
	x, row := 0.0, 0
	for _, e := range entries {
		label := ms.Truncate(e.Label, font, width-IconSize-IconGap)
		w := IconSize + IconGap + ms.MeasureWidth(label, font)
		if x > 0 && x+w > width {
			x = 0
			row++
		}
		y := float64(row) * rowH
		items = append(items, Item{
			LegendEntry: e,
			X:           x,
			Y:           y + (rowH-IconSize)/2,
			TextX:       x + IconSize + IconGap,
			TextY:       y + rowH/2 + textH/2,
			Text:        label,
		})
		x += w + ItemSpacing
	}
	return Legend{Height: float64(row+1) * rowH, FontSize: font.Size, Items: items}
}

// ForModel lays out the legend of m with its configured font and fill. A
// nil model or a hidden legend yields the zero Legend.
func ForModel(m *model.Model, width float64, ms text.Measurer) Legend {
	if m == nil || !m.Settings.ShowLegend {
		return Legend{}
	}
	lg := Layout(m.Legend, width, Font(m), ms)
	lg.Fill = m.Settings.LegendFill
	return lg
}

// Measure reports the height the legend occupies, or 0 when it is hidden.
func Measure(m *model.Model, width float64, ms text.Measurer) float64 {
	return ForModel(m, width, ms).Height
}

// Font returns the legend font of m.
func Font(m *model.Model) text.Font {
	return text.Font{Family: text.DefaultFamily, Size: m.Settings.LegendFontSize}
}
