package layout

import "github.com/matzehuels/tornado/pkg/settings"

// Sections holds the pixel widths of the category-text region (Left) and
// the chart region (Right).
type Sections struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// SizeSections converts the configured section boundary into pixel widths
// for a viewport of width vw.
//
// When categories are hidden the left region collapses to zero and the right
// boundary is recomputed from the configured left value as 100-left
// (percent) or vw-left (pixels) before conversion.
func SizeSections(b settings.Sections, showCategories bool, vw float64) Sections {
	toPixels := func(v float64) float64 {
		if b.IsPercent {
			return v * vw / 100
		}
		return v
	}
	if !showCategories {
		right := vw - b.Left
		if b.IsPercent {
			right = 100 - b.Left
		}
		return Sections{Left: 0, Right: max(0, toPixels(right))}
	}
	return Sections{Left: toPixels(b.Left), Right: toPixels(b.Right)}
}
