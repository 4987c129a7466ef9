// Package text measures and truncates label strings.
//
// The layout engine never touches fonts directly. It asks a [Measurer] for
// widths, heights and ellipsized strings, so the same geometry code serves a
// pixel surface ([FaceMeasurer], [Approx]) and a terminal surface
// ([CellMeasurer]).
package text

import "unicode/utf8"

// Ellipsis is appended to truncated strings.
const Ellipsis = "…"

// DefaultFamily is used when a Font names no family.
const DefaultFamily = "sans-serif"

// Font describes the face a string is measured in.
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
}

// Measurer is the text measurement service used by the layout engine.
//
// Truncate must return s unchanged when it fits, a prefix of s followed by
// [Ellipsis] whose measured width is at most maxWidth otherwise, and the
// empty string when not even the ellipsis fits.
type Measurer interface {
	MeasureWidth(s string, f Font) float64
	MeasureHeight(s string, f Font) float64
	Truncate(s string, f Font, maxWidth float64) string
}

// TruncateFunc implements the Truncate contract of [Measurer] on top of any
// width function. It binary-searches the longest rune prefix that fits.
func TruncateFunc(width func(string) float64, s string, maxWidth float64) string {
	if width(s) <= maxWidth {
		return s
	}
	if width(Ellipsis) > maxWidth {
		return ""
	}
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))

	// offsets[lo] always fits; find the largest such index.
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if width(s[:offsets[mid]]+Ellipsis) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return s[:offsets[lo]] + Ellipsis
}
