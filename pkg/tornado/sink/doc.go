// Package sink provides output format renderers for tornado layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format:
//
//   - SVG: vector output, optionally with click-to-highlight interaction
//   - JSON: the layout itself, re-readable with [ParseJSON]
//   - PNG: raster output drawn natively with fogleman/gg
//   - PDF: print output (requires rsvg-convert)
//
// Sinks never compute geometry; they draw exactly what the layout says. An
// empty layout renders as an empty frame of the viewport size.
//
//	svg := sink.RenderSVG(l, sink.WithInteraction(), sink.WithTooltips())
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
package sink

import (
	"math"
	"strconv"
)

const axisStroke = "#8c8c8c"

// formatFloat prints coordinates with at most two decimals and no trailing
// zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
