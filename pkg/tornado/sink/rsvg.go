package sink

import (
	"context"

	"github.com/matzehuels/tornado/pkg/render"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
)

// printable returns the SVG handed to rsvg-convert. The converter cannot
// resolve the browser font stack, so the Go face is embedded, and the page
// gets an opaque background.
func printable(l layout.Layout) []byte {
	return RenderSVG(l, WithBackground("#ffffff"), WithEmbeddedFont())
}

// RenderPDF converts the chart to a one-page PDF with rsvg-convert
// (librsvg2-bin on Debian, librsvg on Homebrew).
func RenderPDF(ctx context.Context, l layout.Layout) ([]byte, error) {
	return render.ToPDF(ctx, printable(l))
}

// RenderPNGRSVG rasterizes the chart with rsvg-convert instead of the
// built-in painter of [RenderPNG].
func RenderPNGRSVG(ctx context.Context, l layout.Layout, scale float64) ([]byte, error) {
	return render.ToPNG(ctx, printable(l), scale)
}
