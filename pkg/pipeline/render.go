package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tornado/pkg/tornado/sink"
)

// Render generates output artifacts for every requested format. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, doc sink.Document, opts Options) (map[string][]byte, error) {
	out := make([][]byte, len(opts.Formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, doc, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for i, format := range opts.Formats {
		artifacts[format] = out[i]
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, doc sink.Document, format string, opts Options) ([]byte, error) {
	l := doc.Layout
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOptions(opts)...), nil
	case FormatJSON:
		return doc.Encode()
	case FormatPNG:
		if opts.Rasterizer == RasterizerRSVG {
			return sink.RenderPNGRSVG(ctx, l, opts.Scale)
		}
		return sink.RenderPNG(l, sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, l)
	default:
		return nil, ValidateFormat(format)
	}
}

func svgOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if opts.Tooltips {
		svgOpts = append(svgOpts, sink.WithTooltips())
	}
	if opts.EmbedFont {
		svgOpts = append(svgOpts, sink.WithEmbeddedFont())
	}
	return svgOpts
}
