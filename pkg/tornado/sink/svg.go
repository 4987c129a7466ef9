package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/tornado/pkg/fonts"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/legend"
	"github.com/matzehuels/tornado/pkg/tornado/selection"
)

const columnInteractionCSS = `
    .column { cursor: pointer; transition: fill-opacity 0.2s ease; }
    .label, .category, .legend-text { pointer-events: none; }`

// The script mirrors selection.State: a bar click highlights the bar and,
// with two series, its mirror; a background click clears.
const columnInteractionJS = `
    (function() {
      var root = document.querySelector('svg.tornado');
      var cols = Array.prototype.slice.call(root.querySelectorAll('.column'));
      var series = parseInt(root.getAttribute('data-series'), 10);
      var dimmed = %s;
      function mirror(i) {
        var half = Math.floor(cols.length / 2);
        return i < half ? i + half : i - half;
      }
      function select(i) {
        cols.forEach(function(c) {
          var idx = parseInt(c.getAttribute('data-index'), 10);
          var keep = idx === i || (series === 2 && idx === mirror(i));
          c.setAttribute('fill-opacity', keep ? 1 : dimmed);
        });
      }
      function clear() {
        cols.forEach(function(c) { c.setAttribute('fill-opacity', 1); });
      }
      cols.forEach(function(c) {
        c.addEventListener('click', function(e) {
          e.stopPropagation();
          select(parseInt(c.getAttribute('data-index'), 10));
        });
      });
      root.addEventListener('click', clear);
    })();`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interactive bool
	embedFont   bool
	tooltips    bool
	background  string
}

// WithInteraction adds click-to-highlight behaviour.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithEmbeddedFont embeds the measuring face so browsers render text at the
// measured widths.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithTooltips adds a <title> tooltip to every bar.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// WithBackground sets the background fill. Empty means transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// RenderSVG renders the layout as an SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	ctx := l.Context
	w, h := ctx.Viewport.Width, ctx.Viewport.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="tornado" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-series="%d">`+"\n",
		w, h, w, h, ctx.SeriesCount)

	renderStyle(&buf, r)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, EscapeXML(r.background))
	}
	if !l.Empty() {
		renderLegend(&buf, l)
		renderChart(&buf, l, r.tooltips)
		renderCategories(&buf, l)
		if r.interactive {
			fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
				fmt.Sprintf(columnInteractionJS, formatFloat(selection.DimmedOpacity)))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStyle(buf *bytes.Buffer, r svgRenderer) {
	var css strings.Builder
	if r.embedFont {
		fmt.Fprintf(&css, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.RegularBase64())
	}
	fmt.Fprintf(&css, "\n    text { font-family: %s; }", fonts.FallbackFontFamily)
	if r.interactive {
		css.WriteString(columnInteractionCSS)
	}
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", css.String())
}

func renderLegend(buf *bytes.Buffer, l layout.Layout) {
	if len(l.Legend.Items) == 0 {
		return
	}
	buf.WriteString(`  <g class="legend">` + "\n")
	for _, it := range l.Legend.Items {
		fmt.Fprintf(buf, `    <rect class="legend-icon" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			formatFloat(it.X), formatFloat(it.Y), formatFloat(legend.IconSize), formatFloat(legend.IconSize), EscapeXML(it.Color))
		fmt.Fprintf(buf, `    <text class="legend-text" x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			formatFloat(it.TextX), formatFloat(it.TextY), formatFloat(l.Legend.FontSize), EscapeXML(l.Legend.Fill), EscapeXML(it.Text))
	}
	buf.WriteString("  </g>\n")
}

func renderChart(buf *bytes.Buffer, l layout.Layout, tooltips bool) {
	ctx := l.Context
	fmt.Fprintf(buf, `  <g class="chart" transform="translate(%s,%s)">`+"\n", formatFloat(ctx.Sections.Left), formatFloat(ctx.Top))
	for _, c := range l.Columns {
		fmt.Fprintf(buf, `    <rect class="column" id="column-%d" data-index="%d" data-series="%d" data-category="%d" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s"`,
			c.Index, c.Index, c.Series, c.Category,
			formatFloat(c.X+c.DX), formatFloat(c.Y+c.DY), formatFloat(c.Width), formatFloat(c.Height),
			EscapeXML(c.Fill), formatFloat(c.Opacity))
		if c.Angle != 0 {
			fmt.Fprintf(buf, ` transform="rotate(%s %s %s)"`, formatFloat(c.Angle), formatFloat(c.X+c.PX), formatFloat(c.PY))
		}
		if tooltips && len(c.Tooltip) > 0 {
			parts := make([]string, len(c.Tooltip))
			for i, item := range c.Tooltip {
				parts[i] = item.DisplayName + ": " + item.Value
			}
			fmt.Fprintf(buf, "><title>%s</title></rect>\n", EscapeXML(strings.Join(parts, "\n")))
		} else {
			buf.WriteString("/>\n")
		}
	}
	if l.LabelsVisible {
		for _, c := range l.Columns {
			lb := c.Label
			if !lb.Visible {
				continue
			}
			fmt.Fprintf(buf, `    <text class="label" x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
				formatFloat(lb.X+lb.DX), formatFloat(lb.Y+lb.DY), formatFloat(ctx.LabelFont.Size), EscapeXML(lb.Fill), EscapeXML(lb.Text))
		}
	}
	if a := l.Axis; a != nil {
		fmt.Fprintf(buf, `    <line class="axis" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			formatFloat(a.X1), formatFloat(a.Y1), formatFloat(a.X2), formatFloat(a.Y2), axisStroke)
	}
	buf.WriteString("  </g>\n")
}

func renderCategories(buf *bytes.Buffer, l layout.Layout) {
	if len(l.Categories) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <g class="categories" transform="translate(0,%s)">`+"\n", formatFloat(l.Context.Top))
	for _, ct := range l.Categories {
		fmt.Fprintf(buf, `    <text class="category" x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			formatFloat(ct.X), formatFloat(ct.Y), formatFloat(l.Context.CategoryFont.Size), EscapeXML(ct.Fill), EscapeXML(ct.Text))
	}
	buf.WriteString("  </g>\n")
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
