package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/tornado/pkg/fonts"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/legend"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
	faces      map[float64]font.Face
	font       *opentype.Font
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGBackground sets the background fill (default white).
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// RenderPNG rasterises the layout with the embedded Go Regular face.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#ffffff", faces: make(map[float64]font.Face)}
	for _, opt := range opts {
		opt(&r)
	}
	f, err := fonts.Regular()
	if err != nil {
		return nil, err
	}
	r.font = f
	defer r.close()

	ctx := l.Context
	w := max(1, int(math.Ceil(ctx.Viewport.Width*r.scale)))
	h := max(1, int(math.Ceil(ctx.Viewport.Height*r.scale)))
	dc := gg.NewContext(w, h)
	if _, ok := settings.ParseColor(r.background); ok {
		setColor(dc, r.background, 1)
		dc.Clear()
	}

	if !l.Empty() {
		if err := r.drawLegend(dc, l); err != nil {
			return nil, err
		}
		if err := r.drawChart(dc, l); err != nil {
			return nil, err
		}
		if err := r.drawCategories(dc, l); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) face(size float64) (font.Face, error) {
	size *= r.scale
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

func (r *pngRenderer) close() {
	for _, f := range r.faces {
		f.Close()
	}
}

func (r *pngRenderer) text(dc *gg.Context, s string, x, y, size float64, fill string) error {
	if s == "" {
		return nil
	}
	face, err := r.face(size)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	setColor(dc, fill, 1)
	dc.DrawString(s, x*r.scale, y*r.scale)
	return nil
}

func (r *pngRenderer) drawLegend(dc *gg.Context, l layout.Layout) error {
	for _, it := range l.Legend.Items {
		setColor(dc, it.Color, 1)
		dc.DrawRectangle(it.X*r.scale, it.Y*r.scale, legend.IconSize*r.scale, legend.IconSize*r.scale)
		dc.Fill()
		if err := r.text(dc, it.Text, it.TextX, it.TextY, l.Legend.FontSize, l.Legend.Fill); err != nil {
			return err
		}
	}
	return nil
}

func (r *pngRenderer) drawChart(dc *gg.Context, l layout.Layout) error {
	ctx := l.Context
	ox, oy := ctx.Sections.Left, ctx.Top
	for _, c := range l.Columns {
		// A 180° turn about the bar's own center keeps its extent.
		setColor(dc, c.Fill, c.Opacity)
		dc.DrawRectangle((ox+c.Left())*r.scale, (oy+c.Y+c.DY)*r.scale, c.Width*r.scale, c.Height*r.scale)
		dc.Fill()
	}
	if l.LabelsVisible {
		for _, c := range l.Columns {
			lb := c.Label
			if !lb.Visible {
				continue
			}
			if err := r.text(dc, lb.Text, ox+lb.X+lb.DX, oy+lb.Y+lb.DY, ctx.LabelFont.Size, lb.Fill); err != nil {
				return err
			}
		}
	}
	if a := l.Axis; a != nil {
		setColor(dc, axisStroke, 1)
		dc.SetLineWidth(r.scale)
		dc.DrawLine((ox+a.X1)*r.scale, (oy+a.Y1)*r.scale, (ox+a.X2)*r.scale, (oy+a.Y2)*r.scale)
		dc.Stroke()
	}
	return nil
}

func (r *pngRenderer) drawCategories(dc *gg.Context, l layout.Layout) error {
	for _, ct := range l.Categories {
		if err := r.text(dc, ct.Text, ct.X, l.Context.Top+ct.Y, l.Context.CategoryFont.Size, ct.Fill); err != nil {
			return err
		}
	}
	return nil
}

func setColor(dc *gg.Context, hex string, alpha float64) {
	cr, cg, cb := settings.RGB(hex)
	dc.SetRGBA255(int(cr), int(cg), int(cb), int(math.Round(alpha*255)))
}
