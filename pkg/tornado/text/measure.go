package text

import (
	"math"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/tornado/pkg/fonts"
)

// Ratios used by [Approx].
const (
	approxCharWidth  = 0.55
	approxLineHeight = 1.2
)

// Approx estimates text extents from the rune count and the font size. It
// needs no font data and is fully deterministic.
type Approx struct{}

func (Approx) MeasureWidth(s string, f Font) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size * approxCharWidth
}

func (Approx) MeasureHeight(s string, f Font) float64 {
	if s == "" {
		return 0
	}
	return f.Size * approxLineHeight
}

func (a Approx) Truncate(s string, f Font, maxWidth float64) string {
	return TruncateFunc(func(s string) float64 { return a.MeasureWidth(s, f) }, s, maxWidth)
}

// CellMeasurer measures in terminal cells: width is the display width of
// the string (wide runes count double) and height is one row. The font is
// ignored.
type CellMeasurer struct{}

func (CellMeasurer) MeasureWidth(s string, _ Font) float64 {
	return float64(runewidth.StringWidth(s))
}

func (CellMeasurer) MeasureHeight(s string, _ Font) float64 {
	if s == "" {
		return 0
	}
	return 1
}

func (CellMeasurer) Truncate(s string, _ Font, maxWidth float64) string {
	w := int(math.Floor(maxWidth))
	if runewidth.StringWidth(s) <= w {
		return s
	}
	if runewidth.StringWidth(Ellipsis) > w {
		return ""
	}
	return runewidth.Truncate(s, w, Ellipsis)
}

// FaceMeasurer measures with real glyph advances of the embedded Go Regular
// face. Faces are cached per size; a FaceMeasurer is safe for concurrent
// use.
type FaceMeasurer struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewFaceMeasurer parses the embedded face.
func NewFaceMeasurer() (*FaceMeasurer, error) {
	f, err := fonts.Regular()
	if err != nil {
		return nil, err
	}
	return &FaceMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

func (m *FaceMeasurer) face(size float64) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[size] = face
	return face, nil
}

func (m *FaceMeasurer) MeasureWidth(s string, f Font) float64 {
	face, err := m.face(f.Size)
	if err != nil {
		return Approx{}.MeasureWidth(s, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fixedToFloat(font.MeasureString(face, s))
}

func (m *FaceMeasurer) MeasureHeight(s string, f Font) float64 {
	if s == "" {
		return 0
	}
	face, err := m.face(f.Size)
	if err != nil {
		return Approx{}.MeasureHeight(s, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	metrics := face.Metrics()
	return fixedToFloat(metrics.Ascent + metrics.Descent)
}

func (m *FaceMeasurer) Truncate(s string, f Font, maxWidth float64) string {
	return TruncateFunc(func(s string) float64 { return m.MeasureWidth(s, f) }, s, maxWidth)
}

// Close releases the cached faces.
func (m *FaceMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for size, face := range m.faces {
		face.Close()
		delete(m.faces, size)
	}
	return nil
}

func fixedToFloat[T ~int32](v T) float64 {
	return float64(v) / 64
}
