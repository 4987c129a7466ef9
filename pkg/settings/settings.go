// Package settings holds the strongly typed configuration of a tornado chart.
//
// Hosts traditionally hand visuals a loosely typed property bag keyed by
// object/property name pairs. Here every property is a struct field with an
// explicit default ([Default]), a TOML representation ([File], [Load]) and a
// single validation pass ([Settings.Validate]). The normalizer calls
// [Settings.Sanitize], which is total: it clamps or resets every bad value
// instead of failing, so a chart can always be drawn.
package settings

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/tornado/pkg/errors"
)

// Default property values.
const (
	DefaultPrecision        = 0
	MaxPrecision            = 17
	DefaultLabelInsideFill  = "#ffffff"
	DefaultLabelOutsideFill = "#000000"
	DefaultCategoriesFill   = "#777777"
	DefaultLegendFill       = "#666666"
	DefaultSeriesFill       = "#01b8aa"
	DefaultFontSize         = 12.0
	DefaultLabelMaxWidth    = 80.0
	DefaultSectionLeft      = 20.0
	DefaultSectionRight     = 80.0
)

// Sections describes where the category-text region ends and the chart
// region begins. Left and Right are pixels, or percentages of the viewport
// width when IsPercent is set.
type Sections struct {
	Left      float64 `json:"left" toml:"left"`
	Right     float64 `json:"right" toml:"right"`
	IsPercent bool    `json:"isPercent" toml:"is_percent"`
}

// Settings is the full set of chart properties.
type Settings struct {
	// Precision is the number of decimals used for value labels. Zero lets
	// the formatter pick from the data.
	Precision int `json:"precision"`

	// Format is a number format string ("#,0.00", "0.0%", "$#,0"). Empty
	// means "use the format of the first value column".
	Format string `json:"format,omitempty"`

	ShowLabels     bool `json:"showLabels"`
	ShowLegend     bool `json:"showLegend"`
	ShowCategories bool `json:"showCategories"`

	LabelInsideFill  string `json:"labelInsideFill"`
	LabelOutsideFill string `json:"labelOutsideFill"`
	CategoriesFill   string `json:"categoriesFill"`
	LegendFill       string `json:"legendFill"`

	LabelFontSize    float64 `json:"labelFontSize"`
	CategoryFontSize float64 `json:"categoryFontSize"`
	LegendFontSize   float64 `json:"legendFontSize"`
	LabelMaxWidth    float64 `json:"labelMaxWidth"`

	Sections Sections `json:"sections"`

	// SeriesFills holds explicit per-series fill overrides keyed by series
	// display name.
	SeriesFills map[string]string `json:"seriesFills,omitempty"`

	// Palette is indexed by series position when no override exists.
	Palette []string `json:"palette,omitempty"`
}

// Default returns the settings used when a host supplies none.
func Default() Settings {
	return Settings{
		Precision:        DefaultPrecision,
		ShowLabels:       true,
		ShowLegend:       true,
		ShowCategories:   true,
		LabelInsideFill:  DefaultLabelInsideFill,
		LabelOutsideFill: DefaultLabelOutsideFill,
		CategoriesFill:   DefaultCategoriesFill,
		LegendFill:       DefaultLegendFill,
		LabelFontSize:    DefaultFontSize,
		CategoryFontSize: DefaultFontSize,
		LegendFontSize:   DefaultFontSize,
		LabelMaxWidth:    DefaultLabelMaxWidth,
		Sections: Sections{
			Left:      DefaultSectionLeft,
			Right:     DefaultSectionRight,
			IsPercent: true,
		},
		Palette: DefaultPalette(),
	}
}

// Validate reports the first invalid property. It is used at input
// boundaries (settings files, API requests) where the user should hear
// about mistakes; the layout path uses [Settings.Sanitize] instead.
func (s Settings) Validate() error {
	if s.Precision > MaxPrecision {
		return errors.New(errors.ErrCodeInvalidSettings, "precision %d exceeds maximum %d", s.Precision, MaxPrecision)
	}
	colors := []struct{ name, value string }{
		{"labels.inside_fill", s.LabelInsideFill},
		{"labels.outside_fill", s.LabelOutsideFill},
		{"categories.fill", s.CategoriesFill},
		{"legend.fill", s.LegendFill},
	}
	for name, fill := range s.SeriesFills {
		colors = append(colors, struct{ name, value string }{"data_point." + name, fill})
	}
	for i, c := range s.Palette {
		colors = append(colors, struct{ name, value string }{fmt.Sprintf("palette[%d]", i), c})
	}
	for _, c := range colors {
		if _, ok := ParseColor(c.value); !ok {
			return errors.New(errors.ErrCodeInvalidColor, "%s: invalid color %q", c.name, c.value)
		}
	}
	sizes := []struct {
		name  string
		value float64
	}{
		{"labels.font_size", s.LabelFontSize},
		{"categories.font_size", s.CategoryFontSize},
		{"legend.font_size", s.LegendFontSize},
		{"labels.max_width", s.LabelMaxWidth},
	}
	for _, sz := range sizes {
		if !positive(sz.value) {
			return errors.New(errors.ErrCodeInvalidSettings, "%s must be positive, got %g", sz.name, sz.value)
		}
	}
	if !nonNegative(s.Sections.Left) || !nonNegative(s.Sections.Right) {
		return errors.New(errors.ErrCodeInvalidSettings, "sections must be non-negative")
	}
	if s.Sections.IsPercent && s.Sections.Left+s.Sections.Right > 100 {
		return errors.New(errors.ErrCodeInvalidSettings, "sections exceed 100%% (left %g + right %g)", s.Sections.Left, s.Sections.Right)
	}
	return nil
}

// Sanitize returns a copy in which every out-of-range value has been clamped
// or reset to its default. Precision is clamped into [0, MaxPrecision].
func (s Settings) Sanitize() Settings {
	def := Default()
	out := s
	out.Precision = ClampPrecision(s.Precision)
	out.Format = strings.TrimSpace(s.Format)

	out.LabelInsideFill = colorOr(s.LabelInsideFill, def.LabelInsideFill)
	out.LabelOutsideFill = colorOr(s.LabelOutsideFill, def.LabelOutsideFill)
	out.CategoriesFill = colorOr(s.CategoriesFill, def.CategoriesFill)
	out.LegendFill = colorOr(s.LegendFill, def.LegendFill)

	out.LabelFontSize = sizeOr(s.LabelFontSize, def.LabelFontSize)
	out.CategoryFontSize = sizeOr(s.CategoryFontSize, def.CategoryFontSize)
	out.LegendFontSize = sizeOr(s.LegendFontSize, def.LegendFontSize)
	out.LabelMaxWidth = sizeOr(s.LabelMaxWidth, def.LabelMaxWidth)

	if !nonNegative(s.Sections.Left) || !nonNegative(s.Sections.Right) {
		out.Sections = def.Sections
	}

	if len(s.SeriesFills) > 0 {
		out.SeriesFills = make(map[string]string, len(s.SeriesFills))
		for name, fill := range s.SeriesFills {
			if c, ok := ParseColor(fill); ok {
				out.SeriesFills[name] = c
			}
		}
	}
	out.Palette = nil
	for _, c := range s.Palette {
		if hex, ok := ParseColor(c); ok {
			out.Palette = append(out.Palette, hex)
		}
	}
	return out
}

// ClampPrecision clamps a requested precision into [0, MaxPrecision].
func ClampPrecision(p int) int {
	return max(0, min(MaxPrecision, p))
}

func colorOr(c, def string) string {
	if hex, ok := ParseColor(c); ok {
		return hex
	}
	return def
}

func sizeOr(v, def float64) float64 {
	if positive(v) {
		return v
	}
	return def
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
