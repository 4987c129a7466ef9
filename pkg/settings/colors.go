package settings

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NoPaletteIndex disables the palette step of [Resolver.Resolve].
const NoPaletteIndex = -1

// DefaultPalette returns the series palette used when settings carry none.
func DefaultPalette() []string {
	return []string{
		"#01b8aa", "#374649", "#fd625e", "#f2c80f",
		"#5f6b6d", "#8ad4eb", "#fe9666", "#a66999",
	}
}

// ParseColor validates a hex color ("#rgb" or "#rrggbb", leading '#'
// optional) and returns it normalised to lower-case "#rrggbb".
func ParseColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if s[0] != '#' {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return "", false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

// Resolver implements the shared color resolution policy:
// explicit override, then palette entry by series index, then default.
type Resolver struct {
	Palette []string
}

// NewResolver returns a Resolver over the sanitized palette of s.
func NewResolver(s Settings) Resolver {
	return Resolver{Palette: s.Palette}
}

// Resolve returns the color for one property. Pass [NoPaletteIndex] for
// properties that are not tied to a series.
func (r Resolver) Resolve(override string, paletteIndex int, def string) string {
	if c, ok := ParseColor(override); ok {
		return c
	}
	if paletteIndex >= 0 && len(r.Palette) > 0 {
		if c, ok := ParseColor(r.Palette[paletteIndex%len(r.Palette)]); ok {
			return c
		}
	}
	if c, ok := ParseColor(def); ok {
		return c
	}
	return def
}

// Series resolves the fill of the series at index i. Explicit overrides come
// from the column metadata first and then from [Settings.SeriesFills].
func (r Resolver) Series(s Settings, name, sourceFill string, i int) string {
	override := sourceFill
	if _, ok := ParseColor(override); !ok {
		override = s.SeriesFills[name]
	}
	return r.Resolve(override, i, DefaultSeriesFill)
}

// Blend mixes two colors in Lab space. t=0 returns a, t=1 returns b.
// Invalid inputs fall back to the other color.
func Blend(a, b string, t float64) string {
	ca, errA := colorful.Hex(mustHash(a))
	cb, errB := colorful.Hex(mustHash(b))
	switch {
	case errA != nil && errB != nil:
		return a
	case errA != nil:
		return cb.Hex()
	case errB != nil:
		return ca.Hex()
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}

// RGB returns the 8-bit components of a hex color, or black when invalid.
func RGB(s string) (r, g, b uint8) {
	c, err := colorful.Hex(mustHash(s))
	if err != nil {
		return 0, 0, 0
	}
	return c.RGB255()
}

func mustHash(s string) string {
	if hex, ok := ParseColor(s); ok {
		return hex
	}
	return s
}
