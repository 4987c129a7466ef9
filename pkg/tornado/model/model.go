// Package model converts a raw [dataview.DataView] into the canonical
// in-memory tornado model.
//
// [Convert] is the only entry point. It is total: malformed input yields a
// nil *Model (never a panic or an error), which every downstream stage treats
// as "draw nothing".
//
// Invariants of a non-nil Model:
//   - len(Series) is 1 or 2
//   - len(s.Values) == len(Categories) for every series
//   - Settings has been sanitized
package model

import (
	"math"

	"github.com/spf13/cast"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado/format"
)

// MaxSeries is the number of value columns a tornado chart draws.
const MaxSeries = 2

// LegendIcon is the marker shape of every legend entry.
const LegendIcon = "box"

// Series is one value column.
type Series struct {
	Name      string    `json:"name"`
	QueryName string    `json:"queryName,omitempty"`
	Fill      string    `json:"fill"`
	Values    []float64 `json:"values"`
}

// LegendEntry is one item handed to the legend widget.
type LegendEntry struct {
	Label    string `json:"label"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
	Selected bool   `json:"selected"`
}

// TooltipItem is one display-name/value pair of a bar tooltip.
type TooltipItem struct {
	DisplayName string `json:"displayName"`
	Value       string `json:"value"`
}

// Model is the canonical chart model.
type Model struct {
	CategoryName string            `json:"categoryName"`
	Categories   []string          `json:"categories"`
	Series       []Series          `json:"series"`
	Legend       []LegendEntry     `json:"legend"`
	Settings     settings.Settings `json:"settings"`
	Formatter    format.Formatter  `json:"-"`
}

// Convert normalizes dv. A nil s falls back to [settings.Default]. It
// returns nil when dv has no category column, no category source metadata
// or no value columns.
func Convert(dv *dataview.DataView, s *settings.Settings) *Model {
	if dv == nil || len(dv.Categories) == 0 || len(dv.Values) == 0 {
		return nil
	}
	cat := dv.Categories[0]
	if cat.Source == nil {
		return nil
	}

	cfg := settings.Default()
	if s != nil {
		cfg = *s
	}
	cfg = cfg.Sanitize()

	m := &Model{
		CategoryName: cat.Source.DisplayName,
		Categories:   make([]string, len(cat.Values)),
		Settings:     cfg,
	}
	for i, v := range cat.Values {
		m.Categories[i] = cast.ToString(v)
	}

	resolver := settings.NewResolver(cfg)
	columns := dv.Values
	if len(columns) > MaxSeries {
		columns = columns[:MaxSeries]
	}
	for i, col := range columns {
		src := col.Source
		if src == nil {
			src = &dataview.Source{}
		}
		series := Series{
			Name:      src.DisplayName,
			QueryName: src.QueryName,
			Values:    coerce(col.Values, len(m.Categories)),
		}
		series.Fill = resolver.Series(cfg, series.Name, src.Fill, i)
		m.Series = append(m.Series, series)
		m.Legend = append(m.Legend, LegendEntry{
			Label: series.Name,
			Color: series.Fill,
			Icon:  LegendIcon,
		})
	}

	fmtString := cfg.Format
	if fmtString == "" && columns[0].Source != nil {
		fmtString = columns[0].Source.Format
	}
	var sample float64
	if len(m.Series[0].Values) > 0 {
		sample = m.Series[0].Values[0]
	}
	m.Formatter = format.New(format.Options{
		Format:    fmtString,
		Precision: cfg.Precision,
		Value:     sample,
	})
	return m
}

// coerce converts raw cells to float64, aligned to n rows. Nulls and
// unparseable cells become 0; short columns are padded and long ones cut.
func coerce(values []any, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(values); i++ {
		v, err := cast.ToFloat64E(values[i])
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}

// Range returns the joint value bounds used for width normalization:
// min(0, all values) and max(all values).
func (m *Model) Range() (lo, hi float64) {
	first := true
	for _, s := range m.Series {
		for _, v := range s.Values {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return math.Min(0, lo), hi
}

// Tooltip returns the tooltip pairs of the bar for series si and category
// ci: the category and the formatted value.
func (m *Model) Tooltip(si, ci int) []TooltipItem {
	if si < 0 || si >= len(m.Series) || ci < 0 || ci >= len(m.Categories) {
		return nil
	}
	s := m.Series[si]
	return []TooltipItem{
		{DisplayName: m.CategoryName, Value: m.Categories[ci]},
		{DisplayName: s.Name, Value: m.Formatter.Format(s.Values[ci])},
	}
}

// Enumerate returns the current-settings snapshots of a property object.
// A nil model enumerates the defaults.
func (m *Model) Enumerate(object string) []settings.Instance {
	if m == nil {
		return settings.Default().Enumerate(object, nil)
	}
	refs := make([]settings.SeriesRef, len(m.Series))
	for i, s := range m.Series {
		sel := s.QueryName
		if sel == "" {
			sel = s.Name
		}
		refs[i] = settings.SeriesRef{Name: s.Name, Selector: sel, Fill: s.Fill}
	}
	return m.Settings.Enumerate(object, refs)
}
