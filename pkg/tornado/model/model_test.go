package model

import (
	"testing"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/settings"
)

func twoSeries() *dataview.DataView {
	return dataview.New("Region", []string{"A", "B"}, map[string][]float64{
		"2023": {10, -5},
		"2024": {20, 15},
	}, "2023", "2024")
}

func TestConvertMalformed(t *testing.T) {
	tests := []struct {
		name string
		dv   *dataview.DataView
	}{
		{"nil", nil},
		{"no categories", &dataview.DataView{Values: twoSeries().Values}},
		{"no values", &dataview.DataView{Categories: twoSeries().Categories}},
		{"no category source", &dataview.DataView{
			Categories: []dataview.CategoryColumn{{Values: []any{"A"}}},
			Values:     twoSeries().Values,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m := Convert(tt.dv, nil); m != nil {
				t.Errorf("Convert() = %+v, want nil", m)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	m := Convert(twoSeries(), nil)
	if m == nil {
		t.Fatal("Convert() = nil")
	}
	if m.CategoryName != "Region" {
		t.Errorf("CategoryName = %q, want Region", m.CategoryName)
	}
	if len(m.Categories) != 2 || m.Categories[0] != "A" || m.Categories[1] != "B" {
		t.Errorf("Categories = %v", m.Categories)
	}
	if len(m.Series) != 2 {
		t.Fatalf("len(Series) = %d, want 2", len(m.Series))
	}
	if m.Series[0].Name != "2023" || m.Series[1].Values[1] != 15 {
		t.Errorf("Series = %+v", m.Series)
	}
	palette := settings.DefaultPalette()
	for i, s := range m.Series {
		if s.Fill != palette[i] {
			t.Errorf("Series[%d].Fill = %q, want %q", i, s.Fill, palette[i])
		}
	}
	if len(m.Legend) != 2 {
		t.Fatalf("len(Legend) = %d, want 2", len(m.Legend))
	}
	for i, e := range m.Legend {
		if e.Label != m.Series[i].Name || e.Color != m.Series[i].Fill || e.Icon != LegendIcon || e.Selected {
			t.Errorf("Legend[%d] = %+v", i, e)
		}
	}
}

func TestConvertKeepsTwoSeries(t *testing.T) {
	dv := dataview.New("c", []string{"x"}, map[string][]float64{
		"a": {1}, "b": {2}, "c": {3},
	}, "a", "b", "c")
	m := Convert(dv, nil)
	if len(m.Series) != MaxSeries {
		t.Errorf("len(Series) = %d, want %d", len(m.Series), MaxSeries)
	}
	if len(m.Legend) != MaxSeries {
		t.Errorf("len(Legend) = %d, want %d", len(m.Legend), MaxSeries)
	}
}

func TestConvertAlignsValues(t *testing.T) {
	dv := &dataview.DataView{
		Categories: []dataview.CategoryColumn{{
			Source: &dataview.Source{DisplayName: "c"},
			Values: []any{"a", 7, nil},
		}},
		Values: []dataview.ValueColumn{
			{Source: &dataview.Source{DisplayName: "short"}, Values: []any{"1.5"}},
			{Source: &dataview.Source{DisplayName: "long"}, Values: []any{nil, "junk", int64(4), 9}},
		},
	}
	m := Convert(dv, nil)
	if got := m.Categories; got[1] != "7" || got[2] != "" {
		t.Errorf("Categories = %q", got)
	}
	for _, s := range m.Series {
		if len(s.Values) != len(m.Categories) {
			t.Errorf("series %q has %d values, want %d", s.Name, len(s.Values), len(m.Categories))
		}
	}
	want := [][]float64{{1.5, 0, 0}, {0, 0, 4}}
	for i, s := range m.Series {
		for j, v := range s.Values {
			if v != want[i][j] {
				t.Errorf("Series[%d].Values[%d] = %v, want %v", i, j, v, want[i][j])
			}
		}
	}
}

func TestConvertColorOverrides(t *testing.T) {
	dv := twoSeries()
	dv.Values[0].Source.Fill = "#FF0000"
	s := settings.Default()
	s.SeriesFills = map[string]string{"2024": "#00ff00"}
	s.LabelInsideFill = "bogus"

	m := Convert(dv, &s)
	if m.Series[0].Fill != "#ff0000" {
		t.Errorf("Series[0].Fill = %q, want #ff0000", m.Series[0].Fill)
	}
	if m.Series[1].Fill != "#00ff00" {
		t.Errorf("Series[1].Fill = %q, want #00ff00", m.Series[1].Fill)
	}
	if m.Settings.LabelInsideFill != settings.DefaultLabelInsideFill {
		t.Errorf("LabelInsideFill = %q, want default", m.Settings.LabelInsideFill)
	}
}

func TestConvertFormatter(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		precision int
		first     float64
		v         float64
		want      string
	}{
		{"integer data", "", 0, 10, 12, "12"},
		{"decimal data", "", 0, 1.5, 12, "12.00"},
		{"negative precision clamps", "", -2, 10, 12, "12"},
		{"precision", "", 1, 10, 12, "12.0"},
		{"column format", "#,0", 0, 1, 1200, "1,200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv := dataview.New("c", []string{"a"}, map[string][]float64{"s": {tt.first}}, "s")
			dv.Values[0].Source.Format = tt.format
			s := settings.Default()
			s.Precision = tt.precision
			m := Convert(dv, &s)
			if got := m.Formatter.Format(tt.v); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name   string
		series map[string][]float64
		lo, hi float64
	}{
		{"two series joint", map[string][]float64{"a": {10, -5}, "b": {20, 15}}, -5, 20},
		{"positive clamps min to zero", map[string][]float64{"a": {5, 7}}, 0, 7},
		{"degenerate", map[string][]float64{"a": {5, 5}}, 0, 5},
		{"all negative", map[string][]float64{"a": {-3, -1}}, -3, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := []string{"a", "b"}
			m := Convert(dataview.New("c", []string{"x", "y"}, tt.series, order...), nil)
			lo, hi := m.Range()
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("Range() = (%v, %v), want (%v, %v)", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestTooltip(t *testing.T) {
	m := Convert(twoSeries(), nil)
	got := m.Tooltip(1, 0)
	if len(got) != 2 {
		t.Fatalf("len(Tooltip) = %d, want 2", len(got))
	}
	if got[0] != (TooltipItem{DisplayName: "Region", Value: "A"}) {
		t.Errorf("Tooltip[0] = %+v", got[0])
	}
	if got[1] != (TooltipItem{DisplayName: "2024", Value: "20"}) {
		t.Errorf("Tooltip[1] = %+v", got[1])
	}
	if m.Tooltip(5, 0) != nil {
		t.Error("out of range tooltip should be nil")
	}
}

func TestEnumerate(t *testing.T) {
	m := Convert(twoSeries(), nil)
	dp := m.Enumerate(settings.ObjectDataPoint)
	if len(dp) != 2 {
		t.Fatalf("len(dataPoint) = %d, want 2", len(dp))
	}
	if dp[0].DisplayName != "2023" || dp[0].Properties["fill"] != m.Series[0].Fill {
		t.Errorf("dataPoint[0] = %+v", dp[0])
	}

	var nilModel *Model
	if got := nilModel.Enumerate(settings.ObjectLabels); len(got) != 1 {
		t.Errorf("nil model labels = %v", got)
	}
}
