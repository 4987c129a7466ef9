package layout

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

const eps = 1e-9

func approxEqual(a, b float64) bool { return math.Abs(a-b) < eps }

func buildModel(t *testing.T, categories []string, series [][]float64, mutate func(*settings.Settings)) *model.Model {
	t.Helper()
	data := make(map[string][]float64, len(series))
	order := make([]string, len(series))
	for i, s := range series {
		name := fmt.Sprintf("S%d", i)
		data[name] = s
		order[i] = name
	}
	cfg := settings.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	m := model.Convert(dataview.New("Category", categories, data, order...), &cfg)
	if m == nil {
		t.Fatal("model.Convert() = nil")
	}
	return m
}

// Checked through Build without a legend: Visual shows the legend by
// default and subtracts its height, so rows there are shorter than 95.
func TestScenarioTwoSeries(t *testing.T) {
	m := buildModel(t, []string{"A", "B"}, [][]float64{{10, -5}, {20, 15}}, nil)
	l := Build(m, Viewport{Width: 400, Height: 200})

	ctx := l.Context
	if ctx.RowHeight != 95 {
		t.Errorf("RowHeight = %v, want 95", ctx.RowHeight)
	}
	if ctx.Sections != (Sections{Left: 80, Right: 320}) {
		t.Errorf("Sections = %+v, want {80 320}", ctx.Sections)
	}
	if ctx.RegionWidth != 160 {
		t.Errorf("RegionWidth = %v, want 160", ctx.RegionWidth)
	}
	if ctx.Min != -5 || ctx.Max != 20 {
		t.Errorf("Min/Max = %v/%v, want -5/20", ctx.Min, ctx.Max)
	}
	if len(l.Columns) != 4 {
		t.Fatalf("len(Columns) = %d, want 4", len(l.Columns))
	}

	want := []struct {
		series, category int
		y, width, dx     float64
		angle            float64
	}{
		{0, 0, 0, 96, 64, 180},
		{0, 1, 105, 0, 160, 180},
		{1, 0, 0, 160, 160, 0},
		{1, 1, 105, 128, 160, 0},
	}
	for i, w := range want {
		c := l.Columns[i]
		if c.Index != i || c.Series != w.series || c.Category != w.category {
			t.Errorf("Columns[%d] identity = (%d,%d,%d), want (%d,%d,%d)", i, c.Index, c.Series, c.Category, i, w.series, w.category)
		}
		if !approxEqual(c.Y, w.y) || !approxEqual(c.Width, w.width) || !approxEqual(c.DX, w.dx) || c.Angle != w.angle {
			t.Errorf("Columns[%d] = {Y:%v W:%v DX:%v A:%v}, want {Y:%v W:%v DX:%v A:%v}",
				i, c.Y, c.Width, c.DX, c.Angle, w.y, w.width, w.dx, w.angle)
		}
		if c.Height != 95 {
			t.Errorf("Columns[%d].Height = %v, want 95", i, c.Height)
		}
		if !approxEqual(c.PX, c.DX+c.Width/2) || !approxEqual(c.PY, c.Y+c.Height/2) {
			t.Errorf("Columns[%d] pivot = (%v,%v)", i, c.PX, c.PY)
		}
	}

	// Series 0 sits left of the axis, series 1 right of it.
	axis := l.Axis
	if axis == nil {
		t.Fatal("Axis = nil, want line")
	}
	if *axis != (AxisLine{X1: 160, Y1: 0, X2: 160, Y2: 200}) {
		t.Errorf("Axis = %+v", *axis)
	}
	for _, c := range l.Columns {
		if c.Series == 0 && c.Right() > axis.X1+eps {
			t.Errorf("series 0 column %d crosses the axis: right=%v", c.Index, c.Right())
		}
		if c.Series == 1 && c.Left() < axis.X1-eps {
			t.Errorf("series 1 column %d crosses the axis: left=%v", c.Index, c.Left())
		}
	}
}

func TestScenarioDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"equal positive", []float64{5, 5}},
		{"all zero", []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildModel(t, []string{"A", "B"}, [][]float64{tt.values}, nil)
			l := Build(m, Viewport{Width: 400, Height: 200})
			for _, c := range l.Columns {
				if c.Width != l.Context.RegionWidth {
					t.Errorf("Columns[%d].Width = %v, want %v", c.Index, c.Width, l.Context.RegionWidth)
				}
				if c.DX != 0 || c.Angle != 0 {
					t.Errorf("sole series column %d: DX=%v Angle=%v, want 0/0", c.Index, c.DX, c.Angle)
				}
			}
			if l.Axis != nil {
				t.Error("single series should have no axis")
			}
			if l.Context.RegionWidth != l.Context.ChartWidth() {
				t.Errorf("RegionWidth = %v, want full chart width %v", l.Context.RegionWidth, l.Context.ChartWidth())
			}
		})
	}
}

func TestScenarioHiddenCategories(t *testing.T) {
	m := buildModel(t, []string{"A", "B"}, [][]float64{{1, 2}, {3, 4}}, func(s *settings.Settings) {
		s.ShowCategories = false
	})
	l := Build(m, Viewport{Width: 400, Height: 200})
	if l.Context.Sections.Left != 0 {
		t.Errorf("Sections.Left = %v, want 0", l.Context.Sections.Left)
	}
	if l.Categories != nil {
		t.Errorf("Categories = %v, want nil", l.Categories)
	}
}

func TestScenarioMalformed(t *testing.T) {
	m := model.Convert(&dataview.DataView{}, nil)
	if m != nil {
		t.Fatalf("model = %+v, want nil", m)
	}
	l := Build(m, Viewport{Width: 400, Height: 200})
	if !l.Empty() {
		t.Error("layout of nil model should be empty")
	}
	if l.Axis != nil || l.Categories != nil || l.LabelsVisible {
		t.Errorf("empty layout has geometry: %+v", l)
	}
}

func TestSizeSections(t *testing.T) {
	tests := []struct {
		name string
		b    settings.Sections
		show bool
		vw   float64
		want Sections
	}{
		{"percent", settings.Sections{Left: 20, Right: 80, IsPercent: true}, true, 400, Sections{80, 320}},
		{"pixels", settings.Sections{Left: 100, Right: 250}, true, 400, Sections{100, 250}},
		{"percent hidden", settings.Sections{Left: 20, Right: 80, IsPercent: true}, false, 400, Sections{0, 320}},
		{"pixels hidden", settings.Sections{Left: 100, Right: 250}, false, 400, Sections{0, 300}},
		{"pixels hidden narrow viewport", settings.Sections{Left: 500, Right: 250}, false, 400, Sections{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SizeSections(tt.b, tt.show, tt.vw); got != tt.want {
				t.Errorf("SizeSections() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRowsPartitionChartHeight(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 20} {
		for _, h := range []float64{400, 555.5, 1000} {
			cats := make([]string, n)
			vals := make([]float64, n)
			for i := range cats {
				cats[i] = fmt.Sprint(i)
				vals[i] = float64(i)
			}
			m := buildModel(t, cats, [][]float64{vals}, nil)
			ctx := NewContext(m, Viewport{Width: 400, Height: h}, WithLegendHeight(17))
			got := ctx.RowHeight*float64(n) + ctx.Padding*float64(n-1)
			if math.Abs(got-ctx.ChartHeight) > 1e-6 {
				t.Errorf("n=%d h=%v: rows cover %v, want %v", n, h, got, ctx.ChartHeight)
			}
			if ctx.ChartHeight != h-17 {
				t.Errorf("ChartHeight = %v, want %v", ctx.ChartHeight, h-17)
			}
		}
	}
}

func TestWidthsWithinRegion(t *testing.T) {
	series := [][]float64{{-30, 0, 12.5, 99, -1}, {7, 150, -60, 0.1, 42}}
	m := buildModel(t, []string{"a", "b", "c", "d", "e"}, series, nil)
	l := Build(m, Viewport{Width: 640, Height: 480})
	for _, c := range l.Columns {
		if c.Width < 0 || c.Width > l.Context.RegionWidth {
			t.Errorf("Columns[%d].Width = %v outside [0, %v]", c.Index, c.Width, l.Context.RegionWidth)
		}
		if c.Left() < -eps || c.Right() > l.Context.ChartWidth()+eps {
			t.Errorf("Columns[%d] extent [%v, %v] leaves the chart region", c.Index, c.Left(), c.Right())
		}
	}
	// The minimum value maps to zero width, the maximum to the full region.
	if w := l.Columns[7].Width; w != 0 {
		t.Errorf("min value width = %v, want 0", w)
	}
	if w := l.Columns[6].Width; w != l.Context.RegionWidth {
		t.Errorf("max value width = %v, want %v", w, l.Context.RegionWidth)
	}
}

func TestLabelPlacement(t *testing.T) {
	m := buildModel(t, []string{"A", "B"}, [][]float64{{10, -5}, {20, 15}}, nil)
	l := Build(m, Viewport{Width: 400, Height: 200})
	if !l.LabelsVisible {
		t.Fatal("LabelsVisible = false, want true")
	}
	font := l.Context.LabelFont
	ms := text.Approx{}

	tests := []struct {
		index  int
		text   string
		inside bool
		fill   string
		dx     float64
	}{
		// Series 0, value 10: bar [64,160], label centered inside.
		{0, "10", true, settings.DefaultLabelInsideFill, 64 + (96-ms.MeasureWidth("10", font))/2},
		// Series 0, value -5: zero-width bar at the axis, label outside to the left.
		{1, "-5", false, settings.DefaultLabelOutsideFill, 160 - LabelMargin - ms.MeasureWidth("-5", font)},
		{2, "20", true, settings.DefaultLabelInsideFill, 160 + (160-ms.MeasureWidth("20", font))/2},
		{3, "15", true, settings.DefaultLabelInsideFill, 160 + (128-ms.MeasureWidth("15", font))/2},
	}
	for _, tt := range tests {
		lb := l.Columns[tt.index].Label
		if lb.Text != tt.text || lb.Inside != tt.inside || lb.Fill != tt.fill {
			t.Errorf("Label[%d] = {%q inside=%v fill=%s}, want {%q inside=%v fill=%s}",
				tt.index, lb.Text, lb.Inside, lb.Fill, tt.text, tt.inside, tt.fill)
		}
		if !approxEqual(lb.DX, tt.dx) {
			t.Errorf("Label[%d].DX = %v, want %v", tt.index, lb.DX, tt.dx)
		}
		if !lb.Visible {
			t.Errorf("Label[%d] should be visible", tt.index)
		}
		if lb.Value != l.Columns[tt.index].Value {
			t.Errorf("Label[%d].Value = %v, want %v", tt.index, lb.Value, l.Columns[tt.index].Value)
		}
	}
}

func TestLabelOutsideRightward(t *testing.T) {
	m := buildModel(t, []string{"A", "B"}, [][]float64{{0, 100}}, nil)
	l := Build(m, Viewport{Width: 400, Height: 200})
	lb := l.Columns[0].Label
	if lb.Inside {
		t.Fatal("label of zero-width bar should be outside")
	}
	if want := l.Columns[0].DX + LabelMargin; lb.DX != want {
		t.Errorf("DX = %v, want %v", lb.DX, want)
	}
}

func TestLabelClipping(t *testing.T) {
	m := buildModel(t, []string{"A", "B"}, [][]float64{{1234567, 0}}, func(s *settings.Settings) {
		s.Sections = settings.Sections{Left: 10, Right: 40}
	})
	l := Build(m, Viewport{Width: 50, Height: 200})
	if !l.LabelsVisible {
		t.Fatal("LabelsVisible = false, want true")
	}
	if len(l.Columns) != 2 {
		t.Fatalf("len(Columns) = %d, want 2", len(l.Columns))
	}
	wide := l.Columns[0].Label
	if wide.Inside || wide.Visible {
		t.Errorf("label past the region edge = {inside=%v visible=%v}, want hidden outside", wide.Inside, wide.Visible)
	}
	if !l.Columns[1].Label.Visible {
		t.Error("label within the region should stay visible")
	}
}

func TestLabelClippingLeftEdge(t *testing.T) {
	m := buildModel(t, []string{"A", "B"}, [][]float64{{1234567, 0}, {0, 0}}, func(s *settings.Settings) {
		s.Sections = settings.Sections{Left: 10, Right: 40}
	})
	l := Build(m, Viewport{Width: 50, Height: 200})
	if !l.LabelsVisible {
		t.Fatal("LabelsVisible = false, want true")
	}
	c := l.Columns[0]
	if !GrowsLeft(c) {
		t.Fatal("series 0 of a two-series chart should grow left")
	}
	if c.Label.Inside {
		t.Fatal("label should not fit inside the narrow bar")
	}
	if left := c.Label.X + c.Label.DX; left >= 0 {
		t.Fatalf("label left edge = %v, want < 0", left)
	}
	if c.Label.Visible {
		t.Error("label past the region's left edge should be hidden")
	}
}

func TestExtremeValuesStayInRegion(t *testing.T) {
	m := buildModel(t, []string{"A", "B"}, [][]float64{{math.MaxFloat64, -math.MaxFloat64}, {1e308, -1e308}}, nil)
	l := Build(m, Viewport{Width: 400, Height: 200})
	region := l.Context.RegionWidth
	for _, c := range l.Columns {
		if math.IsNaN(c.Width) || c.Width < 0 || c.Width > region {
			t.Errorf("Columns[%d] value=%g width=%v, want within [0, %v]", c.Index, c.Value, c.Width, region)
		}
		if math.IsNaN(c.PX) || math.IsNaN(c.DX) || math.IsNaN(c.Label.DX) {
			t.Errorf("Columns[%d] has NaN geometry: PX=%v DX=%v label DX=%v", c.Index, c.PX, c.DX, c.Label.DX)
		}
	}
	if got := l.Columns[0].Width; got != region {
		t.Errorf("largest value width = %v, want %v", got, region)
	}
	if got := l.Columns[1].Width; got != 0 {
		t.Errorf("smallest value width = %v, want 0", got)
	}
}

func TestLabelLayerHidden(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*settings.Settings)
		height float64
	}{
		{"labels off", func(s *settings.Settings) { s.ShowLabels = false }, 200},
		{"rows too short", nil, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildModel(t, []string{"A", "B"}, [][]float64{{10, 5}, {20, 15}}, tt.mutate)
			l := Build(m, Viewport{Width: 400, Height: tt.height})
			if l.LabelsVisible {
				t.Error("LabelsVisible = true, want false")
			}
			for _, c := range l.Columns {
				if c.Label.Visible {
					t.Errorf("Label[%d] visible in hidden layer", c.Index)
				}
				if c.Label.Text == "" {
					t.Errorf("Label[%d] has no text; hidden labels are still placed", c.Index)
				}
			}
		})
	}
}

func TestEveryColumnHasOneLabel(t *testing.T) {
	m := buildModel(t, []string{"a", "b", "c"}, [][]float64{{1, 2, 3}, {4, 5, 6}}, nil)
	l := Build(m, Viewport{Width: 300, Height: 150})
	if len(l.Columns) != 6 {
		t.Fatalf("len(Columns) = %d, want 6", len(l.Columns))
	}
	for _, c := range l.Columns {
		if c.Label.Text != m.Formatter.Format(c.Value) {
			t.Errorf("Label[%d].Text = %q, want %q", c.Index, c.Label.Text, m.Formatter.Format(c.Value))
		}
	}
}

func TestLabelTruncationFitsMaxWidth(t *testing.T) {
	const maxWidth = 20
	m := buildModel(t, []string{"a", "b"}, [][]float64{{123456789, 987654321}}, func(s *settings.Settings) {
		s.LabelMaxWidth = maxWidth
		s.Format = "#,0"
	})
	ms := text.Approx{}
	l := Build(m, Viewport{Width: 400, Height: 200}, WithMeasurer(ms))
	for _, c := range l.Columns {
		if w := ms.MeasureWidth(c.Label.Text, l.Context.LabelFont); w > maxWidth {
			t.Errorf("Label[%d] %q measures %v > %v", c.Index, c.Label.Text, w, maxWidth)
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	m := buildModel(t, []string{"A", "B", "C"}, [][]float64{{10, -5, 3.3}, {20, 15, -7}}, nil)
	vp := Viewport{Width: 512, Height: 300}
	a := Build(m, vp, WithLegendHeight(24))
	b := Build(m, vp, WithLegendHeight(24))
	if !reflect.DeepEqual(a, b) {
		t.Error("Build() is not deterministic")
	}

	cols := Columns(a.Context, m)
	Labels(a.Context, m, cols, text.Approx{})
	again := Columns(a.Context, m)
	Labels(a.Context, m, again, text.Approx{})
	if !reflect.DeepEqual(cols, again) {
		t.Error("Labels() is not deterministic")
	}
}

func TestCategoryTexts(t *testing.T) {
	m := buildModel(t, []string{"North", "a very long category name indeed"}, [][]float64{{1, 2}}, nil)
	ms := text.Approx{}
	l := Build(m, Viewport{Width: 400, Height: 200}, WithMeasurer(ms))
	if len(l.Categories) != 2 {
		t.Fatalf("len(Categories) = %d, want 2", len(l.Categories))
	}
	font := l.Context.CategoryFont
	for i, ct := range l.Categories {
		h := ms.MeasureHeight(ct.Text, font)
		want := l.Context.RowTop(i) + l.Context.RowHeight/2 + h/2
		if !approxEqual(ct.Y, want) {
			t.Errorf("Categories[%d].Y = %v, want %v", i, ct.Y, want)
		}
		if ct.Width > l.Context.Sections.Left-CategoryMargin {
			t.Errorf("Categories[%d] width %v exceeds region", i, ct.Width)
		}
		if ct.Fill != settings.DefaultCategoriesFill {
			t.Errorf("Categories[%d].Fill = %q", i, ct.Fill)
		}
	}
	if l.Categories[0].Text != "North" {
		t.Errorf("Categories[0].Text = %q, want North", l.Categories[0].Text)
	}
	if l.Categories[1].Text == m.Categories[1] {
		t.Error("long category should be truncated")
	}
}

func TestAxisOnlyForTwoSeries(t *testing.T) {
	tests := []struct {
		series int
		want   bool
	}{{0, false}, {1, false}, {2, true}, {3, false}}
	for _, tt := range tests {
		if got := Axis(Context{SeriesCount: tt.series}) != nil; got != tt.want {
			t.Errorf("Axis(series=%d) present = %v, want %v", tt.series, got, tt.want)
		}
	}
}
