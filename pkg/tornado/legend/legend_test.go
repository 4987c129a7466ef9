package legend

import (
	"testing"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

var font = text.Font{Size: 10}

func entries(labels ...string) []model.LegendEntry {
	out := make([]model.LegendEntry, len(labels))
	for i, l := range labels {
		out[i] = model.LegendEntry{Label: l, Color: "#000000", Icon: model.LegendIcon}
	}
	return out
}

func TestLayoutSingleRow(t *testing.T) {
	lg := Layout(entries("2023", "2024"), 400, font, text.Approx{})
	rowH := max(10*1.2, IconSize) + RowPadding
	if lg.Height != rowH {
		t.Errorf("Height = %v, want %v", lg.Height, rowH)
	}
	if len(lg.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(lg.Items))
	}
	if lg.Items[0].X != 0 || lg.Items[1].X <= lg.Items[0].TextX {
		t.Errorf("items not flowed left to right: %+v", lg.Items)
	}
	if lg.Items[0].Y != lg.Items[1].Y {
		t.Errorf("items on different rows: %v vs %v", lg.Items[0].Y, lg.Items[1].Y)
	}
}

func TestLayoutWraps(t *testing.T) {
	lg := Layout(entries("a long series name", "another long name"), 120, font, text.Approx{})
	single := Layout(entries("x"), 120, font, text.Approx{}).Height
	if lg.Height != 2*single {
		t.Errorf("Height = %v, want two rows (%v)", lg.Height, 2*single)
	}
	if lg.Items[1].X != 0 || lg.Items[1].Y <= lg.Items[0].Y {
		t.Errorf("second item should start a new row: %+v", lg.Items[1])
	}
	for _, it := range lg.Items {
		if w := (text.Approx{}).MeasureWidth(it.Text, font); it.TextX+w > 120 {
			t.Errorf("item %q overflows: %v", it.Text, it.TextX+w)
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	if lg := Layout(nil, 400, font, text.Approx{}); lg.Height != 0 || lg.Items != nil {
		t.Errorf("Layout(nil) = %+v, want zero", lg)
	}
}

func TestMeasure(t *testing.T) {
	dv := dataview.New("c", []string{"a"}, map[string][]float64{"s": {1}}, "s")
	m := model.Convert(dv, nil)
	if h := Measure(m, 400, text.Approx{}); h <= 0 {
		t.Errorf("Measure() = %v, want > 0", h)
	}

	s := settings.Default()
	s.ShowLegend = false
	hidden := model.Convert(dv, &s)
	if h := Measure(hidden, 400, text.Approx{}); h != 0 {
		t.Errorf("Measure() with hidden legend = %v, want 0", h)
	}
	if h := Measure(nil, 400, text.Approx{}); h != 0 {
		t.Errorf("Measure(nil) = %v, want 0", h)
	}
}
