package dataview

import "testing"

func TestNew(t *testing.T) {
	dv := New("Region", []string{"North", "South"}, map[string][]float64{
		"2023": {1, 2},
		"2024": {3, 4},
	}, "2024", "missing", "2023")

	if dv.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", dv.Rows())
	}
	if len(dv.Values) != 2 {
		t.Fatalf("len(Values) = %d, want 2 (unknown names skipped)", len(dv.Values))
	}
	if got := dv.Values[0].Source.DisplayName; got != "2024" {
		t.Errorf("first series = %q, want 2024 (order follows arguments)", got)
	}
	if got := dv.Values[1].Values[1]; got != 2.0 {
		t.Errorf("Values[1][1] = %v, want 2", got)
	}
	if got := dv.Categories[0].Values[0]; got != "North" {
		t.Errorf("category[0] = %v, want North", got)
	}
}

func TestRowsEmpty(t *testing.T) {
	var nilView *DataView
	tests := []struct {
		name string
		dv   *DataView
	}{
		{"nil", nilView},
		{"no categories", &DataView{Values: []ValueColumn{{Values: []any{1.0}}}}},
	}
	for _, tt := range tests {
		if got := tt.dv.Rows(); got != 0 {
			t.Errorf("%s: Rows() = %d, want 0", tt.name, got)
		}
	}
}
