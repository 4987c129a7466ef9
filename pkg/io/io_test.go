package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/tornado"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/sink"
)

const salesCSV = `Region,2023,2024,Notes
North,10,20,a
South,"1,500",,b
East,x
`

func TestReadCSV(t *testing.T) {
	dv, err := ReadCSV(strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if dv.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3", dv.Rows())
	}
	if got := dv.Categories[0].Source.DisplayName; got != "Region" {
		t.Errorf("category name = %q, want Region", got)
	}
	if len(dv.Values) != 3 {
		t.Fatalf("len(Values) = %d, want 3", len(dv.Values))
	}

	tests := []struct {
		col, row int
		want     any
	}{
		{0, 0, 10.0},
		{0, 1, 1500.0},
		{0, 2, "x"},
		{1, 1, nil},
		{1, 2, nil},
		{2, 0, "a"},
	}
	for _, tt := range tests {
		if got := dv.Values[tt.col].Values[tt.row]; got != tt.want {
			t.Errorf("Values[%d][%d] = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestReadCSVWithSeries(t *testing.T) {
	dv, err := ReadCSV(strings.NewReader(salesCSV), WithSeries("2024", "2023"))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if len(dv.Values) != 2 {
		t.Fatalf("len(Values) = %d, want 2", len(dv.Values))
	}
	if dv.Values[0].Source.DisplayName != "2024" || dv.Values[1].Source.DisplayName != "2023" {
		t.Errorf("series order = %q, %q", dv.Values[0].Source.DisplayName, dv.Values[1].Source.DisplayName)
	}

	_, err = ReadCSV(strings.NewReader(salesCSV), WithSeries("2099"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown series error = %v, want INVALID_INPUT", err)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"empty", "", errors.ErrCodeMissingData},
		{"single column", "Region\nNorth\n", errors.ErrCodeMissingData},
		{"bare quote", "a,b\nx\"y,1\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadCSV() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImportXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	for cell, v := range map[string]any{
		"A1": "Region", "B1": "Low", "C1": "High",
		"A2": "North", "B2": -5, "C2": 12.5,
		"A3": "South", "B3": 3, "C3": 4,
	} {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("SetCellValue(%s) error: %v", cell, err)
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error: %v", err)
	}

	dv, err := Import(path)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if dv.Rows() != 2 || len(dv.Values) != 2 {
		t.Fatalf("shape = %d rows x %d series, want 2 x 2", dv.Rows(), len(dv.Values))
	}
	if got := dv.Values[0].Values[0]; got != -5.0 {
		t.Errorf("Low[0] = %v, want -5", got)
	}
	if got := dv.Values[1].Values[0]; got != 12.5 {
		t.Errorf("High[0] = %v, want 12.5", got)
	}

	if _, err := Import(path, WithSheet("Missing")); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := dataview.New("Region", []string{"A", "B"}, map[string][]float64{"s": {1, -2}}, "s")
	in.Values[0].Source.Format = "#,0.0"
	in.Values[0].Source.Fill = "#ff0000"

	var buf bytes.Buffer
	if err := WriteJSON(in, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	out, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if out.Rows() != 2 || out.Values[0].Values[1] != -2.0 {
		t.Errorf("values = %v", out.Values[0].Values)
	}
	if src := out.Values[0].Source; src.Format != "#,0.0" || src.Fill != "#ff0000" {
		t.Errorf("source = %+v", src)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed", "{", errors.ErrCodeInvalidInput},
		{"no categories", `{"categories": [], "values": []}`, errors.ErrCodeMissingData},
		{"no source", `{"categories": [{"values": ["a"]}], "values": [{"values": [1]}]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"unsupported", filepath.Join(dir, "data.txt"), errors.ErrCodeUnsupported},
		{"missing csv", filepath.Join(dir, "none.csv"), errors.ErrCodeFileNotFound},
		{"missing xlsx", filepath.Join(dir, "none.xlsx"), errors.ErrCodeFileNotFound},
		{"missing json", filepath.Join(dir, "none.json"), errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Import(%q) error = %v, want %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	dv := dataview.New("Region", []string{"A", "B"}, map[string][]float64{"s": {3, 4}}, "s")
	f := tornado.New().Update(dv, nil, layout.Viewport{Width: 300, Height: 150})

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(path, f.Layout, sink.WithJSONModel(f.Model)); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	doc, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if len(doc.Layout.Columns) != len(f.Layout.Columns) {
		t.Errorf("len(Columns) = %d, want %d", len(doc.Layout.Columns), len(f.Layout.Columns))
	}
	if doc.CategoryName != "Region" {
		t.Errorf("CategoryName = %q, want Region", doc.CategoryName)
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDescribe(t *testing.T) {
	dv := dataview.New("c", []string{"a"}, map[string][]float64{"x": {1}, "y": {2}}, "x", "y")
	if got, want := Describe(dv), "1 rows, series [x, y]"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestRead(t *testing.T) {
	dv, err := Read(strings.NewReader(salesCSV), ".CSV", WithSeries("2023"))
	if err != nil {
		t.Fatalf("Read(.csv) error: %v", err)
	}
	if len(dv.Values) != 1 || dv.Rows() != 3 {
		t.Errorf("Read(.csv) = %d series, %d rows; want 1, 3", len(dv.Values), dv.Rows())
	}

	_, err = Read(strings.NewReader(salesCSV), ".txt")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Read(.txt) error = %v, want UNSUPPORTED", err)
	}
}
