// Package dataview defines the raw categorical result a tornado chart is
// built from.
//
// A [DataView] mirrors what a host analytics runtime hands a visual: one
// category column and any number of value columns, each carrying the source
// metadata (display name, format string, per-object overrides) of the field
// it was queried from. Values are left loosely typed on purpose; coercion to
// numbers happens once in the normalizer.
//
// Loaders for CSV, XLSX and JSON files live in package io.
package dataview

// Source describes the field a column was produced from.
type Source struct {
	DisplayName string `json:"displayName" toml:"display_name"`
	QueryName   string `json:"queryName,omitempty" toml:"query_name"`
	Format      string `json:"format,omitempty" toml:"format"`

	// Fill is an explicit per-series color override ("dataPoint.fill").
	Fill string `json:"fill,omitempty" toml:"fill"`
}

// CategoryColumn holds the category labels, one per row.
type CategoryColumn struct {
	Source *Source `json:"source"`
	Values []any   `json:"values"`
}

// ValueColumn holds one measure aligned with the category column.
type ValueColumn struct {
	Source *Source `json:"source"`
	Values []any   `json:"values"`
}

// DataView is the raw tabular result consumed by the normalizer.
type DataView struct {
	Categories []CategoryColumn `json:"categories"`
	Values     []ValueColumn    `json:"values"`
}

// Rows returns the number of category rows, or 0 when there is no category
// column.
func (dv *DataView) Rows() int {
	if dv == nil || len(dv.Categories) == 0 {
		return 0
	}
	return len(dv.Categories[0].Values)
}

// New builds a DataView from plain Go slices. It is a convenience for tests
// and for callers that already hold typed data.
func New(categoryName string, categories []string, series map[string][]float64, order ...string) *DataView {
	dv := &DataView{
		Categories: []CategoryColumn{{
			Source: &Source{DisplayName: categoryName, QueryName: categoryName},
			Values: make([]any, len(categories)),
		}},
	}
	for i, c := range categories {
		dv.Categories[0].Values[i] = c
	}
	for _, name := range order {
		values, ok := series[name]
		if !ok {
			continue
		}
		col := ValueColumn{
			Source: &Source{DisplayName: name, QueryName: name},
			Values: make([]any, len(values)),
		}
		for i, v := range values {
			col.Values[i] = v
		}
		dv.Values = append(dv.Values, col)
	}
	return dv
}
