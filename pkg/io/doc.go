// Package io loads tornado input data from files and reads and writes
// computed layout documents.
//
// # Data files
//
// Three tabular formats are accepted, chosen by extension in [Import]:
//
//   - .csv: first row is the header; first column holds the categories
//   - .xlsx: same shape, read from the first sheet unless [WithSheet] is given
//   - .json: a serialized [dataview.DataView], including per-column format
//     strings and fill overrides
//
// For CSV and XLSX every remaining column becomes a value series. Use
// [WithSeries] to pick and order the series explicitly:
//
//	dv, err := io.Import("sales.csv", io.WithSeries("2024", "2023"))
//
// Empty cells become nil values; the normalizer treats them as zero. Cells
// that parse as numbers are stored as float64, everything else is kept as
// the raw string.
//
// # Layout files
//
// [WriteLayoutFile] and [ReadLayoutFile] store the JSON document produced by
// the JSON sink so a layout can be re-rendered later without the source data.
//
// [dataview.DataView]: github.com/matzehuels/tornado/pkg/dataview.DataView
package io
