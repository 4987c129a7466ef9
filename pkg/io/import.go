package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/errors"
)

// Option configures how tabular files are turned into a DataView.
type Option func(*options)

type options struct {
	sheet  string
	series []string
}

// WithSheet selects the XLSX sheet to read (default: the first sheet).
func WithSheet(name string) Option {
	return func(o *options) { o.sheet = name }
}

// WithSeries selects value columns by header name, in the given order.
// Without it every non-category column is used.
func WithSeries(names ...string) Option {
	return func(o *options) { o.series = names }
}

// Import reads the data file at path, dispatching on its extension.
func Import(path string, opts ...Option) (*dataview.DataView, error) {
	if err := errors.ValidateDataPath(path); err != nil {
		return nil, err
	}
	switch errors.DataExt(path) {
	case ".xlsx":
		return ImportXLSX(path, opts...)
	case ".json":
		return ImportJSON(path)
	default:
		return ImportCSV(path, opts...)
	}
}

// Read decodes r as the data format named by ext (".csv", ".xlsx" or
// ".json"), the way [Import] dispatches on a file extension.
func Read(r io.Reader, ext string, opts ...Option) (*dataview.DataView, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return ReadXLSX(r, opts...)
	case ".json":
		return ReadJSON(r)
	case ".csv":
		return ReadCSV(r, opts...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported data format %q", ext)
	}
}

// ImportCSV reads a CSV file at path. See [ReadCSV].
func ImportCSV(path string, opts ...Option) (*dataview.DataView, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, opts...)
}

// ReadCSV decodes CSV rows from r. The first record is the header.
// Rows shorter than the header are padded with empty cells.
func ReadCSV(r io.Reader, opts ...Option) (*dataview.DataView, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv")
	}
	return fromRows(rows, opts)
}

// ImportXLSX reads a worksheet from an Excel workbook at path.
func ImportXLSX(path string, opts ...Option) (*dataview.DataView, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook %s", path)
	}
	defer f.Close()
	return readWorkbook(f, opts)
}

// ReadXLSX decodes a workbook from r.
func ReadXLSX(r io.Reader, opts ...Option) (*dataview.DataView, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook")
	}
	defer f.Close()
	return readWorkbook(f, opts)
}

func readWorkbook(f *excelize.File, opts []Option) (*dataview.DataView, error) {
	o := apply(opts)
	sheet := o.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeMissingData, "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}
	return fromRows(rows, opts)
}

// ImportJSON reads a serialized DataView from path.
func ImportJSON(path string) (*dataview.DataView, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadJSON decodes a serialized DataView from r.
func ReadJSON(r io.Reader) (*dataview.DataView, error) {
	var dv dataview.DataView
	if err := json.NewDecoder(r).Decode(&dv); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode data view")
	}
	if len(dv.Categories) == 0 {
		return nil, errors.New(errors.ErrCodeMissingData, "data view has no category column")
	}
	for i := range dv.Values {
		if dv.Values[i].Source == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "value column %d has no source", i)
		}
	}
	return &dv, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return f, nil
}

func apply(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func fromRows(rows [][]string, opts []Option) (*dataview.DataView, error) {
	o := apply(opts)
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New(errors.ErrCodeMissingData, "no header row")
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) < 2 {
		return nil, errors.New(errors.ErrCodeMissingData, "need a category column and at least one value column")
	}

	cols, err := selectColumns(header, o.series)
	if err != nil {
		return nil, err
	}

	body := rows[1:]
	catName := header[0]
	dv := &dataview.DataView{
		Categories: []dataview.CategoryColumn{{
			Source: &dataview.Source{DisplayName: catName, QueryName: catName},
			Values: make([]any, len(body)),
		}},
	}
	for r, row := range body {
		dv.Categories[0].Values[r] = cell(row, 0)
	}
	for _, c := range cols {
		vc := dataview.ValueColumn{
			Source: &dataview.Source{DisplayName: header[c], QueryName: header[c]},
			Values: make([]any, len(body)),
		}
		for r, row := range body {
			vc.Values[r] = value(cell(row, c))
		}
		dv.Values = append(dv.Values, vc)
	}
	return dv, nil
}

func selectColumns(header, series []string) ([]int, error) {
	if len(series) == 0 {
		cols := make([]int, 0, len(header)-1)
		for i := 1; i < len(header); i++ {
			cols = append(cols, i)
		}
		return cols, nil
	}
	index := make(map[string]int, len(header))
	for i := len(header) - 1; i >= 1; i-- {
		index[header[i]] = i
	}
	cols := make([]int, 0, len(series))
	for _, name := range series {
		i, ok := index[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no column named %q", name)
		}
		cols = append(cols, i)
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func value(s string) any {
	if s == "" {
		return nil
	}
	if v, err := cast.ToFloat64E(strings.ReplaceAll(s, ",", "")); err == nil {
		return v
	}
	return s
}

// Describe summarizes a DataView for logs.
func Describe(dv *dataview.DataView) string {
	names := make([]string, 0, len(dv.Values))
	for _, v := range dv.Values {
		names = append(names, v.Source.DisplayName)
	}
	return fmt.Sprintf("%d rows, series [%s]", dv.Rows(), strings.Join(names, ", "))
}
