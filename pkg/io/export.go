package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/sink"
)

// WriteJSON encodes a DataView as indented JSON. The output can be read back
// with [ReadJSON].
func WriteJSON(dv *dataview.DataView, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dv); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode data view")
	}
	return nil
}

// ExportJSON writes a DataView to a JSON file at path.
func ExportJSON(dv *dataview.DataView, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(dv, f)
}

// WriteLayoutFile stores a layout document at path.
func WriteLayoutFile(path string, l layout.Layout, opts ...sink.JSONOption) error {
	data, err := sink.RenderJSON(l, opts...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	return nil
}

// ReadLayoutFile loads a layout document written by [WriteLayoutFile] or the
// JSON sink.
func ReadLayoutFile(path string) (sink.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sink.Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return sink.Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	doc, err := sink.ParseJSON(data)
	if err != nil {
		return sink.Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	return doc, nil
}
