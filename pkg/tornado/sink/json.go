package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/selection"
)

// DocumentVersion is written into every JSON document.
const DocumentVersion = 1

// Document is the JSON serialization of a layout. Alongside the geometry it
// records enough of the model to label the chart when re-rendered.
type Document struct {
	Version      int           `json:"version"`
	CategoryName string        `json:"category_name,omitempty"`
	Categories   []string      `json:"categories,omitempty"`
	Series       []DocSeries   `json:"series,omitempty"`
	Selected     *int          `json:"selected,omitempty"`
	Layout       layout.Layout `json:"layout"`
}

// DocSeries names one series in a [Document].
type DocSeries struct {
	Name string `json:"name"`
	Fill string `json:"fill"`
}

// JSONOption configures [RenderJSON].
type JSONOption func(*Document)

// WithJSONModel records category and series names from m.
func WithJSONModel(m *model.Model) JSONOption {
	return func(d *Document) {
		if m == nil {
			return
		}
		d.CategoryName = m.CategoryName
		d.Categories = append([]string(nil), m.Categories...)
		for _, s := range m.Series {
			d.Series = append(d.Series, DocSeries{Name: s.Name, Fill: s.Fill})
		}
	}
}

// WithJSONSelection records the selected column index.
func WithJSONSelection(index int, ok bool) JSONOption {
	return func(d *Document) {
		if ok {
			d.Selected = &index
		}
	}
}

// RenderJSON serializes the layout as indented JSON.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	return NewDocument(l, opts...).Encode()
}

// Encode serializes the document as indented JSON.
func (d Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// NewDocument builds the document [RenderJSON] would serialize.
func NewDocument(l layout.Layout, opts ...JSONOption) Document {
	doc := Document{Version: DocumentVersion, Layout: l}
	for _, opt := range opts {
		opt(&doc)
	}
	return doc
}

// Reselect returns a copy of d highlighted for st: column opacities and the
// recorded index are recomputed. An out-of-range selection clears.
func (d Document) Reselect(st selection.State) Document {
	n := len(d.Layout.Columns)
	st = st.Clamp(n)
	cols := append([]layout.Column(nil), d.Layout.Columns...)
	for i, o := range st.Opacities(n, d.Layout.SeriesCount()) {
		cols[i].Opacity = o
	}
	d.Layout.Columns = cols
	d.Selected = nil
	if i, ok := st.Index(); ok {
		d.Selected = &i
	}
	return d
}

// ParseJSON reads a document produced by [RenderJSON].
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse layout: %w", err)
	}
	if doc.Version != DocumentVersion {
		return Document{}, fmt.Errorf("unsupported layout version %d", doc.Version)
	}
	return doc, nil
}
