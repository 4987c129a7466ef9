package pipeline

import (
	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado"
	"github.com/matzehuels/tornado/pkg/tornado/sink"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// NewMeasurer returns the text measurer named by opts.Measurer. The face
// measurer must be closed by the caller when no longer needed.
func NewMeasurer(name string) (text.Measurer, error) {
	switch name {
	case MeasurerApprox:
		return text.Approx{}, nil
	case MeasurerFace, "":
		m, err := text.NewFaceMeasurer()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
		}
		return m, nil
	}
	return nil, ValidateMeasurer(name)
}

// ComputeLayout runs one update of a [tornado.Visual] over dv and, when
// opts.Selected is set, one bar click. Missing or malformed data yields an
// empty layout rather than an error.
func ComputeLayout(dv *dataview.DataView, s settings.Settings, ms text.Measurer, opts Options) sink.Document {
	v := tornado.New(tornado.WithMeasurer(ms), tornado.WithLogger(opts.Logger))
	f := v.Update(dv, &s, opts.Viewport())
	if f.Model == nil {
		opts.Logger.Warn("no chartable data; rendering an empty frame")
	}
	if opts.Selected != nil {
		f = v.Click(*opts.Selected)
	}
	idx, ok := v.Selection().Index()
	return sink.NewDocument(f.Layout, sink.WithJSONModel(f.Model), sink.WithJSONSelection(idx, ok))
}
