package layout

import (
	"github.com/matzehuels/tornado/pkg/tornado/legend"
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Option configures [Build] and [NewContext].
type Option func(*options)

type options struct {
	measurer     text.Measurer
	legendHeight float64
	legend       *legend.Legend
}

func newOptions(opts []Option) options {
	o := options{measurer: text.Approx{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMeasurer sets the text measurer. The default is [text.Approx].
func WithMeasurer(ms text.Measurer) Option {
	return func(o *options) {
		if ms != nil {
			o.measurer = ms
		}
	}
}

// WithLegendHeight reserves h pixels above the chart for the legend.
func WithLegendHeight(h float64) Option {
	return func(o *options) { o.legendHeight = max(0, h) }
}

// WithLegend attaches a positioned legend and reserves its height.
func WithLegend(lg legend.Legend) Option {
	return func(o *options) {
		o.legend = &lg
		o.legendHeight = max(0, lg.Height)
	}
}

// Build runs every layout stage for m. A nil model yields an empty layout
// that still records the viewport.
func Build(m *model.Model, vp Viewport, opts ...Option) Layout {
	o := newOptions(opts)
	ctx := NewContext(m, vp, opts...)
	l := Layout{Context: ctx}
	if o.legend != nil {
		l.Legend = *o.legend
	}
	if m == nil {
		return l
	}
	l.Columns = Columns(ctx, m)
	l.LabelsVisible = Labels(ctx, m, l.Columns, o.measurer)
	l.Axis = Axis(ctx)
	l.Categories = CategoryTexts(ctx, m, o.measurer)
	return l
}
