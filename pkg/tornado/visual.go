// Package tornado ties the tornado chart pipeline together.
//
// A [Visual] owns the only state that survives an update: the highlight
// selection and the most recent layout. Every [Visual.Update] recomputes
// model and geometry from scratch:
//
//	DataView → model.Convert → legend.ForModel → layout.Build → selection
//
// Clicks only re-apply opacities to the last layout.
//
// A Visual is not safe for concurrent use.
package tornado

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/legend"
	"github.com/matzehuels/tornado/pkg/tornado/model"
	"github.com/matzehuels/tornado/pkg/tornado/selection"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Frame is what a rendering surface draws after an event.
type Frame struct {
	Model     *model.Model    `json:"model"`
	Layout    layout.Layout   `json:"layout"`
	Selection selection.State `json:"-"`
}

// Option configures a [Visual].
type Option func(*Visual)

// WithMeasurer sets the text measurer. The default is [text.Approx].
func WithMeasurer(ms text.Measurer) Option {
	return func(v *Visual) {
		if ms != nil {
			v.measurer = ms
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(v *Visual) {
		if l != nil {
			v.logger = l
		}
	}
}

// Visual is the update-cycle controller of one chart.
type Visual struct {
	measurer text.Measurer
	logger   *log.Logger

	model *model.Model
	last  layout.Layout
	state selection.State
}

// New creates a Visual with nothing drawn and nothing selected.
func New(opts ...Option) *Visual {
	v := &Visual{
		measurer: text.Approx{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Update recomputes the chart for new data, settings or viewport size. A nil
// s uses the default settings. The selection survives when its index still
// exists in the new layout.
func (v *Visual) Update(dv *dataview.DataView, s *settings.Settings, vp layout.Viewport) Frame {
	v.model = model.Convert(dv, s)
	if v.model == nil {
		v.logger.Debug("no chartable data", "rows", dv.Rows())
		v.last = layout.Build(nil, vp)
		v.state = v.state.Clamp(0)
		return v.frame()
	}

	opts := []layout.Option{layout.WithMeasurer(v.measurer)}
	if v.model.Settings.ShowLegend {
		opts = append(opts, layout.WithLegend(legend.ForModel(v.model, vp.Width, v.measurer)))
	}
	v.last = layout.Build(v.model, vp, opts...)
	if !v.last.LabelsVisible && v.model.Settings.ShowLabels {
		v.logger.Debug("label layer hidden", "rowHeight", v.last.Context.RowHeight)
	}

	v.state = v.state.Clamp(len(v.last.Columns))
	v.applySelection()
	v.logger.Debug("layout updated",
		"series", v.last.Context.SeriesCount,
		"categories", v.last.Context.CategoryCount,
		"selection", v.state)
	return v.frame()
}

// Click handles a click on the bar at column index i. An index outside the
// current layout counts as a background click.
func (v *Visual) Click(i int) Frame {
	if i < 0 || i >= len(v.last.Columns) {
		return v.ClickBackground()
	}
	return v.handle(selection.BarClicked{Index: i})
}

// ClickBackground handles a click outside every bar.
func (v *Visual) ClickBackground() Frame {
	return v.handle(selection.BackgroundClicked{})
}

func (v *Visual) handle(ev selection.Event) Frame {
	v.state = v.state.Handle(ev)
	v.applySelection()
	return v.frame()
}

// Settings returns the current-settings snapshots of a property object.
func (v *Visual) Settings(object string) []settings.Instance {
	return v.model.Enumerate(object)
}

// Selection returns the current highlight state.
func (v *Visual) Selection() selection.State { return v.state }

// Frame returns the last computed frame.
func (v *Visual) Frame() Frame { return v.frame() }

func (v *Visual) applySelection() {
	cols := v.last.Columns
	opacities := v.state.Opacities(len(cols), v.last.SeriesCount())
	for i := range cols {
		cols[i].Opacity = opacities[i]
	}
}

func (v *Visual) frame() Frame {
	l := v.last
	l.Columns = append([]layout.Column(nil), v.last.Columns...)
	return Frame{Model: v.model, Layout: l, Selection: v.state}
}
