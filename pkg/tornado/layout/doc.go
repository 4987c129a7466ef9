// Package layout computes the pixel geometry of a tornado chart.
//
// # Overview
//
// Given a normalized [model.Model], a viewport and a text measurer, [Build]
// produces a complete [Layout]:
//
//   - one [Column] per (series, category) pair, each with exactly one [Label]
//   - the center [AxisLine] (only for two series)
//   - one [CategoryText] per row (only when categories are shown)
//
// Every stage is a pure function of an immutable [Context] that is computed
// once per build. Building twice from identical inputs yields identical
// geometry.
//
// # Regions
//
// The viewport is split horizontally by [SizeSections] into a category-text
// region on the left and the chart region on the right. All column, label
// and axis coordinates are relative to the chart region origin, which sits
// at (Sections.Left, Context.Top); category text coordinates are relative to
// (0, Context.Top).
//
// With two series the chart region is halved around the axis. Series 0 is
// mirrored: its bars are translated so they hug the axis and rotated 180°
// about their own center, so they grow leftward. Series 1 (or the sole
// series of a one-series chart) grows rightward.
//
// # Rows
//
// Rows partition the chart height exactly:
//
//	RowHeight*n + Padding*(n-1) == ChartHeight
//
// # Building a Layout
//
//	m := model.Convert(dv, &cfg)
//	l := layout.Build(m, layout.Viewport{Width: 400, Height: 200},
//	    layout.WithMeasurer(ms),
//	    layout.WithLegendHeight(legend.Measure(m, 400, ms)),
//	)
//
// A nil model yields an empty layout ([Layout.Empty]).
package layout
