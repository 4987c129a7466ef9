// Package pipeline runs the load → layout → render pipeline for tornado
// charts.
//
// The CLI and the HTTP server share this package so that defaults, cache
// keys and output formats behave the same from every entry point.
//
// # Stages
//
//  1. Load: read a CSV, XLSX or JSON data file into a DataView
//  2. Layout: normalize, measure and place every bar, label and category
//  3. Render: produce SVG, JSON, PNG or PDF artifacts, concurrently
//
// Layouts and artifacts are cached by content: the layout key covers the
// data hash, viewport, settings and selection; the artifact key adds the
// render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "sales.csv",
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tornado/pkg/cache"
	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/settings"
	"github.com/matzehuels/tornado/pkg/tornado/layout"
	"github.com/matzehuels/tornado/pkg/tornado/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 400.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Text measurers selectable for layout.
const (
	MeasurerFace   = "face"
	MeasurerApprox = "approx"
)

// PNG rasterizers.
const (
	RasterizerNative = "native"
	RasterizerRSVG   = "rsvg"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input  string   `json:"input,omitempty"`
	Sheet  string   `json:"sheet,omitempty"`
	Series []string `json:"series,omitempty"`

	// Settings: an explicit value wins over a settings file.
	Settings     *settings.Settings `json:"settings,omitempty"`
	SettingsFile string             `json:"settings_file,omitempty"`

	// Layout options
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Selected *int    `json:"selected,omitempty"`
	Measurer string  `json:"measurer,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Tooltips    bool     `json:"tooltips,omitempty"`
	EmbedFont   bool     `json:"embed_font,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Rasterizer  string   `json:"rasterizer,omitempty"`

	// Refresh bypasses cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Data is the loaded data view.
	Data *dataview.DataView

	// DataHash is the content hash of Data.
	DataHash string

	// Document is the computed layout with series and category names.
	Document sink.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Columns    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks that a measurer name is valid.
func ValidateMeasurer(name string) error {
	switch name {
	case MeasurerFace, MeasurerApprox:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid measurer: %q (must be one of: face, approx)", name)
}

// ValidateRasterizer checks that a rasterizer name is valid.
func ValidateRasterizer(name string) error {
	switch name {
	case RasterizerNative, RasterizerRSVG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid rasterizer: %q (must be one of: native, rsvg)", name)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates every stage.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that an input file is named and acceptable.
func (o *Options) ValidateForLoad() error {
	return errors.ValidateDataPath(o.Input)
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Measurer == "" {
		o.Measurer = MeasurerFace
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the viewport.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if o.Selected != nil && *o.Selected < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "selected must be >= 0, got %d", *o.Selected)
	}
	return ValidateMeasurer(o.Measurer)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Compact(o.Formats)
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Rasterizer == "" {
		o.Rasterizer = RasterizerNative
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates them.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	return ValidateRasterizer(o.Rasterizer)
}

// Viewport returns the layout viewport.
func (o *Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(settingsHash string) cache.LayoutKeyOpts {
	sel := -1
	if o.Selected != nil {
		sel = *o.Selected
	}
	return cache.LayoutKeyOpts{
		Width:        o.Width,
		Height:       o.Height,
		SettingsHash: settingsHash,
		Measurer:     o.Measurer,
		Selected:     sel,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Interactive, k.Tooltips, k.EmbedFont = o.Interactive, o.Tooltips, o.EmbedFont
	case FormatPNG:
		k.Scale, k.Rasterizer = o.Scale, o.Rasterizer
	}
	return k
}
