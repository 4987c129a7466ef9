package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/tornado/pkg/dataview"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/httputil"
	tio "github.com/matzehuels/tornado/pkg/io"
	"github.com/matzehuels/tornado/pkg/settings"
)

// Load reads opts.Input into a DataView, honoring the sheet and series
// selection. An http(s) input is downloaded without caching; use
// [Runner.Load] to cache downloads.
func Load(ctx context.Context, opts Options) (*dataview.DataView, error) {
	return load(ctx, opts, httputil.NewFetcher())
}

func load(ctx context.Context, opts Options, f *httputil.Fetcher) (*dataview.DataView, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	var ioOpts []tio.Option
	if opts.Sheet != "" {
		ioOpts = append(ioOpts, tio.WithSheet(opts.Sheet))
	}
	if len(opts.Series) > 0 {
		ioOpts = append(ioOpts, tio.WithSeries(opts.Series...))
	}
	if !httputil.IsURL(opts.Input) {
		return tio.Import(opts.Input, ioOpts...)
	}
	body, err := f.Fetch(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	return tio.Read(bytes.NewReader(body), errors.DataExt(opts.Input), ioOpts...)
}

// ResolveSettings returns the chart settings for opts: the explicit value if
// set, else the settings file, else the defaults. The result is validated.
func ResolveSettings(opts Options) (settings.Settings, error) {
	switch {
	case opts.Settings != nil:
		s := *opts.Settings
		if err := s.Validate(); err != nil {
			return settings.Settings{}, err
		}
		return s, nil
	case opts.SettingsFile != "":
		return settings.Load(opts.SettingsFile)
	default:
		return settings.Default(), nil
	}
}
