// Package pkg provides the libraries behind the tornado chart tool.
//
// # Overview
//
// A tornado chart compares one or two series across categories as
// horizontal bars growing out of a shared axis. The pkg directory is
// organized into these areas:
//
//  1. [tornado] - the chart engine: normalizer, layout, selection, sinks
//  2. [settings] - typed chart settings, TOML files and color resolution
//  3. [io] and [dataview] - data files (CSV, XLSX, JSON) and the raw table;
//     [httputil] downloads them when the input is an http(s) URL
//  4. [pipeline] - orchestration (load → layout → render) with caching
//  5. [cache], [session], [observability] - infrastructure for the CLI
//     and the HTTP server
//
// # Architecture
//
//	CSV / XLSX / JSON file or URL
//	         ↓
//	    [io] package (DataView)
//	         ↓
//	    [tornado/model] (normalize, resolve colors, format values)
//	         ↓
//	    [tornado/layout] (sections, columns, labels, axis, categories)
//	         ↓
//	    [tornado/sink] (SVG / JSON / PNG / PDF)
//
// # Quick Start
//
//	dv, err := io.Import("sales.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v := tornado.New()
//	f := v.Update(dv, nil, layout.Viewport{Width: 800, Height: 400})
//	svg := sink.RenderSVG(f.Layout, sink.WithInteraction())
//
// [tornado]: github.com/matzehuels/tornado/pkg/tornado
// [settings]: github.com/matzehuels/tornado/pkg/settings
// [io]: github.com/matzehuels/tornado/pkg/io
// [dataview]: github.com/matzehuels/tornado/pkg/dataview
// [httputil]: github.com/matzehuels/tornado/pkg/httputil
// [pipeline]: github.com/matzehuels/tornado/pkg/pipeline
// [cache]: github.com/matzehuels/tornado/pkg/cache
// [session]: github.com/matzehuels/tornado/pkg/session
// [observability]: github.com/matzehuels/tornado/pkg/observability
package pkg
