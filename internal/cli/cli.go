// Package cli implements the tornado command-line interface.
//
// # Commands
//
//   - render: data file → SVG, PNG, PDF or layout JSON in one step
//   - layout: data file → layout.json
//   - visualize: layout.json → SVG, PNG or PDF
//   - explore: interactive terminal chart with click-to-highlight
//   - data: CSV/XLSX/URL → JSON data view
//   - settings: print the effective chart settings as TOML
//   - serve: HTTP API with chart sessions
//   - cache: manage the local layout and artifact cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tornado/pkg/buildinfo"
	"github.com/matzehuels/tornado/pkg/cache"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tornado"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Logs and status lines share
// one writer; command output goes to the cobra command's stdout.
type CLI struct {
	Logger *log.Logger
	status io.Writer
}

// New creates a CLI that logs and reports progress to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Tornado draws two-sided bar charts from tabular data",
		Long:          `Tornado is a CLI tool for laying out and rendering tornado charts: one bar row per category, series mirrored around a shared axis, with click-to-highlight.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.dataCommand())
	root.AddCommand(c.settingsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	for _, cmd := range root.Commands() {
		registerChartCompletions(cmd)
	}

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner returns a pipeline runner over the local file cache, or over
// no cache with --no-cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	backend, err := c.localCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, nil, c.Logger), nil
}

// localCache opens the XDG cache directory. Without a home directory the
// CLI still works, uncached.
func (c *CLI) localCache(disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	c.Logger.Debug("cache", "dir", dir)
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tornado/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseSeries parses the --series flag. Empty means every value column.
func parseSeries(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// selectedIndex converts the --select flag; negative means nothing selected.
func selectedIndex(i int) *int {
	if i < 0 {
		return nil
	}
	return &i
}

// Process exit codes returned by [ExitCode].
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitInvalid   = 2
	ExitNotFound  = 3
	ExitInterrupt = 130
)

// ExitCode maps a command error to a process exit status: bad input and
// settings exit 2, missing files or URLs 3, Ctrl-C 130.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupt
	case errors.IsValidation(err), errors.Is(err, errors.ErrCodeMissingData), errors.Is(err, errors.ErrCodeUnsupported):
		return ExitInvalid
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return ExitNotFound
	}
	return ExitFailure
}
