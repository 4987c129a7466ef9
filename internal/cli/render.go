package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tornado/pkg/pipeline"
)

// layoutFlags are the flags shared by every command that computes a layout.
type layoutFlags struct {
	series   string
	selected int
}

func (f *layoutFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.SettingsFile, "settings", "", "chart settings file (TOML)")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "worksheet to read (xlsx, default: first)")
	cmd.Flags().StringVar(&f.series, "series", "", "value columns to chart (comma-separated, default: all)")
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "viewport width")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "viewport height")
	cmd.Flags().IntVar(&f.selected, "select", -1, "column index to highlight")
	cmd.Flags().StringVar(&opts.Measurer, "measurer", pipeline.MeasurerFace, "text measurer: face (default), approx")
}

func (f *layoutFlags) apply(opts *pipeline.Options) {
	opts.Series = parseSeries(f.series)
	opts.Selected = selectedIndex(f.selected)
}

// registerRenderFlags adds the flags that shape rendered artifacts.
func registerRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formats *string) {
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed click-to-highlight script (svg)")
	cmd.Flags().BoolVar(&opts.Tooltips, "tooltips", true, "add hover tooltips (svg)")
	cmd.Flags().BoolVar(&opts.EmbedFont, "embed-font", false, "embed the label font (svg, pdf)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "pixel scale (png)")
	cmd.Flags().StringVar(&opts.Rasterizer, "rasterizer", pipeline.RasterizerNative, "png rasterizer: native (default), rsvg")
}

// renderCommand creates the render command: data file straight to artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		lf         layoutFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [data.csv|data.xlsx|data.json]",
		Short: "Render a tornado chart from a data file",
		Long: `Render a tornado chart from a data file.

The first column of a CSV or XLSX file holds the categories, every other
column is one series. JSON files hold a full data view (see 'layout').
The input may also be an http(s) URL; downloads are cached like layouts.

Layouts and artifacts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(formatsStr)
			lf.apply(&opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	lf.register(cmd, &opts)
	registerRenderFlags(cmd, &opts, &formatsStr)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	st := startStage(c.Logger, "render")

	spinner := newSpinner(ctx, c.status, "Rendering "+opts.Input+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
	})
	if err != nil {
		return err
	}
	st.done("input", opts.Input, "files", len(paths))

	r := c.report()
	r.success("Render complete")
	r.files(paths...)
	r.stats(result.Stats.Rows, result.Stats.Columns, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}
