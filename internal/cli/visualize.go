package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	tio "github.com/matzehuels/tornado/pkg/io"
	"github.com/matzehuels/tornado/pkg/pipeline"
	"github.com/matzehuels/tornado/pkg/tornado/selection"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		selected   int
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a chart from a computed layout",
		Long: `Render a chart from a computed layout.

Takes a layout.json file (from 'layout' or 'render -f json') and draws it as
SVG, PNG or PDF. Bar geometry is not recomputed; --select only changes which
bars are highlighted (-1 clears the stored selection).

Use 'render' as a shortcut to go directly from a data file to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			var reselect *selection.State
			if cmd.Flags().Changed("select") {
				st := selection.Unselected()
				if selected >= 0 {
					st = selection.Selected(selected)
				}
				reselect = &st
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache, reselect)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&selected, "select", -1, "column index to highlight instead of the stored selection")
	registerRenderFlags(cmd, &opts, &formatsStr)

	return cmd
}

// runVisualize loads the layout, applies a selection override and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, reselect *selection.State) error {
	doc, err := tio.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if reselect != nil {
		doc = doc.Reselect(*reselect)
		c.Logger.Debug("selection override", "state", reselect.String())
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	st := startStage(c.Logger, "visualize")

	spinner := newSpinner(ctx, c.status, fmt.Sprintf("Drawing %d bars...", len(doc.Layout.Columns)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	st.done("formats", opts.Formats, "cached", cacheHit)

	r := c.report()
	r.success("Visualization complete")
	r.files(paths...)
	r.stats(len(doc.Categories), len(doc.Layout.Columns), cacheHit)
	return nil
}
