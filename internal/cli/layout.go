package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	tio "github.com/matzehuels/tornado/pkg/io"
	"github.com/matzehuels/tornado/pkg/pipeline"
)

// layoutCommand creates the layout command for computing chart geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		lf      layoutFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [data file]",
		Short: "Compute a tornado chart layout from a data file",
		Long: `Compute a tornado chart layout from a data file.

The output is a layout.json file (same format as 'render -f json') holding
every bar, label, legend item and category position. It can be rendered to
SVG/PNG/PDF with the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			lf.apply(&opts)
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	lf.register(cmd, &opts)

	return cmd
}

// runLayout loads the data, computes the layout, and writes the document.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	opts.Logger = c.Logger
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st := startStage(c.Logger, "layout")
	dv, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	c.Logger.Debug("loaded data", "input", opts.Input, "shape", tio.Describe(dv))

	spinner := newSpinner(ctx, c.status, "Computing layout...")
	spinner.Start()

	doc, _, cacheHit, err := runner.LayoutWithCacheInfo(ctx, dv, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Input) + layoutSuffix
	}
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := writeFile(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	st.done("columns", len(doc.Layout.Columns), "cached", cacheHit)

	r := c.report()
	r.success("Layout complete")
	r.files(outputPath)
	r.stats(dv.Rows(), len(doc.Layout.Columns), cacheHit)
	r.next("Render", appName+" visualize "+outputPath)

	return nil
}
