package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tio "github.com/matzehuels/tornado/pkg/io"
	"github.com/matzehuels/tornado/pkg/pipeline"
	"github.com/matzehuels/tornado/pkg/settings"
)

// dataCommand creates the data command, which converts a CSV or XLSX file
// (or URL) into the JSON data view accepted by 'render' and the HTTP API.
func (c *CLI) dataCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		series  string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "data [data file]",
		Short: "Convert a data file into a JSON data view",
		Long: `Convert a CSV or XLSX file (or an http(s) URL) into a JSON data view.

The output can be passed back to 'render' and 'layout', or sent as the
"data" field of a 'serve' API request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Series = parseSeries(series)
			return c.runData(cmd, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache downloads")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "worksheet to read (xlsx, default: first)")
	cmd.Flags().StringVar(&series, "series", "", "value columns to keep (comma-separated, default: all)")

	return cmd
}

func (c *CLI) runData(cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	dv, err := runner.Load(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	c.Logger.Debug("loaded data", "input", opts.Input, "shape", tio.Describe(dv))

	if output == "-" {
		return tio.WriteJSON(dv, cmd.OutOrStdout())
	}
	if err := tio.ExportJSON(dv, output); err != nil {
		return err
	}
	c.report().success("Data view written")
	c.report().files(output)
	return nil
}

// settingsCommand prints the effective chart settings as TOML, as a starting
// point for a settings file.
func (c *CLI) settingsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the chart settings as TOML",
		Long: `Print the chart settings as TOML.

Without --settings the defaults are printed. With --settings the file is
merged over the defaults and validated first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pipeline.ResolveSettings(pipeline.Options{SettingsFile: file})
			if err != nil {
				return err
			}
			return settings.Encode(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&file, "settings", "", "chart settings file (TOML)")

	return cmd
}
