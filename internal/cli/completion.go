package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tornado/pkg/pipeline"
)

type completeFunc = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// completeOne completes a single flag value from choices.
func completeOne(choices ...string) completeFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return choices, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeList completes the last element of a comma-separated value,
// leaving out choices already listed.
func completeList(choices ...string) completeFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		done := strings.Split(toComplete, ",")
		prefix := strings.Join(done[:len(done)-1], ",")
		if prefix != "" {
			prefix += ","
		}
		var out []string
		for _, c := range choices {
			if !slices.Contains(done, c) {
				out = append(out, prefix+c)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

// registerChartCompletions wires value completion for the chart flags cmd
// defines. Flags it does not have are skipped.
func registerChartCompletions(cmd *cobra.Command) {
	funcs := map[string]completeFunc{
		"format":     completeList(pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON),
		"measurer":   completeOne(pipeline.MeasurerFace, pipeline.MeasurerApprox),
		"rasterizer": completeOne(pipeline.RasterizerNative, pipeline.RasterizerRSVG),
		"cache":      completeOne(backendFile, backendRedis, backendNone),
		"settings":   completeFiles("toml"),
	}
	for name, fn := range funcs {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fn)
		}
	}
}

// completeFiles restricts file completion to the given extensions.
func completeFiles(exts ...string) completeFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tornado.

Bash:
  $ source <(tornado completion bash)

Zsh:
  $ tornado completion zsh > "${fpath[1]}/_tornado"

Fish:
  $ tornado completion fish | source

PowerShell:
  PS> tornado completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
