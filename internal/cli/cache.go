package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tornado/pkg/cache"
)

// cacheCommand groups the local file cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the local layout, artifact and download cache",
	}
	cmd.AddCommand(
		c.cacheOpCommand("clear", "Remove every cached entry", (*cache.FileCache).Clear, "Cleared %d cached entries"),
		c.cacheOpCommand("prune", "Remove expired and unreadable entries", (*cache.FileCache).Prune, "Pruned %d entries"),
		c.cacheStatsCommand(),
		c.cachePathCommand(),
	)
	return cmd
}

// openCache opens the cache directory. A missing directory reports (nil, nil).
func openCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

// cacheOpCommand builds a subcommand that deletes files with op.
func (c *CLI) cacheOpCommand(use, short string, op func(*cache.FileCache) (int, error), done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openCache()
			if err != nil {
				return err
			}
			r := c.report()
			if fc == nil {
				r.info("Cache is empty")
				return nil
			}
			n, err := op(fc)
			if err != nil {
				return fmt.Errorf("%s cache: %w", use, err)
			}
			r.success(done, n)
			r.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cacheStatsCommand prints one line per key namespace to stdout.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts and sizes per cache namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openCache()
			if err != nil {
				return err
			}
			if fc == nil {
				c.report().info("Cache is empty")
				return nil
			}
			stats, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			kinds := make([]string, 0, len(stats))
			for k := range stats {
				kinds = append(kinds, k)
			}
			slices.Sort(kinds)
			out := cmd.OutOrStdout()
			for _, k := range kinds {
				s := stats[k]
				fmt.Fprintf(out, "%-9s %5d entries %10d bytes %5d expired\n", k, s.Entries, s.Bytes, s.Expired)
			}
			return nil
		},
	}
}

// cachePathCommand prints the cache directory.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
