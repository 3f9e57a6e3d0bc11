package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/cache"
	"github.com/matzehuels/flowdoc/pkg/config"
	"github.com/matzehuels/flowdoc/pkg/errors"
)

// cacheCommand manages the render cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached render",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend != config.BackendFile && c.cfg.Cache.Backend != "" {
				return errors.New(errors.ErrCodeUnsupported, "cache clear only supports the file backend (configured: %s)", c.cfg.Cache.Backend)
			}
			fc, err := cache.NewFileCache(c.cfg.Cache.CacheDir())
			if err != nil {
				return err
			}
			defer fc.Close()

			n, err := fc.Clear()
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "Cleared %d cached entries", n)
			printDetail(cmd.OutOrStdout(), "Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cfg.Cache.CacheDir())
			return nil
		},
	}
}
