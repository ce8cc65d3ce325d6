// Command agentry-cli is the operator tool for an agentry deployment:
// config validation, cache maintenance, and version info.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/halcyon-labs/agentry"
	"github.com/halcyon-labs/agentry/internal/diskcache"
	"github.com/halcyon-labs/agentry/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "agentry-cli",
		Short:        "Operator tool for agentry deployments",
		SilenceUsage: true,
	}
	root.AddCommand(newValidateCmd(), newCacheCmd(), newVersionCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a config file (JSON/YAML/TOML) against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := agentry.ValidateConfigFile(path); err != nil {
				return err
			}
			cfg, err := agentry.LoadConfig(path)
			if err != nil {
				return err
			}
			cfg.FillDefaults()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Config is valid")
			fmt.Fprintf(out, "  Address:       %s\n", cfg.Addr)
			fmt.Fprintf(out, "  Default agent: %s\n", cfg.DefaultAgent)
			if cfg.Cache.Disabled {
				fmt.Fprintf(out, "  Cache:         disabled\n")
			} else {
				fmt.Fprintf(out, "  Cache:         %s\n", cfg.Cache.Dir)
			}
			if len(cfg.CORSOrigins) > 0 {
				fmt.Fprintf(out, "  CORS origins:  %d\n", len(cfg.CORSOrigins))
			}
			if cfg.RequestLog.DSN != "" {
				driver := cfg.RequestLog.Driver
				if driver == "" {
					driver = "inferred from DSN"
				}
				fmt.Fprintf(out, "  Request log:   %s\n", driver)
			}
			return nil
		},
	}
}

func newCacheCmd() *cobra.Command {
	var dir string

	cache := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the shared response cache",
	}
	cache.PersistentFlags().StringVar(&dir, "dir", "", "cache directory (default: resolved from config and environment)")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts, size on disk, and oldest entry age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(dir)
			if err != nil {
				return err
			}
			st, err := store.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Directory: %s\n", store.Dir())
			fmt.Fprintf(out, "Entries:   %d (%d expired)\n", st.Entries, st.Expired)
			fmt.Fprintf(out, "Size:      %s\n", humanize.Bytes(uint64(st.Bytes)))
			if !st.Oldest.IsZero() {
				fmt.Fprintf(out, "Oldest:    %s\n", humanize.Time(st.Oldest))
			}
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(dir)
			if err != nil {
				return err
			}
			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries from %s\n", n, store.Dir())
			return nil
		},
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Remove only expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(dir)
			if err != nil {
				return err
			}
			n, err := store.Purge()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries from %s\n", n, store.Dir())
			return nil
		},
	}

	cache.AddCommand(stats, clear, purge)
	return cache
}

// openCache opens the store at dir, or at the directory the server would
// use (AGENTRY_CONFIG file plus environment) when dir is empty.
func openCache(dir string) (*diskcache.Store, error) {
	if dir == "" {
		cfg, err := agentry.ResolveConfig()
		if err != nil {
			return nil, err
		}
		if cfg.Cache.Disabled {
			return nil, errors.New("caching is disabled in the resolved config; pass --dir to target a directory")
		}
		dir = cfg.Cache.Dir
	}
	return diskcache.New(dir)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agentry-cli %s\n", version.String())
		},
	}
}
