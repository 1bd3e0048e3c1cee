package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/varannot/internal/duckdb"
)

// cachePath resolves the payload cache location, defaulting to
// ~/.varannot/cache.duckdb.
func cachePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".varannot", "cache.duckdb"), nil
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the payload cache",
		Long: `Annotation payloads fetched from the Ensembl REST service are cached in a
DuckDB database, keyed by assembly, lookup pass and lookup key.`,
		Example: `  varannot cache stats
  varannot cache clear
  varannot cache stats --cache /data/varannot.duckdb`,
		Args: usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return viper.BindPFlag("cache", cmd.Flag("cache"))
		},
	}

	cmd.PersistentFlags().String("cache", "", "Payload cache database (default: ~/.varannot/cache.duckdb)")

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func openCache() (*duckdb.Store, error) {
	path, err := cachePath(viper.GetString("cache"))
	if err != nil {
		return nil, err
	}
	store, err := duckdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	return store, nil
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number of cached payloads per assembly and pass",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache: %s\n", store.Path())
			if len(stats) == 0 {
				fmt.Fprintln(out, "  (empty)")
				return nil
			}
			var total int64
			for _, s := range stats {
				fmt.Fprintf(out, "  %-8s %-11s %d\n", s.Assembly, s.Pass, s.Count)
				total += s.Count
			}
			fmt.Fprintf(out, "  total %d\n", total)
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached payloads",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearPayloads(cmd.Context()); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared payload cache %s\n", store.Path())
			return nil
		},
	}
}
