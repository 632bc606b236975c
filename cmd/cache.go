package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/enrich-cli/internal/classify"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the enrichment cache",
}

var cacheLookupCmd = &cobra.Command{
	Use:   "lookup <display-name>",
	Short: "Print the cached enrichment for a display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := initCache(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		key := classify.DedupKey(args[0])
		b, err := c.Get(ctx, key)
		if err != nil {
			return err
		}
		if b == nil {
			fmt.Fprintf(os.Stderr, "no cached entry for %q (key %s)\n", args[0], key)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache entry count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := initCache(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("backend: %s\nentries: %d\n", cfg.Cache.Backend, n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached enrichments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := initCache(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Count(ctx)
		if err != nil {
			return err
		}
		if err := c.Clear(ctx); err != nil {
			return err
		}
		fmt.Printf("cleared %d entries\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheLookupCmd, cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
