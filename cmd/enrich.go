package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/csvio"
	"github.com/sells-group/enrich-cli/internal/model"
)

var (
	enrichInput  string
	enrichOutput string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a review export with business contact data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rows, err := csvio.ReadFile(ctx, enrichInput)
		if err != nil {
			return err
		}
		zap.L().Info("input loaded",
			zap.String("path", enrichInput),
			zap.Int("rows", len(rows)))

		out := env.runner.Run(ctx, rows)

		if err := csvio.WriteFile(enrichOutput, out); err != nil {
			return err
		}

		counts := map[model.EnrichmentStatus]int{}
		for _, row := range out {
			if row.Enriched != nil {
				counts[row.Enriched.Status]++
			}
		}
		zap.L().Info("enrichment complete",
			zap.String("output", enrichOutput),
			zap.Int("rows", len(out)),
			zap.Int("success", counts[model.StatusSuccess]),
			zap.Int("partial", counts[model.StatusPartial]),
			zap.Int("failed", counts[model.StatusFailed]),
			zap.Int("errors", counts[model.StatusError]),
			zap.Strings("exhausted_providers", env.health.Exhausted()))

		if counts[model.StatusError] > 0 {
			return eris.Errorf("%d units failed with internal errors", counts[model.StatusError])
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVarP(&enrichInput, "input", "i", "", "input CSV or XLSX file (required)")
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "enriched.csv", "output CSV file")
	_ = enrichCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(enrichCmd)
}
