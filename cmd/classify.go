package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/classify"
	"github.com/sells-group/enrich-cli/internal/csvio"
	"github.com/sells-group/enrich-cli/internal/model"
)

var (
	classifyInput  string
	classifyOutput string
)

// classifyCmd runs the offline classification pass only: no provider
// calls, no credentials needed.
var classifyCmd = &cobra.Command{
	Use:   "classify [name...]",
	Short: "Classify display names as business, person, or other",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("classify"); err != nil {
			return err
		}

		// Names given directly on the command line print as JSON.
		if len(args) > 0 {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			for _, name := range args {
				if err := enc.Encode(classify.Normalize(name)); err != nil {
					return err
				}
			}
			return nil
		}

		rows, err := csvio.ReadFile(cmd.Context(), classifyInput)
		if err != nil {
			return err
		}

		out := make([]model.OutputRow, len(rows))
		counts := map[model.NameLabel]int{}
		for i, row := range rows {
			name := classify.Normalize(row.DisplayName)
			out[i] = model.OutputRow{Source: row, Classified: name}
			counts[name.Label]++
		}

		if err := csvio.WriteFile(classifyOutput, out); err != nil {
			return err
		}

		zap.L().Info("classification complete",
			zap.String("output", classifyOutput),
			zap.Int("rows", len(out)),
			zap.Int("businesses", counts[model.LabelBusiness]),
			zap.Int("persons", counts[model.LabelPerson]),
			zap.Int("others", counts[model.LabelOther]))
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyInput, "input", "i", "", "input CSV or XLSX file")
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "classified.csv", "output CSV file")
	rootCmd.AddCommand(classifyCmd)
}
