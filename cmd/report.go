package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peekknuf/opendataqa/internal/dataset"
	"github.com/peekknuf/opendataqa/internal/quality"
	"github.com/peekknuf/opendataqa/internal/store"
)

var (
	reportOutput string
	reportTable  bool
	reportSave   bool
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Generate a quality report for a dataset",
	Long: `Generate a technical quality report for a CSV or Excel file covering
completeness, accuracy, consistency and uniqueness.

Examples:
  opendataqa report data.csv                      # JSON report on stdout
  opendataqa report data.xlsx --table             # Summary tables
  opendataqa report data.csv --output report.json --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := generateReport(args[0])
		if err != nil {
			return err
		}

		if reportSave {
			id, err := saveReports(cmd.Context(), report)
			if err != nil {
				return err
			}
			logger.Info("report saved", "id", id[0])
		}

		if reportTable {
			renderReport(cmd.OutOrStdout(), report)
			return nil
		}
		return writeJSON(cmd.OutOrStdout(), reportOutput, report)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "",
		"Output file for the JSON report (default: stdout)")
	reportCmd.Flags().BoolVar(&reportTable, "table", false,
		"Print summary tables instead of JSON")
	reportCmd.Flags().BoolVar(&reportSave, "save", false,
		"Store the report in the history database")
}

// generateReport loads a dataset and runs every quality check on it.
func generateReport(path string) (*quality.Report, error) {
	analyzer, err := newAnalyzer()
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	report, err := analyzer.GenerateReport(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	logger.Debug("report generated", "file", path, "rows", report.Metadata.TotalRows, "score", report.OverallQuality.Score)
	return report, nil
}

// saveReports stores reports in the history database and returns their ids.
func saveReports(ctx context.Context, reports ...*quality.Report) ([]string, error) {
	st, err := store.Open(appConfig.Store.Path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	ids := make([]string, 0, len(reports))
	for _, report := range reports {
		id, err := st.Save(ctx, report)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
