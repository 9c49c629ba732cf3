package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peekknuf/opendataqa/internal/dataset"
	"github.com/peekknuf/opendataqa/internal/llm"
	"github.com/peekknuf/opendataqa/internal/quality"
	"github.com/peekknuf/opendataqa/internal/webpage"
)

var (
	evaluateURL    string
	evaluateFile   string
	evaluateOutput string
	evaluateSave   bool
)

// Evaluation combines the page verdicts with the technical report of the
// dataset, when one was given.
type Evaluation struct {
	URL       string              `json:"url"`
	OpenData  *llm.PageEvaluation `json:"open_data"`
	Standards []llm.StandardMatch `json:"standards"`
	Technical *quality.Report     `json:"technical,omitempty"`
	Usage     llm.Usage           `json:"usage"`
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate an open data page and match it to data standards",
	Long: `Fetch a dataset landing page, score it against open data criteria
and grade it against domain data standards. With --file the dataset's
columns are used for standards matching and a technical report is added.

Examples:
  opendataqa evaluate --url https://data.example.gov/dataset/permits
  opendataqa evaluate --url https://data.example.gov/dataset/permits --file permits.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			columns   []string
			technical *quality.Report
		)
		if evaluateFile != "" {
			ds, err := dataset.Load(evaluateFile)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", evaluateFile, err)
			}
			columns = ds.Names()

			analyzer, err := newAnalyzer()
			if err != nil {
				return err
			}
			technical, err = analyzer.GenerateReport(ds)
			if err != nil {
				return fmt.Errorf("failed to analyze %s: %w", evaluateFile, err)
			}
		}

		completer, err := llm.New(appConfig.LLM, logger)
		if err != nil {
			return err
		}

		fetcher := webpage.NewFetcher(appConfig.Fetch, webpage.WithLogger(logger))
		logger.Info("fetching page", "url", evaluateURL)
		pageText, err := fetcher.Text(ctx, evaluateURL)
		if err != nil {
			return err
		}

		result := Evaluation{URL: evaluateURL, Technical: technical}

		logger.Info("evaluating page", "provider", appConfig.LLM.Provider, "model", appConfig.LLM.ResolvedModel())
		result.OpenData, err = llm.EvaluatePage(ctx, completer, pageText)
		if err != nil {
			return err
		}
		result.Usage.Add(result.OpenData.Usage)

		standards, usage, err := llm.MatchStandards(ctx, llm.ForStandards(completer), pageText, columns)
		result.Usage.Add(usage)
		if err != nil {
			return err
		}
		result.Standards = standards
		logger.Info("evaluation complete",
			"average_score", result.OpenData.AverageScore,
			"standards", len(standards),
			"tokens", result.Usage.TotalTokens())

		if evaluateSave && technical != nil {
			ids, err := saveReports(ctx, technical)
			if err != nil {
				return err
			}
			logger.Info("report saved", "id", ids[0])
		}

		return writeJSON(cmd.OutOrStdout(), evaluateOutput, result)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVarP(&evaluateURL, "url", "u", "",
		"Dataset landing page to evaluate (required)")
	evaluateCmd.Flags().StringVarP(&evaluateFile, "file", "f", "",
		"Dataset file for column matching and a technical report")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "output", "o", "",
		"Output file for the JSON result (default: stdout)")
	evaluateCmd.Flags().BoolVar(&evaluateSave, "save", false,
		"Store the technical report in the history database")

	evaluateCmd.MarkFlagRequired("url")
}
