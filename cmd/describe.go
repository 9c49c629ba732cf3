package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/peekknuf/opendataqa/internal/connectors"
	"github.com/peekknuf/opendataqa/internal/dataset"
	"github.com/peekknuf/opendataqa/internal/profiler"
)

var (
	describeWorkers   int
	outputFile        string
	describeRecursive bool
)

type DescribeResult struct {
	Path           string
	RowCount       int
	ColumnStats    []profiler.ColumnStats
	ProcessingTime time.Duration
	Error          error
}

var describeCmd = &cobra.Command{
	Use:   "describe [file or directory]",
	Short: "Generate descriptive statistics for data files",
	Long: `Generate descriptive statistics for CSV and Excel files.
Analyzes numeric, string, and date columns automatically.

Examples:
  opendataqa describe file.csv                           # Single file
  opendataqa describe /data/directory/ --recursive       # Directory processing
  opendataqa describe /data/directory/ --workers 4       # Limit CPU usage
  opendataqa describe file.xlsx --output results.txt     # Save output`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := args[0]

		fileInfo, err := os.Stat(targetPath)
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", targetPath, err)
		}

		var results []DescribeResult
		if fileInfo.IsDir() {
			results, err = describeDirectory(cmd, targetPath)
			if err != nil {
				return err
			}
		} else {
			results = []DescribeResult{describeFile(targetPath)}
			if results[0].Error != nil {
				return results[0].Error
			}
		}

		out := cmd.OutOrStdout()
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file %s: %w", outputFile, err)
			}
			defer f.Close()
			out = f
		}

		outputResults(out, results)
		if outputFile != "" {
			logger.Info("results saved", "path", outputFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().IntVar(&describeWorkers, "workers", 0,
		"Number of parallel workers (default from config: CPU count)")
	describeCmd.Flags().StringVar(&outputFile, "output", "",
		"Output file to save results (default: stdout)")
	describeCmd.Flags().BoolVar(&describeRecursive, "recursive", false,
		"Process directories recursively")
}

func describeDirectory(cmd *cobra.Command, dirPath string) ([]DescribeResult, error) {
	options := connectors.DiscoveryOptions{
		Recursive: describeRecursive,
	}
	files, fileCount, err := connectors.DiscoverFiles(dirPath, dataset.SupportedExtensions(), options)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	workers := describeWorkers
	if workers <= 0 {
		workers = appConfig.Scan.Workers
	}
	logger.Info("describing files", "dir", dirPath, "files", fileCount, "workers", workers)

	bar := newProgressBar(cmd.ErrOrStderr(), fileCount, "[cyan][reset] Processing files...")
	return processFiles(cmd.Context(), files, workers, bar, func(file connectors.FileMeta) DescribeResult {
		return describeFile(file.Path)
	})
}

func describeFile(path string) DescribeResult {
	start := time.Now()
	ds, err := dataset.Load(path)
	if err != nil {
		logger.Warn("failed to load file", "file", path, "error", err)
		return DescribeResult{Path: path, Error: err}
	}
	return DescribeResult{
		Path:           path,
		RowCount:       ds.Rows(),
		ColumnStats:    profiler.Describe(ds),
		ProcessingTime: time.Since(start),
	}
}

func outputResults(w io.Writer, results []DescribeResult) {
	var failed []string
	for i, result := range results {
		if result.Error != nil {
			failed = append(failed, filepath.Base(result.Path))
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderDescribe(w, result.Path, result.RowCount, result.ColumnStats)
		logger.Debug("described file", "file", result.Path, "took", result.ProcessingTime.Round(time.Millisecond))
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "\nFailed to process %d file(s): %s\n", len(failed), strings.Join(failed, ", "))
	}
}
