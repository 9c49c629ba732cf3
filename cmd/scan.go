package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peekknuf/opendataqa/internal/connectors"
	"github.com/peekknuf/opendataqa/internal/quality"
)

var (
	filename    string
	dirPath     string
	fileFormat  string
	recursive   bool
	scanWorkers int
	minSize     int64
	maxSize     int64
	scanSave    bool
	scanOutDir  string
)

type scanResult struct {
	File   connectors.FileMeta
	Report *quality.Report
	Err    error
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan directory for data files",
	Long: `Scan a directory and generate a quality report
for every data file found`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := scanTargets()
		if err != nil {
			return err
		}

		workers := scanWorkers
		if workers <= 0 {
			workers = appConfig.Scan.Workers
		}
		logger.Info("scanning files", "dir", dirPath, "files", len(files), "workers", workers)

		bar := newProgressBar(cmd.ErrOrStderr(), len(files), "[cyan][reset] Processing files...")
		results, err := processFiles(cmd.Context(), files, workers, bar, func(file connectors.FileMeta) scanResult {
			report, err := generateReport(file.Path)
			if err != nil {
				logger.Warn("skipping file", "file", file.Path, "error", err)
			}
			return scanResult{File: file, Report: report, Err: err}
		})
		if err != nil {
			return err
		}

		var reports []*quality.Report
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			reports = append(reports, r.Report)
			if scanOutDir != "" {
				out := filepath.Join(scanOutDir, reportFileName(r.File.Path))
				if err := writeJSON(cmd.OutOrStdout(), out, r.Report); err != nil {
					return err
				}
			}
		}

		if scanSave && len(reports) > 0 {
			ids, err := saveReports(cmd.Context(), reports...)
			if err != nil {
				return err
			}
			logger.Info("reports saved", "count", len(ids))
		}

		renderScanSummary(cmd.OutOrStdout(), results)
		if len(reports) == 0 {
			return errors.New("no file could be analyzed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&filename, "file", "n", "",
		"You might want to check specific file only")
	scanCmd.Flags().StringVarP(&dirPath, "dir", "d", "",
		"Directory to scan (required)")
	scanCmd.Flags().StringVarP(&fileFormat, "format", "f", "csv,xlsx",
		"Comma-separated file formats to analyze (csv, tsv, txt, xlsx, xlsm)")
	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0,
		"Number of parallel workers (default from config: CPU count)")
	scanCmd.Flags().Int64Var(&minSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&maxSize, "max-size", 0,
		"Maximum file size in bytes")
	scanCmd.Flags().BoolVar(&scanSave, "save", false,
		"Store every report in the history database")
	scanCmd.Flags().StringVar(&scanOutDir, "output-dir", "",
		"Directory to write one JSON report per file")

	scanCmd.MarkFlagRequired("dir")
}

// scanTargets returns the single --file when given, otherwise every matching
// file under --dir.
func scanTargets() ([]connectors.FileMeta, error) {
	if filename != "" {
		specificFile := filepath.Join(dirPath, filename)
		info, err := os.Stat(specificFile)
		if err != nil {
			return nil, fmt.Errorf("file not found: %s", specificFile)
		}
		return []connectors.FileMeta{{Path: specificFile, Size: info.Size(), Modified: info.ModTime()}}, nil
	}

	options := connectors.DiscoveryOptions{
		Recursive: recursive,
		MinSize:   minSize,
		MaxSize:   maxSize,
	}
	files, _, err := connectors.DiscoverFiles(dirPath, strings.Split(fileFormat, ","), options)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return files, nil
}

func reportFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".quality.json"
}
