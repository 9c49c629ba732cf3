package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/peekknuf/opendataqa/internal/dataset"
	"github.com/peekknuf/opendataqa/internal/profiler"
	"github.com/peekknuf/opendataqa/internal/quality"
	"github.com/peekknuf/opendataqa/internal/store"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	logger.Info("results saved", "path", path)
	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 3, 64)
}

func renderReport(w io.Writer, report *quality.Report) {
	fmt.Fprintf(w, "File: %s\n", report.Metadata.Filename)
	fmt.Fprintf(w, "Rows: %s | Columns: %d | Generated: %s\n\n",
		humanize.Comma(int64(report.Metadata.TotalRows)),
		report.Metadata.TotalColumns,
		report.Metadata.Timestamp.Format("2006-01-02 15:04:05"))

	checks := report.QualityChecks
	table := newTable(w, []string{"Check", "Score", "Grade", "Threshold Met"})
	for _, row := range []struct {
		name  string
		grade quality.Grade
	}{
		{quality.CategoryCompleteness, checks.Completeness.Grade},
		{quality.CategoryAccuracy, checks.Accuracy.Grade},
		{quality.CategoryConsistency, checks.Consistency.Grade},
		{quality.CategoryUniqueness, checks.Uniqueness.Grade},
	} {
		table.Append([]string{row.name, formatScore(row.grade.Score), row.grade.Interpretation, strconv.FormatBool(row.grade.ThresholdMet)})
	}
	overall := report.OverallQuality
	table.SetFooter([]string{"overall", formatScore(overall.Score), overall.Interpretation, strconv.FormatBool(overall.ThresholdMet)})
	table.Render()

	if len(overall.Recommendations) == 0 {
		return
	}
	fmt.Fprintln(w)
	recs := newTable(w, []string{"Category", "Impact", "Issue", "Suggestion"})
	for _, r := range overall.Recommendations {
		recs.Append([]string{r.Category, r.Impact, r.Issue, r.Suggestion})
	}
	recs.Render()
}

func renderDescribe(w io.Writer, path string, rows int, stats []profiler.ColumnStats) {
	fmt.Fprintf(w, "File: %s (%s rows)\n", filepath.Base(path), humanize.Comma(int64(rows)))

	table := newTable(w, []string{"Column", "Type", "Count", "Nulls", "Mean", "Std", "Min", "25%", "50%", "75%", "Max", "Unique", "Top", "Freq"})
	for _, s := range stats {
		row := []string{s.Name, s.Type, humanize.Comma(int64(s.Count)), humanize.Comma(int64(s.NullCount))}
		if s.Type == dataset.TypeInt64 || s.Type == dataset.TypeFloat64 {
			row = append(row,
				humanize.FormatFloat("#,###.##", s.Mean),
				humanize.FormatFloat("#,###.##", s.Std),
				s.Min,
				humanize.FormatFloat("#,###.##", s.Q25),
				humanize.FormatFloat("#,###.##", s.Q50),
				humanize.FormatFloat("#,###.##", s.Q75),
				s.Max,
				"", "", "")
		} else {
			row = append(row, "", "", truncateCell(s.Min), "", "", "", truncateCell(s.Max),
				humanize.Comma(int64(s.Unique)), truncateCell(s.Top), humanize.Comma(int64(s.Freq)))
		}
		table.Append(row)
	}
	table.Render()
}

func renderScanSummary(w io.Writer, results []scanResult) {
	table := newTable(w, []string{"File", "Size", "Rows", "Columns", "Score", "Grade", "Error"})
	for _, r := range results {
		if r.Err != nil {
			table.Append([]string{truncatePath(r.File.Path), humanize.Bytes(uint64(r.File.Size)), "", "", "", "", r.Err.Error()})
			continue
		}
		meta := r.Report.Metadata
		table.Append([]string{
			truncatePath(r.File.Path),
			humanize.Bytes(uint64(r.File.Size)),
			humanize.Comma(int64(meta.TotalRows)),
			strconv.Itoa(meta.TotalColumns),
			formatScore(r.Report.OverallQuality.Score),
			r.Report.OverallQuality.Interpretation,
			"",
		})
	}
	table.Render()
}

func renderHistory(w io.Writer, records []store.Record) {
	table := newTable(w, []string{"ID", "File", "Score", "Grade", "Rows", "Columns", "Created"})
	for _, r := range records {
		table.Append([]string{
			r.ID,
			truncatePath(r.Filename),
			formatScore(r.OverallScore),
			r.Interpretation,
			humanize.Comma(int64(r.TotalRows)),
			strconv.Itoa(r.TotalColumns),
			humanize.Time(r.CreatedAt),
		})
	}
	table.Render()
}

const maxCellRunes = 40

// truncateCell shortens long values to keep tables readable.
func truncateCell(s string) string {
	r := []rune(s)
	if len(r) <= maxCellRunes {
		return s
	}
	return string(r[:maxCellRunes-3]) + "..."
}

// truncatePath keeps the end of a long path, where the file name is.
func truncatePath(s string) string {
	r := []rune(s)
	if len(r) <= maxCellRunes {
		return s
	}
	return "..." + string(r[len(r)-maxCellRunes+3:])
}
