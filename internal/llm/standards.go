package llm

import (
	"context"
	"fmt"
	"strings"
)

// Match grades of a dataset against a data standard.
const (
	GradeGreen  = "green"
	GradeYellow = "yellow"
	GradeRed    = "red"
)

// standardsWanted is the number of standards the model is asked for.
const standardsWanted = 3

const standardsSystemPrompt = "You are a helpful program with resources in open data standards and government data publishing practices. When evaluating datasets against standards, provide specific, accurate assessments and respond only with JSON."

// StandardMatch grades a dataset against one domain data standard.
type StandardMatch struct {
	Standard    string `json:"standard"`
	MatchGrade  string `json:"match_grade"`
	DatasetLink string `json:"dataset_link"`
}

// MatchStandards asks the model for three domain-specific data standards the
// dataset could follow and how well its columns match each one.
func MatchStandards(ctx context.Context, c Completer, pageText string, columns []string) ([]StandardMatch, Usage, error) {
	responseText, usage, err := c.Complete(ctx, standardsSystemPrompt, buildStandardsPrompt(pageText, columns))
	if err != nil {
		return nil, usage, fmt.Errorf("failed to match standards: %w", err)
	}

	matches, err := parseStandardMatches(responseText)
	if err != nil {
		return nil, usage, err
	}
	return matches, usage, nil
}

func buildStandardsPrompt(pageText string, columns []string) string {
	var b strings.Builder
	b.WriteString(truncate(pageText, maxPageRunes))
	b.WriteString("\n\nDataset columns: ")
	if len(columns) == 0 {
		b.WriteString("not provided")
	} else {
		b.WriteString(strings.Join(columns, ", "))
	}
	fmt.Fprintf(&b, `

Given this open data dataset, name %d data standards that could be used as a baseline to know which fields to publish so the dataset better matches what its users expect. Be specific to the theme or area of the data, not generic open data guidelines: for example GTFS for transit or Open Contracting for public contracts. Grade this dataset against each standard as green, yellow or red and respond only with a JSON array like this:
[
  {
    "standard": "[standard name]",
    "match_grade": "[green, yellow or red]",
    "dataset_link": "[standard url]"
  }
]
No descriptions, only JSON.`, standardsWanted)
	return b.String()
}

func parseStandardMatches(responseText string) ([]StandardMatch, error) {
	var matches []StandardMatch
	if err := decodeJSON(responseText, '[', ']', &matches); err != nil {
		return nil, err
	}

	out := make([]StandardMatch, 0, standardsWanted)
	for _, m := range matches {
		m.Standard = strings.TrimSpace(m.Standard)
		if m.Standard == "" {
			continue
		}
		m.MatchGrade = normalizeGrade(m.MatchGrade)
		m.DatasetLink = strings.TrimSpace(m.DatasetLink)
		out = append(out, m)
		if len(out) == standardsWanted {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no standards in response: %w", ErrEmptyResponse)
	}
	return out, nil
}

// normalizeGrade maps a model grade onto green, yellow or red; anything
// unrecognized is red.
func normalizeGrade(grade string) string {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case GradeGreen:
		return GradeGreen
	case GradeYellow:
		return GradeYellow
	}
	return GradeRed
}
