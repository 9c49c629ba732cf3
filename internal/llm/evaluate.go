package llm

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// maxPageRunes bounds the page text sent to the model.
const maxPageRunes = 50000

// Criteria are the open-data questions a dataset page is scored against,
// each from 0 to 100.
var Criteria = []string{
	"Does the data exist?",
	"Is it available online from government in any form?",
	"Is the dataset provided in machine-readable and reusable formats?",
	"Is the machine-readable and reusable data available as a whole?",
	"Is the dataset available free of charge?",
	"Is the data openly licensed?",
	"Is the dataset up to date?",
	"Is the dataset being kept regularly updated?",
	"Was it easy to find information about this dataset?",
	"Are data identifiers provided for key elements in the dataset?",
}

const evaluateSystemPrompt = "You are a data quality expert who evaluates open data portals. Provide numerical scores and brief analysis in a consistent json format."

// PageEvaluation is the model's open-data assessment of a dataset page.
type PageEvaluation struct {
	Scores       map[string]float64 `json:"scores"`
	AverageScore float64            `json:"average_score"`
	Analysis     string             `json:"analysis"`
	Usage        Usage              `json:"-"`
}

// EvaluatePage scores the page text against Criteria.
func EvaluatePage(ctx context.Context, c Completer, pageText string) (*PageEvaluation, error) {
	if strings.TrimSpace(pageText) == "" {
		return nil, fmt.Errorf("page has no text to evaluate: %w", ErrEmptyResponse)
	}

	responseText, usage, err := c.Complete(ctx, evaluateSystemPrompt, buildEvaluatePrompt(pageText))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate page: %w", err)
	}

	eval, err := parsePageEvaluation(responseText)
	if err != nil {
		return nil, err
	}
	eval.Usage = usage
	return eval, nil
}

func buildEvaluatePrompt(pageText string) string {
	var b strings.Builder
	b.WriteString("Evaluate the following dataset webpage content against these criteria, providing a score from 0-100 for each:\n\n")
	for i, criterion := range Criteria {
		fmt.Fprintf(&b, "%d. %s\n", i+1, criterion)
	}
	b.WriteString("\nRespond only with JSON containing two fields: \"scores\", an object with each criterion text as key and its score as value, ")
	b.WriteString("and \"analysis\", a string with the key findings. For example:\n\n{\n  \"scores\": {\n")
	for i, criterion := range Criteria {
		sep := ","
		if i == len(Criteria)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %q: 100%s\n", criterion, sep)
	}
	b.WriteString("  },\n  \"analysis\": \"The dataset is published by the government in CSV and is openly licensed.\"\n}\n\nWebpage content:\n")
	b.WriteString(truncate(pageText, maxPageRunes))
	return b.String()
}

func parsePageEvaluation(responseText string) (*PageEvaluation, error) {
	var raw struct {
		Scores   map[string]float64 `json:"scores"`
		Analysis string             `json:"analysis"`
	}
	if err := decodeJSON(responseText, '{', '}', &raw); err != nil {
		return nil, err
	}
	if len(raw.Scores) == 0 {
		return nil, fmt.Errorf("no scores in page evaluation: %w", ErrEmptyResponse)
	}

	eval := &PageEvaluation{
		Scores:   make(map[string]float64, len(raw.Scores)),
		Analysis: strings.TrimSpace(raw.Analysis),
	}
	var sum float64
	for criterion, score := range raw.Scores {
		score = math.Max(0, math.Min(100, score))
		eval.Scores[strings.TrimSpace(criterion)] = score
		sum += score
	}
	eval.AverageScore = math.Round(sum/float64(len(eval.Scores))*10) / 10
	return eval, nil
}
