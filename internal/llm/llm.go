package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/peekknuf/opendataqa/internal/config"
)

// ErrEmptyResponse is returned when a model answers without usable content.
var ErrEmptyResponse = errors.New("empty LLM response")

// Usage counts the tokens spent on one or more completions.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Completer sends one system and user prompt pair to a model and returns the
// text of its answer.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, Usage, error)
}

// New creates the Completer of the configured provider.
func New(cfg config.LLM, logger *slog.Logger) (Completer, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(key, cfg.ResolvedModel(), cfg.BaseURL, cfg.Timeout, logger), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(key, cfg.ResolvedModel(), cfg.MaxTokens, logger), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

// StandardsTemperature is the sampling temperature for standards matching on
// providers that accept one.
const StandardsTemperature = 0.5

// ForStandards returns the completer used for standards matching. OpenAI
// clients get a copy sampling at StandardsTemperature; others are returned
// unchanged.
func ForStandards(c Completer) Completer {
	if oc, ok := c.(*OpenAIClient); ok {
		standards := *oc
		return standards.WithTemperature(StandardsTemperature)
	}
	return c
}

// decodeJSON strips markdown fences and any prose around the outermost JSON
// value starting with open, then unmarshals it into v.
func decodeJSON(responseText string, open, close byte, v any) error {
	text := strings.TrimSpace(responseText)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyResponse
	}

	if start, end := strings.IndexByte(text, open), strings.LastIndexByte(text, close); start >= 0 && end > start {
		text = text[start : end+1]
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("parsing LLM response: %w (response: %s)", err, truncate(text, 200))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
