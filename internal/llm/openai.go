package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIClient completes prompts with an OpenAI-compatible chat completions
// endpoint. Any provider speaking the same protocol can be reached by
// changing the base URL.
type OpenAIClient struct {
	apiKey      string
	model       string
	baseURL     string
	temperature *float64
	client      *http.Client
	logger      *slog.Logger
}

// NewOpenAIClient creates a new OpenAIClient.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration, logger *slog.Logger) *OpenAIClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// WithTemperature sets the sampling temperature sent with every request.
func (c *OpenAIClient) WithTemperature(t float64) *OpenAIClient {
	c.temperature = &t
	return c
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, Usage, error) {
	bodyBytes, err := json.Marshal(openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", Usage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("reading response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", Usage{}, fmt.Errorf("OpenAI API error: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
		}
		return "", Usage{}, fmt.Errorf("parsing OpenAI response: %w", err)
	}
	if openAIResp.Error != nil {
		return "", Usage{}, fmt.Errorf("OpenAI API error: status %d: %s", resp.StatusCode, openAIResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", Usage{}, fmt.Errorf("OpenAI API error: status %d", resp.StatusCode)
	}
	if len(openAIResp.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("no choices in OpenAI response: %w", ErrEmptyResponse)
	}

	usage := Usage{}
	if openAIResp.Usage != nil {
		usage.InputTokens = openAIResp.Usage.PromptTokens
		usage.OutputTokens = openAIResp.Usage.CompletionTokens
	}

	content := openAIResp.Choices[0].Message.Content
	c.logger.Debug("llm response", "provider", "openai", "model", c.model, "size", len(content), "tokens_in", usage.InputTokens, "tokens_out", usage.OutputTokens)
	return content, usage, nil
}
