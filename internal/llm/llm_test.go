package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/opendataqa/internal/config"
)

type fakeCompleter struct {
	response string
	err      error
	system   string
	user     string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, Usage, error) {
	f.system = system
	f.user = user
	return f.response, Usage{InputTokens: 10, OutputTokens: 5}, f.err
}

func TestEvaluatePage(t *testing.T) {
	fake := &fakeCompleter{response: "```json\n" + `{
  "scores": {
    "Does the data exist?": 100,
    "Is the data openly licensed?": 80,
    "Is the dataset up to date?": 45
  },
  "analysis": "  Official portal with CSV downloads.  "
}` + "\n```"}

	eval, err := EvaluatePage(context.Background(), fake, "Servidores públicos CSV")
	require.NoError(t, err)

	assert.Equal(t, 100.0, eval.Scores["Does the data exist?"])
	assert.Equal(t, 75.0, eval.AverageScore)
	assert.Equal(t, "Official portal with CSV downloads.", eval.Analysis)
	assert.Equal(t, int64(15), eval.Usage.TotalTokens())

	assert.Equal(t, evaluateSystemPrompt, fake.system)
	for _, criterion := range Criteria {
		assert.Contains(t, fake.user, criterion)
	}
	assert.True(t, strings.HasSuffix(fake.user, "Servidores públicos CSV"))
}

func TestEvaluatePage_ClampsScores(t *testing.T) {
	fake := &fakeCompleter{response: `Here you go: {"scores": {"a": 120, "b": -5}, "analysis": ""}`}

	eval, err := EvaluatePage(context.Background(), fake, "page")
	require.NoError(t, err)
	assert.Equal(t, 100.0, eval.Scores["a"])
	assert.Equal(t, 0.0, eval.Scores["b"])
	assert.Equal(t, 50.0, eval.AverageScore)
}

func TestEvaluatePage_Errors(t *testing.T) {
	_, err := EvaluatePage(context.Background(), &fakeCompleter{}, "   ")
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	_, err = EvaluatePage(context.Background(), &fakeCompleter{response: ""}, "page")
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	_, err = EvaluatePage(context.Background(), &fakeCompleter{response: `{"scores": {}}`}, "page")
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	_, err = EvaluatePage(context.Background(), &fakeCompleter{response: `{"scores": "high"}`}, "page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing LLM response")

	boom := errors.New("boom")
	_, err = EvaluatePage(context.Background(), &fakeCompleter{err: boom}, "page")
	assert.True(t, errors.Is(err, boom))
}

func TestMatchStandards(t *testing.T) {
	fake := &fakeCompleter{response: "```" + `[
  {"standard": "Open Contracting Data Standard", "match_grade": "Green", "dataset_link": "https://standard.open-contracting.org"},
  {"standard": "Popolo", "match_grade": " yellow ", "dataset_link": "https://www.popoloproject.com"},
  {"standard": "Schema.org Person", "match_grade": "amber", "dataset_link": "https://schema.org/Person"},
  {"standard": "Extra", "match_grade": "green", "dataset_link": ""}
]` + "```"}

	matches, usage, err := MatchStandards(context.Background(), fake, "page text", []string{"nombre", "puesto"})
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, StandardMatch{
		Standard:    "Open Contracting Data Standard",
		MatchGrade:  GradeGreen,
		DatasetLink: "https://standard.open-contracting.org",
	}, matches[0])
	assert.Equal(t, GradeYellow, matches[1].MatchGrade)
	assert.Equal(t, GradeRed, matches[2].MatchGrade)
	assert.Equal(t, int64(10), usage.InputTokens)
	assert.Contains(t, fake.user, "nombre, puesto")
}

func TestMatchStandards_Empty(t *testing.T) {
	_, _, err := MatchStandards(context.Background(), &fakeCompleter{response: "[]"}, "page", nil)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got openAIRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}],"usage":{"prompt_tokens":12,"completion_tokens":3}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "sonar", srv.URL+"/", 5*time.Second, nil).WithTemperature(0.5)
	text, usage, err := c.Complete(context.Background(), "system", "user")
	require.NoError(t, err)

	assert.Equal(t, "[]", text)
	assert.Equal(t, Usage{InputTokens: 12, OutputTokens: 3}, usage)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "sonar", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.5, *got.Temperature)
}

func TestForStandards(t *testing.T) {
	base := NewOpenAIClient("sk-test", "sonar", "http://localhost", time.Second, nil)

	standards, ok := ForStandards(base).(*OpenAIClient)
	require.True(t, ok)
	require.NotNil(t, standards.temperature)
	assert.Equal(t, StandardsTemperature, *standards.temperature)
	assert.Nil(t, base.temperature)

	fake := &fakeCompleter{response: "[]"}
	assert.Same(t, fake, ForStandards(fake))
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`, "invalid key"},
		{"non-json error", http.StatusBadGateway, `upstream down`, "status 502"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, _, err := NewOpenAIClient("k", "m", srv.URL, time.Second, nil).Complete(context.Background(), "s", "u")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnthropicClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-test",
  "content": [{"type": "text", "text": "{\"scores\":{}}"}],
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 21, "output_tokens": 4}
}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("sk-ant-test", "claude-test", 256, nil, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	text, usage, err := c.Complete(context.Background(), "system", "user")
	require.NoError(t, err)

	assert.Equal(t, `{"scores":{}}`, text)
	assert.Equal(t, Usage{InputTokens: 21, OutputTokens: 4}, usage)
}

func TestNew(t *testing.T) {
	cfg := config.Default().LLM

	_, err := New(cfg, nil)
	require.Error(t, err)

	cfg.AnthropicAPIKey = "sk-ant"
	c, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)

	cfg.Provider = config.ProviderOpenAI
	cfg.OpenAIAPIKey = "sk"
	c, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
}

func TestNormalizeGrade(t *testing.T) {
	assert.Equal(t, GradeGreen, normalizeGrade("GREEN"))
	assert.Equal(t, GradeYellow, normalizeGrade("yellow"))
	assert.Equal(t, GradeRed, normalizeGrade("red"))
	assert.Equal(t, GradeRed, normalizeGrade(""))
	assert.Equal(t, GradeRed, normalizeGrade("partial"))
}
