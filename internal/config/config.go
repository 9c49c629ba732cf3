package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/peekknuf/opendataqa/internal/quality"
)

// LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	configFileName   = ".opendataqa.yaml"
)

// LLM configures the model used for page evaluation and standards matching.
type LLM struct {
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	BaseURL         string        `yaml:"base_url"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	MaxTokens       int64         `yaml:"max_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

// ResolvedModel returns the configured model or the provider default.
func (l LLM) ResolvedModel() string {
	if l.Model != "" {
		return l.Model
	}
	if l.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultAnthropicModel
}

// Fetch configures how dataset pages are downloaded.
type Fetch struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxElapsed time.Duration `yaml:"max_elapsed"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	UserAgent  string        `yaml:"user_agent"`
	MaxBytes   int64         `yaml:"max_bytes"`
}

// Store configures the report history database.
type Store struct {
	Path string `yaml:"path"`
}

// Scan configures batch reporting.
type Scan struct {
	Workers int `yaml:"workers"`
}

// Config is the complete application configuration.
type Config struct {
	Quality quality.Config `yaml:"quality"`
	LLM     LLM            `yaml:"llm"`
	Fetch   Fetch          `yaml:"fetch"`
	Store   Store          `yaml:"store"`
	Scan    Scan           `yaml:"scan"`

	// Path is the file the configuration was read from, empty when none was found.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Quality: quality.DefaultConfig(),
		LLM: LLM{
			Provider:  ProviderAnthropic,
			BaseURL:   DefaultOpenAIBaseURL,
			MaxTokens: 4096,
			Timeout:   2 * time.Minute,
		},
		Fetch: Fetch{
			Timeout:    30 * time.Second,
			MaxElapsed: time.Minute,
			CacheTTL:   15 * time.Minute,
			UserAgent:  defaultUserAgent,
			MaxBytes:   10 << 20,
		},
		Store: Store{
			Path: "opendataqa.db",
		},
		Scan: Scan{
			Workers: runtime.NumCPU(),
		},
	}
}

// DefaultPath returns $HOME/.opendataqa.yaml, or the bare file name when the
// home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(home, configFileName)
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. A .env file in
// the working directory is loaded into the environment first. When path is
// empty, OPENDATAQA_CONFIG and then DefaultPath are used; a missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env is optional.
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("OPENDATAQA_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	envOverride(&cfg.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.LLM.Provider, "OPENDATAQA_LLM_PROVIDER")
	envOverride(&cfg.LLM.Model, "OPENDATAQA_LLM_MODEL")
	envOverride(&cfg.LLM.BaseURL, "OPENDATAQA_LLM_BASE_URL")
	envOverride(&cfg.Store.Path, "OPENDATAQA_DB_PATH")
	if err := envOverrideInt(&cfg.Scan.Workers, "OPENDATAQA_WORKERS"); err != nil {
		return err
	}
	return envOverrideDuration(&cfg.Fetch.Timeout, "OPENDATAQA_FETCH_TIMEOUT")
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Quality.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("quality: %w", err))
	}
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderAnthropic, ProviderOpenAI, c.LLM.Provider))
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, fmt.Errorf("llm.max_tokens must be >= 1, got %d", c.LLM.MaxTokens))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout))
	}
	if c.Fetch.MaxBytes < 1 {
		errs = append(errs, fmt.Errorf("fetch.max_bytes must be >= 1, got %d", c.Fetch.MaxBytes))
	}
	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers must be >= 1, got %d", c.Scan.Workers))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	return errors.Join(errs...)
}

// APIKey returns the key of the configured provider, or an error naming the
// variable to set.
func (l LLM) APIKey() (string, error) {
	switch l.Provider {
	case ProviderOpenAI:
		if l.OpenAIAPIKey == "" {
			return "", errors.New("openai_api_key is required when llm.provider=openai (set OPENAI_API_KEY)")
		}
		return l.OpenAIAPIKey, nil
	default:
		if l.AnthropicAPIKey == "" {
			return "", errors.New("anthropic_api_key is required when llm.provider=anthropic (set ANTHROPIC_API_KEY)")
		}
		return l.AnthropicAPIKey, nil
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

// envOverrideDuration accepts Go durations ("45s") or plain seconds ("45").
func envOverrideDuration(field *time.Duration, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	if secs, err := strconv.Atoi(val); err == nil {
		*field = time.Duration(secs) * time.Second
		return nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
