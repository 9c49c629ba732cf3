package quality

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jonboulle/clockwork"
)

// Validation is the outcome of one check, per column or per dataset.
type Validation struct {
	Success           bool     `json:"success"`
	UnexpectedCount   int      `json:"unexpected_count"`
	UnexpectedPercent *float64 `json:"unexpected_percent,omitempty"`
}

// Analyzer computes quality checks over a dataset using one Config. It holds
// no per-dataset state and is safe for concurrent use.
type Analyzer struct {
	cfg    Config
	grader Grader
	email  *regexp.Regexp
	logger *slog.Logger
	clock  clockwork.Clock

	// columnHook runs before each column is profiled; tests use it to
	// inject failures.
	columnHook func(check, column string)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used to report isolated column failures.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithClock sets the clock used for report timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(a *Analyzer) {
		a.clock = clock
	}
}

// NewAnalyzer validates cfg and creates an Analyzer.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quality config: %w", err)
	}
	email, err := regexp.Compile(cfg.EmailRegexp)
	if err != nil {
		return nil, fmt.Errorf("failed to compile email pattern: %w", err)
	}

	a := &Analyzer{
		cfg:    cfg,
		grader: NewGrader(cfg),
		email:  email,
		logger: slog.New(slog.DiscardHandler),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Config returns the configuration the analyzer scores with.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Grade interprets a score with the analyzer's grade bands.
func (a *Analyzer) Grade(score float64) Grade {
	return a.grader.Grade(score)
}

// isolate runs fn and converts a panic into an error, so that one column
// that cannot be profiled does not abort the whole report.
func (a *Analyzer) isolate(check, column string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
			a.logger.Warn("column analysis failed", "check", check, "column", column, "error", err)
		}
	}()
	if a.columnHook != nil {
		a.columnHook(check, column)
	}
	fn()
	return nil
}

func percent(v float64) *float64 {
	return &v
}
