package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/peekknuf/opendataqa/internal/config"
	"github.com/peekknuf/opendataqa/internal/quality"
)

var (
	cfgFile string
	debug   bool

	appConfig config.Config
	logger    = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "opendataqa",
	Short: "Open data quality reports",
	Long: `Generate data quality reports for CSV and Excel datasets
and evaluate open data portal pages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(cmd.ErrOrStderr(), debug)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		if cfg.Path != "" {
			logger.Debug("loaded config", "path", cfg.Path)
		}
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.opendataqa.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if s, ok := a.Value.Any().(string); ok && s == "" {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func newAnalyzer() (*quality.Analyzer, error) {
	return quality.NewAnalyzer(appConfig.Quality, quality.WithLogger(logger))
}
