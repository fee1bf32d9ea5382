// Package cli defines the command-line interface for tempo.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/difftempo/tempo/internal/logging"
)

// Options stores CLI options shared between flag parsing and the analysis run.
type Options struct {
	ConfigPath    string
	AnthropicKey  string
	OpenAIKey     string
	Model         string
	FallbackModel string
	MaxTokens     int
	Timeout       string
	Stats         bool
	NoColor       bool
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootCmd := newRootCommand(&Options{}, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command. The root command itself
// performs the analysis: tempo takes exactly one positional diff target.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tempo <target>",
		Short:         "tempo estimates human authorship time for a git diff",
		Long:          "tempo retrieves a git diff for the given target (e.g. HEAD~1), submits it to an LLM completion API, and prints the model's section-by-section estimate of human authorship time.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args[0])
		},
	}

	cmd.PersistentFlags().String("log-level", defaultLogLevel(), "Log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to .tempo.yaml configuration file")
	cmd.Flags().StringVar(&opts.AnthropicKey, "anthropic-key", "", "Anthropic API key (default: ANTHROPIC_API_KEY)")
	cmd.Flags().StringVar(&opts.OpenAIKey, "openai-key", "", "OpenAI API key for optional fallback (default: OPENAI_API_KEY)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Primary (Anthropic) model override")
	cmd.Flags().StringVar(&opts.FallbackModel, "fallback-model", "", "Fallback (OpenAI) model override")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", 0, "Output token budget for the analysis")
	cmd.Flags().StringVar(&opts.Timeout, "timeout", "", "Analysis request timeout (e.g. 90s)")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Print a per-file line count summary table")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
