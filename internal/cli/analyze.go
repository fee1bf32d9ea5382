package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/difftempo/tempo/internal/analyze"
	"github.com/difftempo/tempo/internal/config"
	"github.com/difftempo/tempo/internal/git"
	"github.com/difftempo/tempo/internal/llm"
	"github.com/difftempo/tempo/internal/prompt"
	"github.com/difftempo/tempo/internal/render"
)

// errMissingCredential halts the run before any external call is made.
var errMissingCredential = errors.New("anthropic API key not provided; set ANTHROPIC_API_KEY or use --anthropic-key")

// runAnalyze resolves configuration, builds the git client and providers, and
// runs one analysis for the positional diff target.
func runAnalyze(cmd *cobra.Command, opts *Options, target string) error {
	logger := LoggerFromContext(cmd.Context())

	envVars := tempoEnv{}
	if err := parseEnv(&envVars); err != nil {
		return err
	}

	configPath := opts.ConfigPath
	explicit := cmd.Flags().Changed("config")
	if !explicit && envPresent("TEMPO_CONFIG") {
		configPath = envVars.ConfigPath
		explicit = true
	}

	cfg, vars, err := config.Load(configPath, explicit)
	if err != nil {
		return err
	}

	// Flag > TEMPO_* env > config file > built-in default.
	if !cmd.Flags().Changed("model") && envVars.Model != "" {
		opts.Model = envVars.Model
	}
	if opts.Model != "" {
		cfg.Primary.Model = opts.Model
	}
	if !cmd.Flags().Changed("fallback-model") && envVars.FallbackModel != "" {
		opts.FallbackModel = envVars.FallbackModel
	}
	if opts.FallbackModel != "" {
		cfg.Fallback.Model = opts.FallbackModel
	}
	if !cmd.Flags().Changed("max-tokens") && envVars.MaxTokens > 0 {
		opts.MaxTokens = envVars.MaxTokens
	}
	if opts.MaxTokens > 0 {
		cfg.MaxTokens = opts.MaxTokens
	}
	if !cmd.Flags().Changed("timeout") && envVars.Timeout != "" {
		opts.Timeout = envVars.Timeout
	}
	if opts.Timeout != "" {
		cfg.Timeout = opts.Timeout
	}
	if !cmd.Flags().Changed("no-color") && envVars.NoColor {
		opts.NoColor = true
	}

	anthropicKey := strings.TrimSpace(opts.AnthropicKey)
	if anthropicKey == "" {
		anthropicKey = strings.TrimSpace(vars["ANTHROPIC_API_KEY"])
	}
	if anthropicKey == "" {
		return errMissingCredential
	}
	openaiKey := strings.TrimSpace(opts.OpenAIKey)
	if openaiKey == "" {
		openaiKey = strings.TrimSpace(vars["OPENAI_API_KEY"])
	}

	primary, err := llm.NewAnthropic(llm.Options{
		APIKey:    anthropicKey,
		Model:     cfg.Primary.Model,
		BaseURL:   cfg.Primary.BaseURL,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.ParsedTimeout(),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	var fallback llm.Provider
	if openaiKey != "" {
		openai, err := llm.NewOpenAI(llm.Options{
			APIKey:    openaiKey,
			Model:     cfg.Fallback.Model,
			BaseURL:   cfg.Fallback.BaseURL,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.ParsedTimeout(),
			Logger:    logger,
		})
		if err != nil {
			return err
		}
		fallback = openai
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ParsedTimeout())
	defer cancel()

	gitClient := git.NewClient("", cfg.Exclude, logger)
	if !gitClient.IsRepo(ctx) {
		logger.Warn("not inside a git work tree; diff retrieval will likely fail")
	}

	analyzer := &analyze.Analyzer{
		Git:          gitClient,
		Primary:      primary,
		Fallback:     fallback,
		CollectStats: opts.Stats,
		Logger:       logger,
	}
	if cfg.PromptTemplate != "" {
		templatePath := cfg.PromptTemplate
		analyzer.Prompt = func(diff string) (string, error) {
			return prompt.RenderFile(templatePath, diff)
		}
	}

	report, err := analyzer.Run(ctx, target)
	if err != nil {
		return fmt.Errorf("analyze %q: %w", target, err)
	}

	renderer := render.NewRenderer(os.Stdout, opts.NoColor)
	if report.Empty {
		renderer.NoDiff()
		return nil
	}
	renderer.Report(report)
	return nil
}
