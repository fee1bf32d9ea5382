// Package analyze contains the high-level orchestration for one diff analysis run.
package analyze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/difftempo/tempo/internal/git"
	"github.com/difftempo/tempo/internal/llm"
	"github.com/difftempo/tempo/internal/prompt"
)

// Differ is the subset of the git client the analyzer needs.
type Differ interface {
	Diff(ctx context.Context, target string) (string, error)
	NumStat(ctx context.Context, target string) ([]git.FileStat, error)
}

// Analyzer drives the diff -> prompt -> provider -> report sequence.
type Analyzer struct {
	// Git retrieves diffs for targets.
	Git Differ
	// Primary is consulted first and is required.
	Primary llm.Provider
	// Fallback is consulted only when Primary fails; may be nil.
	Fallback llm.Provider
	// Prompt builds the prompt from the diff; nil means the built-in
	// authorship prompt.
	Prompt func(diff string) (string, error)
	// CollectStats enables the per-file numstat summary in the report.
	CollectStats bool
	// Logger receives progress and failure diagnostics; may be nil.
	Logger *slog.Logger
}

// Report is the outcome of one analysis run.
type Report struct {
	// Target is the diff target that was analyzed.
	Target string
	// Empty is set when the diff was empty or could not be retrieved; no
	// provider was consulted.
	Empty bool
	// Analysis is the model's free text, or an inline error description when
	// every configured provider failed.
	Analysis string
	// Provider names the provider that produced Analysis; empty on total failure.
	Provider string
	// Model is the model identifier reported by the provider.
	Model string
	// FellBack is set when the fallback provider produced the analysis.
	FellBack bool
	// Stats holds per-file line counts when CollectStats was set.
	Stats []git.FileStat
	// InputTokens and OutputTokens are the provider-reported usage.
	InputTokens  int
	OutputTokens int
}

// Run analyzes the diff for target. Diff retrieval failure is reported as an
// empty diff; provider failure degrades to the fallback and finally to an
// inline error string, so the returned error is reserved for prompt rendering
// problems.
func (a *Analyzer) Run(ctx context.Context, target string) (Report, error) {
	logger := a.logger()
	report := Report{Target: target}

	diff, err := a.Git.Diff(ctx, target)
	if err != nil {
		logger.Error("error getting git diff", "target", target, "error", err)
		report.Empty = true
		return report, nil
	}
	if diff == "" {
		report.Empty = true
		return report, nil
	}

	if a.CollectStats {
		stats, err := a.Git.NumStat(ctx, target)
		if err != nil {
			logger.Warn("diff stats unavailable", "target", target, "error", err)
		} else {
			report.Stats = stats
		}
	}

	text, err := a.buildPrompt(diff)
	if err != nil {
		return report, err
	}

	logger.Debug("submitting diff for analysis",
		"provider", a.Primary.Name(), "diff_bytes", len(diff))
	result, err := a.Primary.Complete(ctx, text)
	if err == nil {
		report.Analysis = result.Text
		report.Provider = a.Primary.Name()
		report.Model = result.Model
		report.InputTokens = result.InputTokens
		report.OutputTokens = result.OutputTokens
		return report, nil
	}

	logger.Error("primary analysis failed", "provider", a.Primary.Name(), "error", err)
	if a.Fallback == nil {
		report.Analysis = fmt.Sprintf("Error analyzing diff: %v", err)
		return report, nil
	}

	logger.Info("falling back", "provider", a.Fallback.Name())
	result, fbErr := a.Fallback.Complete(ctx, text)
	if fbErr != nil {
		logger.Error("fallback analysis failed", "provider", a.Fallback.Name(), "error", fbErr)
		report.Analysis = fmt.Sprintf("Error analyzing diff with %s: %v", a.Fallback.Name(), fbErr)
		return report, nil
	}

	report.Analysis = result.Text
	report.Provider = a.Fallback.Name()
	report.Model = result.Model
	report.FellBack = true
	report.InputTokens = result.InputTokens
	report.OutputTokens = result.OutputTokens
	return report, nil
}

func (a *Analyzer) buildPrompt(diff string) (string, error) {
	if a.Prompt != nil {
		return a.Prompt(diff)
	}
	return prompt.Authorship(diff), nil
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
