package cli

import (
	"os"

	envparse "github.com/caarlos0/env/v11"
)

// tempoEnv defines CLI defaults sourced from TEMPO_* env vars.
type tempoEnv struct {
	// ConfigPath is the .tempo.yaml path from TEMPO_CONFIG.
	ConfigPath string `env:"TEMPO_CONFIG"`
	// Model is the primary model override from TEMPO_MODEL.
	Model string `env:"TEMPO_MODEL"`
	// FallbackModel is the fallback model override from TEMPO_FALLBACK_MODEL.
	FallbackModel string `env:"TEMPO_FALLBACK_MODEL"`
	// MaxTokens is the output token budget from TEMPO_MAX_TOKENS.
	MaxTokens int `env:"TEMPO_MAX_TOKENS"`
	// Timeout is the request timeout from TEMPO_TIMEOUT.
	Timeout string `env:"TEMPO_TIMEOUT"`
	// LogLevel is the logging level from TEMPO_LOG_LEVEL.
	LogLevel string `env:"TEMPO_LOG_LEVEL"`
	// NoColor disables colored output via TEMPO_NO_COLOR.
	NoColor bool `env:"TEMPO_NO_COLOR"`
}

// parseEnv fills target from the process environment via caarlos0/env.
func parseEnv(target any) error {
	return envparse.Parse(target)
}

// envPresent reports whether the named environment variable is set (even if empty).
func envPresent(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// defaultLogLevel resolves the log-level flag default from TEMPO_LOG_LEVEL.
func defaultLogLevel() string {
	if v, ok := os.LookupEnv("TEMPO_LOG_LEVEL"); ok && v != "" {
		return v
	}
	return "info"
}
