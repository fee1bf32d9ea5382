// Package config contains the loader and strongly typed model for the .tempo.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/difftempo/tempo/internal/env"
)

const (
	// DefaultPath is the config file looked up when --config is not given.
	DefaultPath = ".tempo.yaml"

	// DefaultPrimaryModel is the Anthropic model used when none is configured.
	DefaultPrimaryModel = "claude-3-sonnet-20240229"
	// DefaultFallbackModel is the OpenAI model used when none is configured.
	DefaultFallbackModel = "gpt-4"
	// DefaultAnthropicBaseURL is the Anthropic API endpoint.
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	// DefaultOpenAIBaseURL is the OpenAI API endpoint.
	DefaultOpenAIBaseURL = "https://api.openai.com"
	// DefaultMaxTokens bounds the model's output budget.
	DefaultMaxTokens = 1024
	// DefaultTimeout bounds a single analysis request.
	DefaultTimeout = 2 * time.Minute
)

// Config represents the optional .tempo.yaml file controlling providers and diff scope.
type Config struct {
	// EnvFiles lists .env files merged into credential lookup before the OS environment.
	EnvFiles []string `yaml:"envFiles,omitempty"`
	// Primary configures the Anthropic endpoint consulted first.
	Primary Endpoint `yaml:"primary,omitempty"`
	// Fallback configures the OpenAI endpoint consulted when the primary fails.
	Fallback Endpoint `yaml:"fallback,omitempty"`
	// MaxTokens caps the model's output tokens per analysis.
	MaxTokens int `yaml:"maxTokens,omitempty"`
	// Timeout bounds a single analysis HTTP request (e.g. "90s").
	Timeout string `yaml:"timeout,omitempty"`
	// Exclude lists extra pathspec globs excluded from the diff, in addition
	// to the built-in package*.json exclusion which is always applied.
	Exclude []string `yaml:"exclude,omitempty"`
	// PromptTemplate is an optional path to a prompt template overriding the
	// built-in authorship prompt. The template receives {{.Diff}}.
	PromptTemplate string `yaml:"promptTemplate,omitempty"`
}

// Endpoint describes one LLM completion endpoint.
type Endpoint struct {
	// Model is the model identifier sent with each request.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the provider's API endpoint, mainly for tests and proxies.
	BaseURL string `yaml:"baseURL,omitempty"`
}

// Load reads the config file at path and returns it together with the merged
// variable set (envFiles first, OS environment overriding). A missing file at
// the default path is not an error; the zero config with defaults applied is
// returned instead. An explicit path that does not exist is an error.
func Load(path string, explicit bool) (*Config, env.Vars, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Optional file, fall through to defaults.
	default:
		return nil, nil, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg.applyDefaults()
	if cfg.PromptTemplate != "" && !filepath.IsAbs(cfg.PromptTemplate) {
		cfg.PromptTemplate = filepath.Join(filepath.Dir(path), cfg.PromptTemplate)
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("config %q: %w", path, err)
	}

	fileVars, err := env.LoadEnvFiles(filepath.Dir(path), cfg.EnvFiles)
	if err != nil {
		return nil, nil, err
	}
	vars := env.Merge(fileVars, env.FromOS())

	return cfg, vars, nil
}

// ParsedTimeout returns the request timeout as a duration.
func (c *Config) ParsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Primary.Model) == "" {
		c.Primary.Model = DefaultPrimaryModel
	}
	if strings.TrimSpace(c.Primary.BaseURL) == "" {
		c.Primary.BaseURL = DefaultAnthropicBaseURL
	}
	if strings.TrimSpace(c.Fallback.Model) == "" {
		c.Fallback.Model = DefaultFallbackModel
	}
	if strings.TrimSpace(c.Fallback.BaseURL) == "" {
		c.Fallback.BaseURL = DefaultOpenAIBaseURL
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if strings.TrimSpace(c.Timeout) == "" {
		c.Timeout = DefaultTimeout.String()
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	for _, g := range c.Exclude {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("exclude entries must not be empty")
		}
	}
	if c.PromptTemplate != "" {
		if _, err := os.Stat(c.PromptTemplate); err != nil {
			return fmt.Errorf("prompt template: %w", err)
		}
	}
	return nil
}
