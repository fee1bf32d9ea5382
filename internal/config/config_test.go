package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	cfg, _, err := Load(filepath.Join(t.TempDir(), DefaultPath), false)
	require.NoError(t, err)

	assert.Equal(t, DefaultPrimaryModel, cfg.Primary.Model)
	assert.Equal(t, DefaultAnthropicBaseURL, cfg.Primary.BaseURL)
	assert.Equal(t, DefaultFallbackModel, cfg.Fallback.Model)
	assert.Equal(t, DefaultOpenAIBaseURL, cfg.Fallback.BaseURL)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultTimeout, cfg.ParsedTimeout())
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tempo.yaml")
	content := `
primary:
  model: claude-3-opus-20240229
fallback:
  baseURL: https://proxy.example.com
maxTokens: 2048
timeout: 90s
exclude:
  - "*.lock"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, _, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "claude-3-opus-20240229", cfg.Primary.Model)
	assert.Equal(t, DefaultAnthropicBaseURL, cfg.Primary.BaseURL)
	assert.Equal(t, DefaultFallbackModel, cfg.Fallback.Model)
	assert.Equal(t, "https://proxy.example.com", cfg.Fallback.BaseURL)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, 90*time.Second, cfg.ParsedTimeout())
	assert.Equal(t, []string{"*.lock"}, cfg.Exclude)
}

func TestLoadInvalidTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tempo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: never\n"), 0o644))

	_, _, err := Load(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")
}

func TestLoadEnvFilesMergeUnderOSEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ANTHROPIC_API_KEY=from-file\nEXTRA=file-only\n"), 0o644))
	path := filepath.Join(dir, ".tempo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("envFiles:\n  - .env\n"), 0o644))

	t.Setenv("ANTHROPIC_API_KEY", "from-os")

	_, vars, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "from-os", vars["ANTHROPIC_API_KEY"])
	assert.Equal(t, "file-only", vars["EXTRA"])
}

func TestLoadMissingEnvFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tempo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("envFiles:\n  - missing.env\n"), 0o644))

	_, _, err := Load(path, true)
	require.Error(t, err)
}
