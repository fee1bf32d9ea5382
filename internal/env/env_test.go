package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	got := Merge(
		Vars{"A": "1", "B": "2"},
		Vars{"B": "override", "C": "3"},
	)
	assert.Equal(t, Vars{"A": "1", "B": "override", "C": "3"}, got)
}

func TestFromOS(t *testing.T) {
	t.Setenv("TEMPO_ENV_TEST", "value")
	vars := FromOS()
	assert.Equal(t, "value", vars["TEMPO_ENV_TEST"])
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.env"), []byte("KEY=first\nONLY_A=a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.env"), []byte("KEY=second\n"), 0o644))

	vars, err := LoadEnvFiles(dir, []string{"a.env", "", "b.env"})
	require.NoError(t, err)

	assert.Equal(t, "second", vars["KEY"])
	assert.Equal(t, "a", vars["ONLY_A"])
}

func TestLoadEnvFilesMissingFile(t *testing.T) {
	_, err := LoadEnvFiles(t.TempDir(), []string{"missing.env"})
	require.Error(t, err)
}
