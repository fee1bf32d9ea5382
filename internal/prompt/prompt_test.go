package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorship(t *testing.T) {
	diff := "diff --git a/main.go b/main.go\n+func main() {}\n"
	got := Authorship(diff)

	assert.Contains(t, got, "ignoring the changes that were computer-generated")
	assert.Contains(t, got, "please go section by section")
	assert.Contains(t, got, "Here's the diff to analyze:\n"+diff)
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authorship.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("How long for this?\n{{.Diff}}"), 0o644))

	got, err := RenderFile(path, "+one line")
	require.NoError(t, err)
	assert.Equal(t, "How long for this?\n+one line", got)
}

func TestRenderFileErrors(t *testing.T) {
	_, err := RenderFile(filepath.Join(t.TempDir(), "missing.tmpl"), "x")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.Diff"), 0o644))
	_, err = RenderFile(path, "x")
	require.Error(t, err)
}
