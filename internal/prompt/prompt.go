// Package prompt builds the analysis prompt submitted to completion providers.
package prompt

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// authorshipTemplate asks for a section-by-section authorship-time estimate,
// ignoring machine-generated changes. Both providers receive identical text.
const authorshipTemplate = `ignoring the changes that were computer-generated, can you estimate how long this took a human to write this code, assuming they appropriately used AI to help them? please go section by section.

Here's the diff to analyze:
%s`

// Authorship wraps the diff in the built-in authorship-time prompt.
func Authorship(diff string) string {
	return fmt.Sprintf(authorshipTemplate, diff)
}

// Data is the context available to custom prompt template files.
type Data struct {
	// Diff is the raw diff text.
	Diff string
}

// RenderFile renders a custom prompt template file with the diff, for projects
// that override the built-in prompt via the promptTemplate config key.
func RenderFile(path, diff string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template %q: %w", path, err)
	}
	tmpl, err := template.New(path).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse prompt template %q: %w", path, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, Data{Diff: diff}); err != nil {
		return "", fmt.Errorf("render prompt template %q: %w", path, err)
	}
	return buf.String(), nil
}
