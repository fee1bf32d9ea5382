// Package git provides low-level integration with the git binary for diff retrieval.
package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/difftempo/tempo/internal/logging"
)

// packageJSONExclude is passed with every diff so lockfile-style churn in
// package.json / package-lock.json never reaches the model.
const packageJSONExclude = ":!package*.json"

// Client wraps git execution for a single working directory.
type Client struct {
	// Dir is the working directory for git commands; empty means the process cwd.
	Dir string
	// Exclude lists extra pathspec globs excluded from every diff.
	Exclude []string

	logger *slog.Logger
}

// NewClient constructs a git client that logs subprocess diagnostics to logger.
func NewClient(dir string, exclude []string, logger *slog.Logger) *Client {
	return &Client{Dir: dir, Exclude: exclude, logger: logger}
}

// FileStat is one file's line counts from git diff --numstat.
type FileStat struct {
	Path    string
	Added   int
	Deleted int
	// Binary is set when git reports "-" counts for a binary file.
	Binary bool
}

// Diff returns the diff between the working tree and target, excluding
// package*.json and any configured extra globs.
func (c *Client) Diff(ctx context.Context, target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("diff target is empty")
	}
	args := append([]string{"diff", target, "--", "."}, c.pathspec()...)
	out, err := c.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// NumStat returns per-file added/deleted line counts for the same diff scope as Diff.
func (c *Client) NumStat(ctx context.Context, target string) ([]FileStat, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("diff target is empty")
	}
	args := append([]string{"diff", "--numstat", target, "--", "."}, c.pathspec()...)
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseNumStat(out), nil
}

// IsRepo reports whether the client's directory is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

func (c *Client) pathspec() []string {
	specs := []string{packageJSONExclude}
	for _, g := range c.Exclude {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if !strings.HasPrefix(g, ":!") {
			g = ":!" + g
		}
		specs = append(specs, g)
	}
	return specs
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr io.Writer = os.Stderr
	if c.logger != nil {
		stderr = logging.NewWriter(c.logger, "git stderr", logging.LevelWarn)
	}
	cmd.Stderr = stderr

	if c.logger != nil {
		c.logger.Debug("running git", "args", args, "dir", c.Dir)
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// parseNumStat parses tab-separated numstat lines; binary files report "-" counts.
func parseNumStat(out []byte) []FileStat {
	var stats []FileStat
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		stat := FileStat{Path: fields[2]}
		if fields[0] == "-" || fields[1] == "-" {
			stat.Binary = true
		} else {
			stat.Added, _ = strconv.Atoi(fields[0])
			stat.Deleted, _ = strconv.Atoi(fields[1])
		}
		stats = append(stats, stat)
	}
	return stats
}
