package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Writer is an io.Writer implementation that forwards subprocess output to slog.
// It is attached to the stderr of external commands (git) so their diagnostics
// land in the structured log instead of leaking to the terminal raw.
type Writer struct {
	logger *slog.Logger
	msg    string
	level  slog.Level
}

// NewWriter constructs a Writer that logs each line with the given message.
func NewWriter(logger *slog.Logger, msg string, level Level) *Writer {
	if msg == "" {
		msg = "command output"
	}
	return &Writer{logger: logger, msg: msg, level: slog.Level(level)}
}

// Write logs each non-empty line of p at the configured level.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger != nil {
		for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
			if line != "" {
				w.logger.Log(context.Background(), w.level, w.msg, "line", line)
			}
		}
	}
	return len(p), nil
}
