// Package llm contains the completion providers consulted for diff analysis.
package llm

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Provider is the interface for LLM completion backends.
type Provider interface {
	// Name returns the provider name (e.g. "anthropic", "openai").
	Name() string

	// Complete submits the prompt and returns the model's free-text response.
	Complete(ctx context.Context, prompt string) (Result, error)
}

// Result captures the output of one completion call.
type Result struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Options configure a provider client.
type Options struct {
	// APIKey authenticates requests; required.
	APIKey string
	// Model is the model identifier sent with each request.
	Model string
	// BaseURL is the API endpoint without a trailing slash.
	BaseURL string
	// MaxTokens bounds the model's output budget.
	MaxTokens int
	// Timeout bounds a single HTTP request including retries' individual attempts.
	Timeout time.Duration
	// Logger receives retry diagnostics; may be nil.
	Logger *slog.Logger
}

// newHTTPClient builds the shared retrying HTTP client for provider calls.
func newHTTPClient(opts Options) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 4 * time.Second
	client.Logger = nil
	client.HTTPClient = &http.Client{Timeout: opts.Timeout}
	if opts.Logger != nil {
		logger := opts.Logger
		client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			if attempt > 0 {
				logger.Warn("retrying completion request", "url", req.URL.String(), "attempt", attempt)
			}
		}
	}
	return client
}
