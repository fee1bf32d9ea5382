package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const anthropicVersion = "2023-06-01"

// Anthropic calls the Anthropic messages API.
type Anthropic struct {
	opts       Options
	httpClient *retryablehttp.Client
}

// NewAnthropic constructs the primary completion client.
func NewAnthropic(opts Options) (*Anthropic, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("anthropic api key is empty")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("anthropic model is empty")
	}
	return &Anthropic{opts: opts, httpClient: newHTTPClient(opts)}, nil
}

// Name implements Provider.
func (a *Anthropic) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete implements Provider against the messages endpoint.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (Result, error) {
	reqBody, err := json.Marshal(anthropicRequest{
		Model:     a.opts.Model,
		MaxTokens: a.opts.MaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal anthropic request: %w", err)
	}

	url := strings.TrimSuffix(a.opts.BaseURL, "/") + "/v1/messages"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("build anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.opts.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read anthropic response: %w", err)
	}

	var decoded anthropicResponse
	if resp.StatusCode != http.StatusOK {
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil {
			return Result{}, fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, decoded.Error.Message)
		}
		return Result{}, fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, fmt.Errorf("decode anthropic response: %w", err)
	}
	if decoded.Error != nil {
		return Result{}, fmt.Errorf("anthropic API error: %s", decoded.Error.Message)
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return Result{}, fmt.Errorf("anthropic response has no text content")
	}

	return Result{
		Text:         text.String(),
		Model:        decoded.Model,
		InputTokens:  decoded.Usage.InputTokens,
		OutputTokens: decoded.Usage.OutputTokens,
	}, nil
}
