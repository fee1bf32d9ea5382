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

// OpenAI calls the OpenAI chat completions API. It is only consulted when the
// primary provider fails and an OpenAI credential is configured.
type OpenAI struct {
	opts       Options
	httpClient *retryablehttp.Client
}

// NewOpenAI constructs the fallback completion client.
func NewOpenAI(opts Options) (*OpenAI, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is empty")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("openai model is empty")
	}
	return &OpenAI{opts: opts, httpClient: newHTTPClient(opts)}, nil
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete implements Provider against the chat completions endpoint.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (Result, error) {
	reqBody, err := json.Marshal(openAIRequest{
		Model:     o.opts.Model,
		Messages:  []openAIMessage{{Role: "user", Content: prompt}},
		MaxTokens: o.opts.MaxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal openai request: %w", err)
	}

	url := strings.TrimSuffix(o.opts.BaseURL, "/") + "/v1/chat/completions"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("build openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.opts.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("openai request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read openai response: %w", err)
	}

	var decoded openAIResponse
	if resp.StatusCode != http.StatusOK {
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil {
			return Result{}, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, decoded.Error.Message)
		}
		return Result{}, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, fmt.Errorf("decode openai response: %w", err)
	}
	if decoded.Error != nil {
		return Result{}, fmt.Errorf("openai API error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return Result{}, fmt.Errorf("openai response has no choices")
	}

	return Result{
		Text:         decoded.Choices[0].Message.Content,
		Model:        decoded.Model,
		InputTokens:  decoded.Usage.PromptTokens,
		OutputTokens: decoded.Usage.CompletionTokens,
	}, nil
}
