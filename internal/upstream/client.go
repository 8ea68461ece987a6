// Package upstream talks to an OpenAI-compatible chat completion API.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL     = "https://api.x.ai/v1"
	DefaultModel       = "grok-2-1212"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 500
	defaultTimeout     = 60 * time.Second
)

// ErrEmptyResponse is returned when a 2xx reply carries no message content.
var ErrEmptyResponse = errors.New("upstream response has no message content")

// StatusError reports a non-2xx reply. Body holds whatever the provider
// sent back and is meant for logs only.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	// Timeout bounds a whole call, including reading the body.
	Timeout time.Duration
}

// Client issues single, non-streaming chat completions. It never retries.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewClient creates a client, filling zero options with defaults.
// Temperature is used as given, so 0 requests greedy sampling.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return NewClient(Options{APIKey: apiKey, BaseURL: baseURL, Temperature: DefaultTemperature})
}

// Model reports the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Complete sends exactly two turns, system then user, and returns the text
// of the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	temperature := c.temperature
	if temperature == 0 {
		// go-openai omits a zero temperature, which would leave the
		// provider default in effect.
		temperature = math.SmallestNonzeroFloat32
	}
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if se := statusError(err); se != nil {
			return "", se
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w (id=%q, choices=%d)", ErrEmptyResponse, resp.ID, len(resp.Choices))
	}
	return resp.Choices[0].Message.Content, nil
}

// Models lists the model ids the provider exposes. Used as a reachability
// and credential probe.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		if se := statusError(err); se != nil {
			return nil, se
		}
		return nil, fmt.Errorf("listing models: %w", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func statusError(err error) *StatusError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return nil
}
