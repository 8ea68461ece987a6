package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yash-755/robo/internal/config"
	"github.com/yash-755/robo/internal/storage"
)

// apiClient talks to a running robo server.
type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// newAPIClient targets serverURL, or the local server on the configured
// port when serverURL is empty.
var newAPIClient = func(cfg config.Config, serverURL string) *apiClient {
	if serverURL == "" {
		serverURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	}
	return &apiClient{
		baseURL: strings.TrimRight(serverURL, "/"),
		token:   cfg.Server.AdminToken,
		// Longer than the server's upstream timeout so its error surfaces.
		httpClient: &http.Client{Timeout: cfg.Upstream.Timeout + 10*time.Second},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable, is robo running? (%w)", err)
	}
	return resp, nil
}

func (c *apiClient) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *apiClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *apiClient) chat(ctx context.Context, message string) (string, error) {
	resp, err := c.post(ctx, "/api/chat", map[string]string{"message": message})
	if err != nil {
		return "", err
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *apiClient) health(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, "/api/health")
	if err != nil {
		return "", err
	}
	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *apiClient) listFeedback(ctx context.Context, limit int) ([]storage.Feedback, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/api/feedback?limit=%d", limit))
	if err != nil {
		return nil, err
	}
	var out []storage.Feedback
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeJSON decodes a success body into v. Error responses become errors
// carrying the server's public message.
func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
