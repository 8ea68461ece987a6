package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestComplete_Success(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Stream      bool    `json:"stream"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth, path, method string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		method = r.Method
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"Yash knows Go."}}]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	text, err := c.Complete(context.Background(), "SYSTEM", "What does Yash know?")
	require.NoError(t, err)

	assert.Equal(t, "Yash knows Go.", text)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "grok-2-1212", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-6)
	assert.Equal(t, 500, got.MaxTokens)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "SYSTEM", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "What does Yash know?", got.Messages[1].Content)
}

func TestComplete_CustomOptions(t *testing.T) {
	var model string
	var maxTokens int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		model, maxTokens = body.Model, body.MaxTokens
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL + "/", Model: "grok-beta", MaxTokens: 64})
	_, err := c.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "grok-beta", model)
	assert.Equal(t, "grok-beta", c.Model())
	assert.Equal(t, 64, maxTokens)
}

func TestComplete_ZeroTemperatureIsSent(t *testing.T) {
	var temperature *float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Temperature *float64 `json:"temperature"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		temperature = body.Temperature
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL, Temperature: 0})
	_, err := c.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	require.NotNil(t, temperature, "temperature must be present in the request")
	assert.InDelta(t, 0, *temperature, 1e-6)
}

func TestComplete_Non2xx(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"provider error json", http.StatusUnauthorized, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`, "invalid api key"},
		{"plain text", http.StatusBadGateway, `upstream down`, ""},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "slow down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := stub(t, tt.status, tt.body)

			_, err := NewClientWithBaseURL("k", srv.URL).Complete(context.Background(), "s", "u")
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se), "want StatusError, got %T: %v", err, err)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Contains(t, se.Body, tt.want)
			assert.Equal(t, int32(1), calls.Load(), "no retries")
		})
	}
}

func TestComplete_EmptyContent(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"id":"x","choices":[]}`,
		"empty content": `{"id":"x","choices":[{"message":{"role":"assistant","content":""}}]}`,
		"no message":    `{"id":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := stub(t, http.StatusOK, body)
			_, err := NewClientWithBaseURL("k", srv.URL).Complete(context.Background(), "s", "u")
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestComplete_UndecodableBody(t *testing.T) {
	srv, _ := stub(t, http.StatusOK, `not json`)
	_, err := NewClientWithBaseURL("k", srv.URL).Complete(context.Background(), "s", "u")
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
	assert.NotErrorIs(t, err, ErrEmptyResponse)
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestComplete_ContextCanceled(t *testing.T) {
	srv, calls := stub(t, http.StatusOK, `{"choices":[{"message":{"content":"late"}}]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClientWithBaseURL("k", srv.URL).Complete(ctx, "s", "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"object":"list","data":[{"id":"grok-2-1212","object":"model"},{"id":"grok-beta","object":"model"}]}`)
	}))
	defer srv.Close()

	ids, err := NewClientWithBaseURL("k", srv.URL).Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"grok-2-1212", "grok-beta"}, ids)
}

func TestModels_Unauthorized(t *testing.T) {
	srv, _ := stub(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	_, err := NewClientWithBaseURL("k", srv.URL).Models(context.Background())

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}
