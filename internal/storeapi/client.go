package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIError is a failure declared by the store API: either a non-2xx status
// or an HTTP 200 whose body carries a falsy status flag.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

var ErrStoreUnavailable = errors.New("store API unavailable")

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a typed client for the store REST API. All state is
// server-owned; the client holds no per-user data and authenticates each
// call with the bearer token passed by the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[*rawResponse]
}

type rawResponse struct {
	status int
	body   []byte
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("store API base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:    "store-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		breaker: breaker,
	}, nil
}

// envelope is the conventional store API response body. Status false on an
// HTTP 200 is a business failure.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// The breaker only counts transport failures and 5xx responses; 4xx and
	// business failures pass through as successful round trips.
	raw, err := c.breaker.Execute(func() (*rawResponse, error) {
		resp, errDo := c.httpClient.Do(req)
		if errDo != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, errDo)
		}
		defer resp.Body.Close()

		data, errRead := io.ReadAll(resp.Body)
		if errRead != nil {
			return nil, fmt.Errorf("read response body: %w", errRead)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data, resp.StatusCode)}
		}
		return &rawResponse{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return err
	}

	if raw.status < http.StatusOK || raw.status >= http.StatusMultipleChoices {
		return &APIError{StatusCode: raw.status, Message: extractMessage(raw.body, raw.status)}
	}

	var env envelope
	if err := json.Unmarshal(raw.body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "request rejected by store"
		}
		return &APIError{StatusCode: raw.status, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// extractMessage pulls the conventional nested error message out of a
// failure body, falling back to the raw string.
func extractMessage(body []byte, status int) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error.Message != "" {
			return eb.Error.Message
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	if len(body) > 0 {
		return strings.TrimSpace(string(body))
	}
	return http.StatusText(status)
}
