package api

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
)

const (
	DefaultBaseURL = "http://localhost:5001/api"
	defaultTimeout = 30 * time.Second
)

// Storage keys holding the signed-in credentials.
const (
	TokenKey    = "token"
	UserDataKey = "userData"
)

// TokenStore is where the client reads the bearer token from. A 401
// response removes the stored credentials.
type TokenStore interface {
	Get(key string) (string, bool, error)
	Remove(key string) error
}

// Response is the envelope every call is normalized to.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// Error is returned for non-2xx responses and transport failures. Message
// is the server's error text when it sent one.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client talks to the finclusion REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, ok, err := c.tokens.Get(TokenKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		if ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func doJSON[T any](ctx context.Context, c *Client, method, path string, payload any) (*Response[T], error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	return do[T](c, req)
}

// do executes req and normalizes the reply. A body that already carries
// "success" passes through; any other successful body becomes its data.
func do[T any](c *Client, req *http.Request) (*Response[T], error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.errorFrom(resp, body)
	}

	var out Response[T]
	if len(bytes.TrimSpace(body)) == 0 {
		out.Success = true
		return &out, nil
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) == nil {
		if _, ok := fields["success"]; ok {
			if err := json.Unmarshal(body, &out); err != nil {
				return nil, fmt.Errorf("failed to unmarshal response: %w", err)
			}
			return &out, nil
		}
	}

	if err := json.Unmarshal(body, &out.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	out.Success = true
	return &out, nil
}

func (c *Client) errorFrom(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		for _, key := range []string{TokenKey, UserDataKey} {
			if err := c.tokens.Remove(key); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}
		}
	}

	var envelope struct {
		Error string `json:"error"`
	}
	message := ""
	if json.Unmarshal(body, &envelope) == nil {
		message = envelope.Error
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &Error{StatusCode: resp.StatusCode, Message: message}
}
