package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Envelope is the body shape every API response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// APIClient sends one request and returns the decoded envelope. A non-nil
// error means no envelope could be read (network failure, non-JSON body).
type APIClient interface {
	Do(ctx context.Context, method, path string, body any) (*Envelope, error)
}

// TokenSource supplies the bearer token; "" sends no Authorization header.
type TokenSource interface {
	Token() string
}

// HTTPClient is the net/http APIClient.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewHTTPClient talks to the API at baseURL. httpClient may be nil.
func NewHTTPClient(baseURL string, tokens TokenSource, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("HTTP %d from %s %s: %w", resp.StatusCode, method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		env.Success = false
		if env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
	}
	return &env, nil
}

// LoginResult is the data of a successful /auth/login.
type LoginResult struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login exchanges credentials for a token.
func Login(ctx context.Context, api APIClient, email, password string) (*LoginResult, error) {
	env, err := api.Do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		if env.Message == "" {
			return nil, errors.New("login failed")
		}
		return nil, errors.New(env.Message)
	}
	var out LoginResult
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if out.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &out, nil
}
