package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"oncodash/domain/clinical"
	"oncodash/internal/errors"
	"oncodash/ports"
)

// Client talks to the inference backend over its REST+JSON contract. Once a
// bearer token is set it is attached to every request. The client never
// retries: a failed operation requires an explicit user-initiated retry.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// HTTPClient exposes the underlying client so tests can intercept transport.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// SetToken attaches a bearer token to every subsequent request. An empty
// token detaches it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do executes one request and returns the raw body. Non-2xx statuses are
// surfaced as clinical.ErrBackendStatus so callers can tell a degradable
// feed failure from a transport error.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := gjson.GetBytes(raw, "detail").String()
		if detail == "" {
			detail = previewBody(raw)
		}
		return nil, fmt.Errorf("%w: %s returned %d: %s", clinical.ErrBackendStatus, path, resp.StatusCode, detail)
	}
	return raw, nil
}

func previewBody(raw []byte) string {
	const limit = 200
	s := string(raw)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// Predict sends the full patient record keyed by feature name and normalizes
// the backend response into a Prediction. Fails on network error, non-success
// status, or a malformed body; never retries.
func (c *Client) Predict(ctx context.Context, modelID clinical.ModelID, record clinical.PatientRecord) (*clinical.Prediction, error) {
	path := "/predict?model_id=" + url.QueryEscape(string(modelID))
	raw, err := c.do(ctx, http.MethodPost, path, map[string]any{"data": record})
	if err != nil {
		return nil, errors.PredictionFailed(err)
	}

	parsed := gjson.ParseBytes(raw)
	pred := parsed.Get("prediction")
	if !pred.Exists() {
		return nil, errors.PredictionFailed(fmt.Errorf("%w: missing prediction field", clinical.ErrMalformedResponse))
	}
	class := int(pred.Int())
	if class != 0 && class != 1 {
		return nil, errors.PredictionFailed(fmt.Errorf("%w: prediction %d outside {0,1}", clinical.ErrMalformedResponse, class))
	}

	out := &clinical.Prediction{PredictedClass: class}
	if probs := parsed.Get("probabilities"); probs.IsArray() {
		for _, p := range probs.Array() {
			out.Probabilities = append(out.Probabilities, p.Float())
		}
		if len(out.Probabilities) != 2 {
			return nil, errors.PredictionFailed(fmt.Errorf("%w: expected 2 probabilities, got %d", clinical.ErrMalformedResponse, len(out.Probabilities)))
		}
	}
	return out, nil
}

// Login exchanges credentials for a bearer token and role.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, errors.AuthFailed(err.Error())
	}
	return parseAuthResult(raw)
}

// Signup registers a new user and returns the same token shape as login.
// The bcrypt password limits from the auth collaborator are validated here
// before the request goes out.
func (c *Client) Signup(ctx context.Context, email, password, role string) (*ports.AuthResult, error) {
	if len(password) < 6 {
		return nil, errors.ValidationError("password must be at least 6 characters")
	}
	if len([]byte(password)) > 72 {
		return nil, errors.ValidationError("password must be 72 bytes max")
	}
	raw, err := c.do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	})
	if err != nil {
		return nil, errors.AuthFailed(err.Error())
	}
	return parseAuthResult(raw)
}

func parseAuthResult(raw []byte) (*ports.AuthResult, error) {
	var result ports.AuthResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.AuthFailed("malformed auth response")
	}
	if result.AccessToken == "" {
		return nil, errors.AuthFailed("auth response missing access token")
	}
	return &result, nil
}

// Chat relays assistant messages to the backend and returns the markdown
// reply.
func (c *Client) Chat(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/chat", map[string]any{"messages": messages})
	if err != nil {
		return "", errors.BackendError("chat", err)
	}
	reply := gjson.GetBytes(raw, "reply")
	if !reply.Exists() {
		return "", errors.BackendError("chat", clinical.ErrMalformedResponse)
	}
	return reply.String(), nil
}

var _ ports.Backend = (*Client)(nil)
