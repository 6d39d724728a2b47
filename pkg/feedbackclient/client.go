// Package feedbackclient talks to the feedback API over HTTP and keeps a
// client-side view of the feedback list in sync with the server.
package feedbackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// DefaultBaseURL points at a locally running service.
const DefaultBaseURL = "http://localhost:8080/api"

// Display text used when the service cannot be reached.
const (
	MsgUnavailable      = "Unable to connect to server. Please try again."
	MsgUnavailableFetch = "Unable to connect to server. Please make sure the backend is running."
)

// ErrServiceUnavailable is returned when the request could not reach the
// service or did not complete within the timeout.
var ErrServiceUnavailable = errors.New("feedback service unavailable")

// APIError is a failed envelope returned by the service.
type APIError struct {
	Status  int
	Code    string
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Detail)
	}
	return e.Message
}

// ClientInterface defines the feedback API operations.
type ClientInterface interface {
	List(ctx context.Context) ([]types.Feedback, error)
	Get(ctx context.Context, id string) (*types.Feedback, error)
	Create(ctx context.Context, name, message string) (*types.Feedback, error)
	Update(ctx context.Context, id, name, message string) (*types.Feedback, error)
	Delete(ctx context.Context, id string) (*types.Feedback, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for the API rooted at baseURL (for example
// http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all feedback, newest first.
func (c *Client) List(ctx context.Context) ([]types.Feedback, error) {
	var items []types.Feedback
	if err := c.do(ctx, http.MethodGet, "/feedback", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []types.Feedback{}
	}
	return items, nil
}

// Get returns one feedback entry.
func (c *Client) Get(ctx context.Context, id string) (*types.Feedback, error) {
	var fb types.Feedback
	if err := c.do(ctx, http.MethodGet, "/feedback/"+url.PathEscape(id), nil, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// Create submits a new entry. Name and message are trimmed before sending.
func (c *Client) Create(ctx context.Context, name, message string) (*types.Feedback, error) {
	var fb types.Feedback
	body := types.FeedbackInput{Name: strings.TrimSpace(name), Message: strings.TrimSpace(message)}
	if err := c.do(ctx, http.MethodPost, "/feedback", body, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// Update overwrites name and message of an entry.
func (c *Client) Update(ctx context.Context, id, name, message string) (*types.Feedback, error) {
	var fb types.Feedback
	body := types.FeedbackInput{Name: strings.TrimSpace(name), Message: strings.TrimSpace(message)}
	if err := c.do(ctx, http.MethodPut, "/feedback/"+url.PathEscape(id), body, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// Delete removes an entry and returns it.
func (c *Client) Delete(ctx context.Context, id string) (*types.Feedback, error) {
	var fb types.Feedback
	if err := c.do(ctx, http.MethodDelete, "/feedback/"+url.PathEscape(id), nil, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// Health calls the liveness endpoint.
func (c *Client) Health(ctx context.Context) (*types.Ping, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.send(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var ping types.Ping
	if err := json.NewDecoder(resp.Body).Decode(&ping); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &ping, nil
}

// do sends a request and decodes the envelope. The envelope's success flag
// decides the outcome; the HTTP status is only used for error reporting.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	var env types.RawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.GetLogger().Warnw("Feedback API returned a non-envelope body", "statusCode", resp.StatusCode, "method", method, "path", path)
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if !env.Success {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Code: env.Error, Message: message, Detail: env.Details}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().Debugw("Feedback API request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return resp, nil
}

// Message returns display text for an error from a Client call.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return MsgUnavailable
	}
	return err.Error()
}
