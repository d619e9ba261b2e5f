// Package client is a typed client for the events REST API, used by the
// admin UI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/event-manager/internal/model"
)

// DefaultBaseURL matches the server's default listen address.
const DefaultBaseURL = "http://localhost:5000"

// Client talks to one events API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// current HTTP client, so a client passed to WithHTTPClient is not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListEvents fetches one page of events.
func (c *Client) ListEvents(ctx context.Context, limit, skip int) ([]model.Event, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))

	var events []model.Event
	if err := c.do(ctx, http.MethodGet, "/events?"+q.Encode(), nil, http.StatusOK, &events, "failed to fetch events"); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches a single event.
func (c *Client) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, http.StatusOK, &e, "failed to fetch event"); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEvent creates an event; the server assigns the id.
func (c *Client) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	var e model.Event
	if err := c.do(ctx, http.MethodPost, "/events", req, http.StatusCreated, &e, "failed to create event"); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEvent sends a partial update and returns the merged event.
func (c *Client) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	var e model.Event
	if err := c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(id), req, http.StatusOK, &e, "failed to update event"); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, http.StatusNoContent, nil, "failed to delete event")
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any, failMsg string) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", failMsg, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return newAPIError(resp, failMsg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", failMsg, err)
	}
	return nil
}

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func newAPIError(resp *http.Response, fallback string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
	var body model.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a 400 from the server.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}
