// Package providers talks to the NWS API at api.weather.gov.
//
// A Client holds immutable connection settings and performs one GET per
// call. It never retries and is safe for concurrent use.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "https://api.weather.gov"
	DefaultTimeout = 15 * time.Second

	MediaTypeLD  = "application/ld+json"
	MediaTypeGeo = "application/geo+json"
)

// Doer is the transport the client needs. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config identifies the caller to the API. The NWS requires a User-Agent
// naming the application and a contact address.
type Config struct {
	ClientName   string
	ContactEmail string
	BaseURL      string
	Timeout      time.Duration
}

// Client talks to api.weather.gov. It is safe for concurrent use once
// built by NewClient.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    Doer
	logger    *slog.Logger
}

// Option configures optional collaborators of a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.client = d
	}
}

// WithLogger sets the logger used for per-request debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient validates cfg and returns a ready client. No request is made.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.ClientName) == "" {
		return nil, &ConfigError{Field: "client name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(cfg.ContactEmail) == "" {
		return nil, &ConfigError{Field: "contact email", Reason: "must not be empty"}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, &ConfigError{Field: "base URL", Reason: err.Error()}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:   baseURL,
		userAgent: fmt.Sprintf("(%s, %s)", cfg.ClientName, cfg.ContactEmail),
		timeout:   timeout,
		client:    &http.Client{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UserAgent returns the User-Agent header sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

func (c *Client) String() string {
	return fmt.Sprintf("Client(%s)", c.userAgent)
}

// Response is a successful API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Query performs a GET of path relative to the base URL. An empty accept
// means application/ld+json. Anything but 200 OK is an *UpstreamError and
// a failed exchange is a *TransportError.
func (c *Client) Query(ctx context.Context, path, accept string, params url.Values) (*Response, error) {
	if accept == "" {
		accept = MediaTypeLD
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "nws request failed",
			"request_id", requestID,
			"url", reqURL,
			"error", err,
		)
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.logger.DebugContext(ctx, "nws request",
		"request_id", requestID,
		"method", http.MethodGet,
		"url", reqURL,
		"accept", accept,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		upstream := &UpstreamError{StatusCode: resp.StatusCode, URL: reqURL}
		var p problem
		if json.Unmarshal(body, &p) == nil {
			upstream.Detail = p.Detail
			if upstream.Detail == "" {
				upstream.Detail = p.Title
			}
		}
		return nil, upstream
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
