// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/refcheck/pkg/types"
)

// ErrNotFound is returned by GetJSON when the service answers HTTP 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx status other than 404.
type StatusError struct {
	Service    string
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Service, e.StatusCode)
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client is a rate-limited JSON client for one external service.
type Client struct {
	service    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLimiter replaces the request limiter; nil disables limiting.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a client for service using the timeout, user agent,
// retry, and rate settings from cfg.
func NewClient(service string, cfg types.HTTPConfig, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = types.DefaultRequestsPerSec
	}

	c := &Client{
		service:    service,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the name used in error messages.
func (c *Client) Service() string { return c.service }

// GetJSON fetches url and decodes the JSON body into out. It returns
// ErrNotFound on HTTP 404, a *StatusError on other non-2xx statuses, and
// a wrapped error on transport or decoding failures.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s rate limiter: %w", c.service, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Service: c.service, StatusCode: resp.StatusCode, URL: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing %s response: %w", c.service, err)
	}
	return nil
}
