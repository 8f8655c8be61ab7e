// Package http implements a preflight check that confirms the application
// base URL is reachable over HTTP.
package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kylerisse/budgetcheck/pkg/check"
)

const (
	// Name is the registered check name.
	Name = "preflight_reach_app"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second
)

// Check confirms the application base URL answers an HTTP GET.
type Check struct {
	url        string
	timeout    time.Duration
	skipVerify bool
	client     *http.Client
}

// Option is a functional option for configuring an HTTP Check.
type Option func(*Check) error

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Check) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithSkipVerify sets whether to skip TLS certificate verification.
func WithSkipVerify(skip bool) Option {
	return func(c *Check) error {
		c.skipVerify = skip
		return nil
	}
}

// New creates an HTTP Check for the given URL.
func New(rawURL string, opts ...Option) (*Check, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("http: URL is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("http: invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("http: unsupported scheme %q", u.Scheme)
	}

	c := &Check{
		url:     rawURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
	}

	c.client = &http.Client{
		Timeout: c.timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: c.skipVerify},
		},
	}

	return c, nil
}

// Run executes an HTTP GET against the URL. Any HTTP status code counts
// as reachable; only transport errors fail the check.
func (c *Check) Run() error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.url, nil)
	if err != nil {
		return check.Failf("failed to create request for %s: %v", c.url, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return check.Failf("request to %s failed: %v", c.url, err)
	}
	resp.Body.Close()

	return nil
}
