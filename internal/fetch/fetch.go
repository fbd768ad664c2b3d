// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch is the shared HTTP fetcher for discovery and verification.
// It sends a constant identifying User-Agent, applies a politeness rate
// cap, and retries on HTTP 429.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const maxRetries = 3

// Client fetches pages and binary documents with bounded timeouts.
type Client struct {
	http      *http.Client
	robots    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// New builds a Client from the shared HTTP settings.
func New(cfg types.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	robotsTimeout := cfg.RobotsTimeout
	if robotsTimeout <= 0 {
		robotsTimeout = 5 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		http:      &http.Client{Timeout: timeout},
		robots:    &http.Client{Timeout: robotsTimeout},
		userAgent: cfg.UserAgent,
		limiter:   limiter,
	}
}

// Page fetches url and returns the response body as text.
func (c *Client) Page(ctx context.Context, url string) (string, error) {
	data, err := c.get(ctx, c.http, url, "text/html,application/xhtml+xml")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Bytes fetches url and returns the raw response body. Used for PDFs.
func (c *Client) Bytes(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, c.http, url, "application/pdf,*/*")
}

// Robots fetches url with the shorter robots.txt timeout.
func (c *Client) Robots(ctx context.Context, url string) (string, error) {
	data, err := c.get(ctx, c.robots, url, "text/plain")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) get(ctx context.Context, client *http.Client, url, accept string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := doWithRetry(ctx, client, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}

// doWithRetry executes req and retries on HTTP 429 with exponential
// backoff: RetryBaseDelay, 2x, 4x. After exhausting retries the last 429
// response is returned so the caller reports the status.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
