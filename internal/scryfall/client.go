// Package scryfall is a client for the Scryfall card catalog.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	defaultUserAgent = "MTG-Playgroup/1.0"
	rateLimitDelay   = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout   = 30 * time.Second
	maxRetries       = 3
	initialBackoff   = 1 * time.Second
	maxBackoff       = 16 * time.Second
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL   string
	UserAgent string

	// RateLimit is the minimum delay between requests. Negative disables throttling.
	RateLimit time.Duration

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// BatchConcurrency is how many collection chunks may be in flight at once.
	// 1 fetches chunks sequentially.
	BatchConcurrency int

	HTTPClient *http.Client
}

// DefaultOptions returns options that target the public Scryfall API.
func DefaultOptions() Options {
	return Options{
		BaseURL:          DefaultBaseURL,
		UserAgent:        defaultUserAgent,
		RateLimit:        rateLimitDelay,
		Timeout:          requestTimeout,
		BatchConcurrency: 1,
	}
}

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
	concurrency int
	backoff     time.Duration
}

// NewClient creates a client for the public Scryfall API.
func NewClient() *Client {
	return NewClientWithOptions(DefaultOptions())
}

// NewClientWithOptions creates a client from opts.
func NewClientWithOptions(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = requestTimeout
	}
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = 1
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	switch {
	case opts.RateLimit > 0:
		limiter = rate.NewLimiter(rate.Every(opts.RateLimit), 1)
	case opts.RateLimit == 0:
		limiter = rate.NewLimiter(rate.Every(rateLimitDelay), 1)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		httpClient:  httpClient,
		rateLimiter: limiter,
		baseURL:     opts.BaseURL,
		userAgent:   opts.UserAgent,
		concurrency: opts.BatchConcurrency,
		backoff:     initialBackoff,
	}
}

// GetCard retrieves a card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	u := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id))

	var card Card
	if err := c.doRequest(ctx, u, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}

	return &card, nil
}

// GetCardNamed retrieves a card by its exact name.
func (c *Client) GetCardNamed(ctx context.Context, name string) (*Card, error) {
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, u, &card); err != nil {
		return nil, fmt.Errorf("failed to get card named %q: %w", name, err)
	}

	return &card, nil
}

// ImageURL returns a direct image URL for a card id that redirects to the
// card's normal-size front image. It needs no lookup.
func (c *Client) ImageURL(id string) string {
	return fmt.Sprintf("%s/cards/%s?format=image&version=normal", c.baseURL, url.PathEscape(id))
}

// doRequest performs a GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, u string, result interface{}) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if ctx.Err() != nil {
				return lastErr
			}
			if attempt < maxRetries {
				if err := sleep(ctx, backoff); err != nil {
					return err
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		retry, wait, err := c.handleResponse(resp, u, result)
		_ = resp.Body.Close()
		if !retry {
			return err
		}

		lastErr = err
		if attempt < maxRetries {
			if wait <= 0 {
				wait = backoff
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse decodes resp into result. It reports whether the request should
// be retried and, for 429s, how long the server asked us to wait.
func (c *Client) handleResponse(resp *http.Response, u string, result interface{}) (bool, time.Duration, error) {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, 0, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, 0, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		var wait time.Duration
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			wait = time.Duration(secs) * time.Second
		}
		return true, wait, fmt.Errorf("rate limited (HTTP 429)")

	case resp.StatusCode == http.StatusNotFound:
		return false, 0, &NotFoundError{URL: u}

	default:
		body, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return false, 0, &apiErr
		}

		return false, 0, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
