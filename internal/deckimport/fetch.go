package deckimport

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultUserAgent = "MTG-Playgroup/1.0"
	fetchTimeout     = 30 * time.Second
	maxErrorBody     = 512
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// fetchFirst GETs each URL in order, once each, and returns the first 2xx body.
func fetchFirst(ctx context.Context, client *http.Client, userAgent, provider, deckID string, urls []string) ([]byte, error) {
	last := &FetchError{Provider: provider, DeckID: deckID}

	for _, u := range urls {
		body, status, err := get(ctx, client, userAgent, u)
		if err == nil && status >= 200 && status < 300 {
			return body, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &FetchError{Provider: provider, DeckID: deckID, Err: ctxErr}
		}

		last = &FetchError{Provider: provider, DeckID: deckID, StatusCode: status, Err: err}
		if err == nil {
			last.Body = truncate(string(body), maxErrorBody)
			log.Printf("[deckimport] %s endpoint %s returned HTTP %d", provider, u, status)
		} else {
			log.Printf("[deckimport] %s endpoint %s failed: %v", provider, u, err)
		}
	}

	return nil, last
}

func get(ctx context.Context, client *http.Client, userAgent, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch deck: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
