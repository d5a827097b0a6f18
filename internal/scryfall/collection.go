package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MaxBatchSize is the maximum number of identifiers per /cards/collection request.
const MaxBatchSize = 75

// Mode selects how keys are resolved against the collection endpoint.
type Mode int

const (
	ByID Mode = iota
	ByName
)

func (m Mode) String() string {
	if m == ByName {
		return "name"
	}
	return "id"
}

// CardIdentifier represents a card identifier for the /cards/collection endpoint.
type CardIdentifier struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// Resolution is the merged result of resolving a key set.
type Resolution struct {
	Mode Mode

	// Cards is keyed by card id in ByID mode and by lowercased name in ByName mode.
	Cards map[string]Card

	NotFound []CardIdentifier

	// Requests is the number of collection calls made.
	Requests int
}

// Lookup finds a resolved card by key, applying the mode's key normalization.
func (r *Resolution) Lookup(key string) (Card, bool) {
	if r == nil || key == "" {
		return Card{}, false
	}
	c, ok := r.Cards[r.Mode.normalize(key)]
	return c, ok
}

func (m Mode) normalize(key string) string {
	if m == ByName {
		return strings.ToLower(strings.TrimSpace(key))
	}
	return key
}

// ResolveByIDs resolves Scryfall ids in batches of MaxBatchSize.
func (c *Client) ResolveByIDs(ctx context.Context, ids []string) (*Resolution, error) {
	return c.Resolve(ctx, ByID, ids)
}

// ResolveByNames resolves exact card names (case-insensitive) in batches of MaxBatchSize.
func (c *Client) ResolveByNames(ctx context.Context, names []string) (*Resolution, error) {
	return c.Resolve(ctx, ByName, names)
}

// Resolve deduplicates keys, splits them into chunks of at most MaxBatchSize and
// issues one collection request per chunk. Any failed chunk fails the whole call.
// Chunks may run concurrently; results are merged in chunk order.
func (c *Client) Resolve(ctx context.Context, mode Mode, keys []string) (*Resolution, error) {
	res := &Resolution{Mode: mode, Cards: make(map[string]Card)}

	batches := chunk(dedupe(mode, keys), MaxBatchSize)
	if len(batches) == 0 {
		return res, nil
	}

	results := make([]CollectionResponse, len(batches))
	fetch := func(ctx context.Context, i int) error {
		resp, err := c.doCollectionRequest(ctx, identifiers(mode, batches[i]))
		if err != nil {
			start := i * MaxBatchSize
			return fmt.Errorf("failed to fetch batch %d-%d: %w", start, start+len(batches[i]), err)
		}
		results[i] = *resp
		return nil
	}

	if c.concurrency <= 1 {
		for i := range batches {
			if err := fetch(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)
		for i := range batches {
			i := i
			g.Go(func() error { return fetch(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	res.Requests = len(batches)
	for _, r := range results {
		for _, card := range r.Data {
			res.add(card)
		}
		res.NotFound = append(res.NotFound, r.NotFound...)
	}

	return res, nil
}

func (r *Resolution) add(card Card) {
	if r.Mode == ByID {
		if card.ID != "" {
			r.Cards[card.ID] = card
		}
		return
	}

	r.Cards[r.Mode.normalize(card.Name)] = card
	// Deck sites often list double-faced cards by their front face only.
	for _, face := range card.CardFaces {
		key := r.Mode.normalize(face.Name)
		if _, taken := r.Cards[key]; !taken && key != "" {
			r.Cards[key] = card
		}
	}
}

func dedupe(mode Mode, keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		norm := mode.normalize(k)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, strings.TrimSpace(k))
	}
	return out
}

func chunk(keys []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(keys); i += size {
		end := min(i+size, len(keys))
		out = append(out, keys[i:end])
	}
	return out
}

func identifiers(mode Mode, keys []string) []CardIdentifier {
	ids := make([]CardIdentifier, len(keys))
	for i, k := range keys {
		if mode == ByName {
			ids[i] = CardIdentifier{Name: k}
		} else {
			ids[i] = CardIdentifier{ID: k}
		}
	}
	return ids
}

// doCollectionRequest performs a single batch request to /cards/collection.
func (c *Client) doCollectionRequest(ctx context.Context, ids []CardIdentifier) (*CollectionResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	jsonBody, err := json.Marshal(CollectionRequest{Identifiers: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/collection", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards from Scryfall: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out CollectionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse Scryfall response: %w", err)
	}

	return &out, nil
}
