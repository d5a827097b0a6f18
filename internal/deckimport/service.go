// Package deckimport imports decks from third-party deckbuilding sites and
// enriches them with card catalog data.
package deckimport

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

// DefaultImportTimeout bounds a whole import when none is configured.
const DefaultImportTimeout = 45 * time.Second

// Provider fetches raw deck documents from one site and normalizes them.
type Provider interface {
	Source() deck.Source
	FetchDeck(ctx context.Context, deckID string) ([]byte, error)
	Normalize(raw []byte, sourceURL string) (*deck.Deck, error)
}

// Service turns a deck URL into an enriched canonical deck. Calls share no
// state besides configuration.
type Service struct {
	providers map[deck.Source]Provider
	enricher  *Enricher
	timeout   atomic.Int64
}

// NewService creates an import service.
func NewService(enricher *Enricher, providers ...Provider) *Service {
	s := &Service{
		providers: make(map[deck.Source]Provider, len(providers)),
		enricher:  enricher,
	}
	for _, p := range providers {
		s.providers[p.Source()] = p
	}
	s.SetTimeout(DefaultImportTimeout)
	return s
}

// SetTimeout changes the per-import deadline. Non-positive values disable it.
// Safe to call while imports are running; it applies to later calls.
func (s *Service) SetTimeout(d time.Duration) {
	s.timeout.Store(int64(d))
}

// Timeout returns the per-import deadline.
func (s *Service) Timeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

// ImportFromURL classifies rawURL, fetches and normalizes the deck, and enriches it.
// Errors are suitable for display to the user.
func (s *Service) ImportFromURL(ctx context.Context, rawURL string) (*deck.Deck, error) {
	source, ok := DetectProvider(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a Moxfield or Archidekt deck link", ErrInvalidURL, rawURL)
	}

	provider, ok := s.providers[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, source)
	}

	deckID, ok := ExtractDeckID(source, rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeckIDNotFound, rawURL)
	}

	if timeout := s.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()

	raw, err := provider.FetchDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	parsed, err := provider.Normalize(raw, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s deck %s: %w", source, deckID, err)
	}

	enriched, err := s.enricher.Enrich(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to load card data for %s deck %s: %w", source, deckID, err)
	}

	log.Printf("[deckimport] imported %s deck %s (%q, %d cards) in %s",
		source, deckID, enriched.Name, enriched.TotalCards, time.Since(start).Round(time.Millisecond))

	return enriched, nil
}
