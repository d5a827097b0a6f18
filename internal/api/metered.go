package api

import (
	"context"
	"time"

	"github.com/ramonehamilton/MTG-Playgroup/internal/api/handlers"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/metrics"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage/models"
)

// meteredImporter records latency and outcome for every import.
type meteredImporter struct {
	next    handlers.Importer
	metrics *metrics.ImportMetrics
}

func (m *meteredImporter) ImportFromURL(ctx context.Context, rawURL string) (*deck.Deck, error) {
	start := time.Now()
	d, err := m.next.ImportFromURL(ctx, rawURL)
	m.metrics.RecordImport(time.Since(start), err)
	return d, err
}

// meteredStore counts successful saves.
type meteredStore struct {
	handlers.DeckStore
	metrics *metrics.ImportMetrics
}

func (m *meteredStore) SaveDeck(ctx context.Context, d *deck.Deck) (*models.SavedDeck, error) {
	saved, err := m.DeckStore.SaveDeck(ctx, d)
	if err == nil {
		m.metrics.RecordSave()
	}
	return saved, err
}
