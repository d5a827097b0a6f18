package models

import (
	"time"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

// SavedDeck is an imported deck persisted under a generated ID.
type SavedDeck struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	deck.Deck
}

// DeckSummary is the list view of a saved deck.
type DeckSummary struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Format        string      `json:"format"`
	Source        deck.Source `json:"source"`
	SourceURL     string      `json:"sourceUrl"`
	CommanderName *string     `json:"commanderName,omitempty"`
	TotalCards    int         `json:"totalCards"`
	CreatedAt     time.Time   `json:"createdAt"`
}
