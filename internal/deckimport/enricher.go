package deckimport

import (
	"context"
	"fmt"
	"log"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/scryfall"
)

// CardCatalog resolves card references against the external card catalog.
type CardCatalog interface {
	ResolveByIDs(ctx context.Context, ids []string) (*scryfall.Resolution, error)
	ResolveByNames(ctx context.Context, names []string) (*scryfall.Resolution, error)
	GetCard(ctx context.Context, id string) (*scryfall.Card, error)
	GetCardNamed(ctx context.Context, name string) (*scryfall.Card, error)
	ImageURL(id string) string
}

// Enricher fills catalog data into a canonical deck.
type Enricher struct {
	catalog CardCatalog
	debug   bool
}

// NewEnricher creates an Enricher backed by catalog.
func NewEnricher(catalog CardCatalog, debug bool) *Enricher {
	return &Enricher{catalog: catalog, debug: debug}
}

// Enrich returns a copy of d with every resolvable entry and the commander
// enriched, and TotalCards computed.
//
// Entries with a known id are resolved by id and the rest by exact name. The id
// pass runs first and a failure of either pass fails the call. Entries that
// match nothing are left unenriched. Commander enrichment never fails the call.
func (e *Enricher) Enrich(ctx context.Context, d *deck.Deck) (*deck.Deck, error) {
	out := d.Clone()

	var ids, names []string
	for _, board := range [][]deck.CardEntry{out.Mainboard, out.Sideboard} {
		for _, entry := range board {
			if id := entry.ID(); id != "" {
				ids = append(ids, id)
			} else {
				names = append(names, entry.Name)
			}
		}
	}

	byID, err := e.catalog.ResolveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cards by id: %w", err)
	}
	byName, err := e.catalog.ResolveByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve cards by name: %w", err)
	}

	if e.debug {
		log.Printf("[deckimport] resolved %d/%d ids and %d/%d names (%d not found)",
			len(byID.Cards), len(ids), len(byName.Cards), len(names), len(byID.NotFound)+len(byName.NotFound))
	}

	out.Mainboard = enrichBoard(out.Mainboard, byID, byName)
	out.Sideboard = enrichBoard(out.Sideboard, byID, byName)

	if out.Commander != nil {
		out.Commander = e.enrichCommander(ctx, *out.Commander, byID, byName)
	}

	out.TotalCards = out.CountCards()
	return out, nil
}

func enrichBoard(board []deck.CardEntry, byID, byName *scryfall.Resolution) []deck.CardEntry {
	for i, entry := range board {
		var (
			card scryfall.Card
			ok   bool
		)
		if id := entry.ID(); id != "" {
			card, ok = byID.Lookup(id)
		} else {
			card, ok = byName.Lookup(entry.Name)
		}
		if ok {
			board[i] = mergeEntry(entry, scryfall.Project(card))
		}
	}
	return board
}

// enrichCommander walks the fallback ladder: resolved id map, direct id lookup,
// resolved name map, direct name lookup. When none match, or the match has no
// image, the image URL is synthesized from the known id.
func (e *Enricher) enrichCommander(ctx context.Context, c deck.Commander, byID, byName *scryfall.Resolution) *deck.Commander {
	out := &c
	if card := e.findCommander(ctx, c, byID, byName); card != nil {
		out = mergeCommander(c, scryfall.Project(*card))
	}

	if id := c.ID(); out.ImageURL == nil && id != "" {
		img := e.catalog.ImageURL(id)
		out.ImageURL = &img
	}
	return out
}

func (e *Enricher) findCommander(ctx context.Context, c deck.Commander, byID, byName *scryfall.Resolution) *scryfall.Card {
	id := c.ID()

	if card, ok := byID.Lookup(id); ok {
		return &card
	}

	if id != "" {
		card, err := e.catalog.GetCard(ctx, id)
		if err == nil {
			return card
		}
		log.Printf("[deckimport] commander %q: lookup by id %s failed: %v", c.Name, id, err)
	}

	if card, ok := byName.Lookup(c.Name); ok {
		return &card
	}

	card, err := e.catalog.GetCardNamed(ctx, c.Name)
	if err == nil {
		return card
	}
	log.Printf("[deckimport] commander %q: lookup by name failed: %v", c.Name, err)
	return nil
}

func mergeEntry(e deck.CardEntry, m scryfall.MinimalCard) deck.CardEntry {
	cmc := m.CMC
	e.ImageURL = optional(m.ImageURL)
	e.ImageURLSmall = optional(m.ImageURLSmall)
	e.CMC = &cmc
	e.Colors = m.Colors
	e.ColorIdentity = m.ColorIdentity
	e.TypeLine = optional(m.TypeLine)
	e.Rarity = optional(m.Rarity)
	e.SetCode = optional(m.SetCode)
	e.OracleText = optional(m.OracleText)
	e.Power = optional(m.Power)
	e.Toughness = optional(m.Toughness)
	e.Loyalty = optional(m.Loyalty)
	e.PriceUSD = m.PriceUSD
	e.PriceEUR = m.PriceEUR
	return e
}

func mergeCommander(c deck.Commander, m scryfall.MinimalCard) *deck.Commander {
	cmc := m.CMC
	c.ImageURL = optional(m.ImageURL)
	c.Colors = m.Colors
	c.ColorIdentity = m.ColorIdentity
	c.TypeLine = optional(m.TypeLine)
	c.CMC = &cmc
	return &c
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
