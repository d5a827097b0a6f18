package deckimport

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

// DefaultArchidektEndpoints are tried in order; each takes the deck id.
var DefaultArchidektEndpoints = []string{
	"https://archidekt.com/api/decks/%s/?format=json",
	"https://archidekt.com/api/decks/%s/small/",
}

var archidektRowIDPaths = []string{
	"card.uid",
	"card.scryfall_id",
	"card.scryfallId",
	"scryfall_id",
}

// ArchidektFormat maps Archidekt's numeric format ids to format names.
var ArchidektFormat = map[int64]string{
	1:  "Standard",
	2:  "Modern",
	3:  "Commander",
	4:  "Legacy",
	5:  "Vintage",
	6:  "Pauper",
	7:  "Brawl",
	8:  "Pioneer",
	9:  "Historic",
	10: "Penny Dreadful",
	11: "Oathbreaker",
	12: "Explorer",
}

// ArchidektClient fetches and normalizes Archidekt decks.
type ArchidektClient struct {
	httpClient *http.Client
	endpoints  []string
	userAgent  string
}

// NewArchidektClient creates an Archidekt client. Nil or empty endpoints use the defaults.
func NewArchidektClient(httpClient *http.Client, endpoints []string, userAgent string) *ArchidektClient {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	if len(endpoints) == 0 {
		endpoints = DefaultArchidektEndpoints
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &ArchidektClient{httpClient: httpClient, endpoints: endpoints, userAgent: userAgent}
}

// Source implements Provider.
func (c *ArchidektClient) Source() deck.Source {
	return deck.SourceArchidekt
}

// FetchDeck tries the primary endpoint, then the alternate.
func (c *ArchidektClient) FetchDeck(ctx context.Context, deckID string) ([]byte, error) {
	urls := make([]string, len(c.endpoints))
	for i, e := range c.endpoints {
		urls[i] = fmt.Sprintf(e, deckID)
	}
	return fetchFirst(ctx, c.httpClient, c.userAgent, "archidekt", deckID, urls)
}

// Normalize implements Provider.
func (c *ArchidektClient) Normalize(raw []byte, sourceURL string) (*deck.Deck, error) {
	return NormalizeArchidekt(raw, sourceURL)
}

// NormalizeArchidekt converts an Archidekt deck document into a canonical deck.
//
// Rows tagged board "commander", or carrying a category containing "commander",
// are commander candidates; only the first becomes the commander and later ones
// are dropped. Rows on board "sideboard" go to the sideboard, everything else to
// the mainboard.
func NormalizeArchidekt(raw []byte, sourceURL string) (*deck.Deck, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("archidekt: response is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("archidekt: response is not a JSON object")
	}

	d := deck.New(deck.SourceArchidekt, sourceURL)
	if name := firstString(doc, "name"); name != "" {
		d.Name = name
	}
	d.Description = firstString(doc, "description")
	if f := doc.Get("deckFormat"); f.Type == gjson.Number {
		if name, ok := ArchidektFormat[f.Int()]; ok {
			d.Format = name
		}
	} else if name := displayFormat(f.String()); name != "" {
		d.Format = name
	}

	for _, r := range rows(doc.Get("cards")) {
		name := firstString(r, "card.oracleCard.name", "card.name", "name")
		id := firstString(r, archidektRowIDPaths...)
		categories := stringList(r.Get("categories"))
		board := strings.ToLower(strings.TrimSpace(r.Get("board").String()))

		if board == "commander" || hasCommanderCategory(categories) {
			if d.Commander == nil {
				d.Commander = deck.NewCommander(nameOrUnknown(name), id)
			}
			continue
		}

		entry := deck.NewCardEntry(name, quantity(r, "quantity", "count"), id, categories)
		if board == "sideboard" {
			d.Sideboard = append(d.Sideboard, entry)
		} else {
			d.Mainboard = append(d.Mainboard, entry)
		}
	}

	return d, nil
}

func hasCommanderCategory(categories []string) bool {
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c), "commander") {
			return true
		}
	}
	return false
}

func nameOrUnknown(name string) string {
	if name == "" {
		return deck.UnknownCardName
	}
	return name
}
