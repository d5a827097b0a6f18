package deckimport

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

// DefaultMoxfieldEndpoints are tried in order; each takes the deck id.
var DefaultMoxfieldEndpoints = []string{
	"https://api2.moxfield.com/v3/decks/all/%s",
	"https://api.moxfield.com/v2/decks/all/%s",
	"https://api2.moxfield.com/v2/decks/all/%s",
}

var (
	moxfieldRowIDPaths = []string{
		"card.scryfall_id",
		"card.scryfallId",
		"card.identifiers.scryfallId",
		"scryfall_id",
	}
	moxfieldCommanderIDPaths = []string{
		"scryfall_id",
		"scryfallId",
		"identifiers.scryfallId",
		"card.scryfall_id",
		"card.scryfallId",
	}
)

// MoxfieldClient fetches and normalizes Moxfield decks.
type MoxfieldClient struct {
	httpClient *http.Client
	endpoints  []string
	userAgent  string
}

// NewMoxfieldClient creates a Moxfield client. Nil or empty endpoints use the defaults.
func NewMoxfieldClient(httpClient *http.Client, endpoints []string, userAgent string) *MoxfieldClient {
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	if len(endpoints) == 0 {
		endpoints = DefaultMoxfieldEndpoints
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &MoxfieldClient{httpClient: httpClient, endpoints: endpoints, userAgent: userAgent}
}

// Source implements Provider.
func (c *MoxfieldClient) Source() deck.Source {
	return deck.SourceMoxfield
}

// FetchDeck tries each endpoint variant once and returns the first successful body.
func (c *MoxfieldClient) FetchDeck(ctx context.Context, deckID string) ([]byte, error) {
	urls := make([]string, len(c.endpoints))
	for i, e := range c.endpoints {
		urls[i] = fmt.Sprintf(e, deckID)
	}
	return fetchFirst(ctx, c.httpClient, c.userAgent, "moxfield", deckID, urls)
}

// Normalize implements Provider.
func (c *MoxfieldClient) Normalize(raw []byte, sourceURL string) (*deck.Deck, error) {
	return NormalizeMoxfield(raw, sourceURL)
}

// NormalizeMoxfield converts a Moxfield deck document into a canonical deck.
// Boards may live under "boards" (v3, optionally wrapped in "cards") or at the top
// level (v2), keyed by id or as arrays. The commander is read from the top-level
// "main" object only.
func NormalizeMoxfield(raw []byte, sourceURL string) (*deck.Deck, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("moxfield: response is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("moxfield: response is not a JSON object")
	}

	d := deck.New(deck.SourceMoxfield, sourceURL)
	if name := firstString(doc, "name"); name != "" {
		d.Name = name
	}
	d.Description = firstString(doc, "description")
	if format := displayFormat(firstString(doc, "format")); format != "" {
		d.Format = format
	}

	for _, r := range moxfieldBoard(doc, "mainboard") {
		d.Mainboard = append(d.Mainboard, moxfieldEntry(r))
	}
	for _, r := range moxfieldBoard(doc, "sideboard") {
		d.Sideboard = append(d.Sideboard, moxfieldEntry(r))
	}

	main := doc.Get("main")
	switch {
	case main.IsObject():
		d.Commander = deck.NewCommander(
			firstString(main, "card.name", "name"),
			firstString(main, moxfieldCommanderIDPaths...),
		)
	case main.Exists() && main.Type != gjson.Null:
		log.Printf("[deckimport] moxfield: ignoring non-object commander field %q", main.Raw)
	}

	return d, nil
}

func moxfieldBoard(doc gjson.Result, section string) []gjson.Result {
	for _, path := range []string{"boards." + section + ".cards", "boards." + section, section} {
		if r := doc.Get(path); r.IsObject() || r.IsArray() {
			return rows(r)
		}
	}
	return nil
}

func moxfieldEntry(r gjson.Result) deck.CardEntry {
	return deck.NewCardEntry(
		firstString(r, "card.name", "name"),
		quantity(r, "quantity", "count"),
		firstString(r, moxfieldRowIDPaths...),
		nil,
	)
}
