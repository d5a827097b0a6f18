// Package deck defines the canonical deck record produced by the import pipeline.
package deck

// Source identifies the deckbuilding site a deck was imported from.
type Source string

const (
	SourceMoxfield  Source = "moxfield"
	SourceArchidekt Source = "archidekt"
)

const (
	// DefaultFormat is used when a provider does not report a format.
	DefaultFormat = "Commander"

	// DefaultName is used when a provider does not report a deck name.
	DefaultName = "Imported Deck"

	// UnknownCardName is used for rows whose card name cannot be found.
	UnknownCardName = "Unknown"
)

// CardEntry is one mainboard or sideboard line item.
// Enrichment fields stay nil until the card catalog resolves the entry.
type CardEntry struct {
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	ScryfallID *string  `json:"scryfall_id"`
	Categories []string `json:"categories"`

	ImageURL      *string  `json:"image_url"`
	ImageURLSmall *string  `json:"image_url_small"`
	CMC           *int     `json:"cmc"`
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"color_identity"`
	TypeLine      *string  `json:"type_line"`
	Rarity        *string  `json:"rarity"`
	SetCode       *string  `json:"set_code"`
	OracleText    *string  `json:"oracle_text"`
	Power         *string  `json:"power"`
	Toughness     *string  `json:"toughness"`
	Loyalty       *string  `json:"loyalty"`
	PriceUSD      *float64 `json:"price_usd"`
	PriceEUR      *float64 `json:"price_eur"`
}

// NewCardEntry returns an unenriched entry. Empty names become UnknownCardName and
// non-positive quantities become 1.
func NewCardEntry(name string, quantity int, scryfallID string, categories []string) CardEntry {
	if name == "" {
		name = UnknownCardName
	}
	if quantity < 1 {
		quantity = 1
	}
	if categories == nil {
		categories = []string{}
	}
	return CardEntry{
		Name:          name,
		Quantity:      quantity,
		ScryfallID:    optionalString(scryfallID),
		Categories:    categories,
		Colors:        []string{},
		ColorIdentity: []string{},
	}
}

// ID returns the entry's external card id, or "" when unknown.
func (e CardEntry) ID() string {
	if e.ScryfallID == nil {
		return ""
	}
	return *e.ScryfallID
}

// Enriched reports whether the entry has been matched against the card catalog.
func (e CardEntry) Enriched() bool {
	return e.TypeLine != nil || e.ImageURL != nil
}

// Commander is the deck's commander card.
type Commander struct {
	Name          string   `json:"name"`
	ScryfallID    *string  `json:"scryfall_id"`
	ImageURL      *string  `json:"image_url"`
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"color_identity"`
	TypeLine      *string  `json:"type_line"`
	CMC           *int     `json:"cmc"`
}

// NewCommander returns an unenriched commander, or nil when name is empty.
func NewCommander(name, scryfallID string) *Commander {
	if name == "" {
		return nil
	}
	return &Commander{
		Name:          name,
		ScryfallID:    optionalString(scryfallID),
		Colors:        []string{},
		ColorIdentity: []string{},
	}
}

// ID returns the commander's external card id, or "" when unknown.
func (c *Commander) ID() string {
	if c == nil || c.ScryfallID == nil {
		return ""
	}
	return *c.ScryfallID
}

// Deck is the canonical deck record. It lives for a single import call;
// callers decide whether to persist it.
type Deck struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Format      string      `json:"format"`
	Source      Source      `json:"source"`
	SourceURL   string      `json:"sourceUrl"`
	Commander   *Commander  `json:"commander"`
	Mainboard   []CardEntry `json:"mainboard"`
	Sideboard   []CardEntry `json:"sideboard"`
	TotalCards  int         `json:"totalCards"`
}

// New returns an empty deck with defaults applied and both boards allocated.
func New(source Source, sourceURL string) *Deck {
	return &Deck{
		Name:      DefaultName,
		Format:    DefaultFormat,
		Source:    source,
		SourceURL: sourceURL,
		Mainboard: []CardEntry{},
		Sideboard: []CardEntry{},
	}
}

// CountCards sums quantities across both boards. The commander is not counted.
// Zero quantities count as one card.
func (d *Deck) CountCards() int {
	total := 0
	for _, boards := range [][]CardEntry{d.Mainboard, d.Sideboard} {
		for _, e := range boards {
			if e.Quantity > 0 {
				total += e.Quantity
			} else {
				total++
			}
		}
	}
	return total
}

// Clone copies the board slices and commander so entries can be replaced without
// touching the original. Slice fields inside entries are shared.
func (d *Deck) Clone() *Deck {
	out := *d
	out.Mainboard = append([]CardEntry{}, d.Mainboard...)
	out.Sideboard = append([]CardEntry{}, d.Sideboard...)
	if d.Commander != nil {
		c := *d.Commander
		out.Commander = &c
	}
	return &out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
