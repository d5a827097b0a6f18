package deckimport

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

var (
	moxfieldIDPattern  = regexp.MustCompile(`/decks/([A-Za-z0-9_-]+)`)
	archidektIDPattern = regexp.MustCompile(`/decks/(\d+)`)
)

// IsValidDeckURL reports whether raw parses as a URL on a supported deck site.
func IsValidDeckURL(raw string) bool {
	_, ok := DetectProvider(raw)
	return ok
}

// DetectProvider returns the deck site that hosts raw. Unparseable URLs and
// unsupported hosts return false.
func DetectProvider(raw string) (deck.Source, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "moxfield.com"):
		return deck.SourceMoxfield, true
	case strings.Contains(host, "archidekt.com"):
		return deck.SourceArchidekt, true
	}
	return "", false
}

// ExtractDeckID pulls the provider-specific deck id out of the URL path.
// Moxfield ids are alphanumeric with dashes; Archidekt ids are numeric.
func ExtractDeckID(source deck.Source, raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	var pattern *regexp.Regexp
	switch source {
	case deck.SourceMoxfield:
		pattern = moxfieldIDPattern
	case deck.SourceArchidekt:
		pattern = archidektIDPattern
	default:
		return "", false
	}

	m := pattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return m[1], true
}
