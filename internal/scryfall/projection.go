package scryfall

import (
	"math"
	"strconv"
	"strings"
)

// faceSeparator joins per-face oracle text for multi-faced cards.
const faceSeparator = "\n//\n"

// MinimalCard is the subset of a catalog record copied onto deck entries.
type MinimalCard struct {
	ID            string
	Name          string
	ImageURL      string
	ImageURLSmall string
	CMC           int
	Colors        []string
	ColorIdentity []string
	TypeLine      string
	Rarity        string
	SetCode       string
	OracleText    string
	Power         string
	Toughness     string
	Loyalty       string
	PriceUSD      *float64
	PriceEUR      *float64
}

// Project extracts the minimal card from a full Scryfall record.
func Project(c Card) MinimalCard {
	m := MinimalCard{
		ID:            c.ID,
		Name:          c.Name,
		CMC:           int(math.Round(c.CMC)),
		Colors:        c.Colors,
		ColorIdentity: c.ColorIdentity,
		TypeLine:      c.TypeLine,
		Rarity:        c.Rarity,
		SetCode:       c.SetCode,
		OracleText:    c.OracleText,
		Power:         c.Power,
		Toughness:     c.Toughness,
		Loyalty:       c.Loyalty,
		PriceUSD:      parsePrice(c.Prices.USD),
		PriceEUR:      parsePrice(c.Prices.EUR),
	}

	m.ImageURL, m.ImageURLSmall = imageURLs(c.ImageURIs)
	if m.ImageURL == "" && len(c.CardFaces) > 0 {
		m.ImageURL, m.ImageURLSmall = imageURLs(c.CardFaces[0].ImageURIs)
	}

	if len(c.CardFaces) > 0 {
		front := c.CardFaces[0]
		if m.OracleText == "" {
			texts := make([]string, 0, len(c.CardFaces))
			for _, f := range c.CardFaces {
				if f.OracleText != "" {
					texts = append(texts, f.OracleText)
				}
			}
			m.OracleText = strings.Join(texts, faceSeparator)
		}
		if len(m.Colors) == 0 {
			m.Colors = faceColors(c.CardFaces)
		}
		if m.Power == "" {
			m.Power = front.Power
		}
		if m.Toughness == "" {
			m.Toughness = front.Toughness
		}
		if m.Loyalty == "" {
			m.Loyalty = front.Loyalty
		}
	}

	if m.Colors == nil {
		m.Colors = []string{}
	}
	if m.ColorIdentity == nil {
		m.ColorIdentity = []string{}
	}

	return m
}

func imageURLs(uris *ImageURIs) (normal, small string) {
	if uris == nil {
		return "", ""
	}
	normal = uris.Normal
	if normal == "" {
		normal = uris.Large
	}
	return normal, uris.Small
}

func faceColors(faces []CardFace) []string {
	seen := make(map[string]bool)
	var colors []string
	for _, f := range faces {
		for _, col := range f.Colors {
			if !seen[col] {
				seen[col] = true
				colors = append(colors, col)
			}
		}
	}
	return colors
}

func parsePrice(s *string) *float64 {
	if s == nil || *s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
