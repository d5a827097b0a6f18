package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

func entry(name string, qty, cmc int, typeLine string, colors ...string) deck.CardEntry {
	e := deck.NewCardEntry(name, qty, "", nil)
	e.CMC = &cmc
	e.TypeLine = &typeLine
	e.Colors = colors
	return e
}

func chartDeck() *deck.Deck {
	d := deck.New(deck.SourceMoxfield, "u")
	d.Name = "Curve Test"
	d.Mainboard = []deck.CardEntry{
		entry("Sol Ring", 1, 1, "Artifact"),
		entry("Lightning Bolt", 4, 1, "Instant", "R"),
		entry("Boros Charm", 2, 2, "Instant", "R", "W"),
		entry("Emrakul", 1, 15, "Creature"),
		entry("Mountain", 10, 0, "Basic Land — Mountain"),
		deck.NewCardEntry("Unresolved", 3, "", nil),
	}
	return d
}

func TestManaCurve(t *testing.T) {
	curve := ManaCurve(chartDeck())
	require.Len(t, curve, 8)

	assert.Equal(t, "0", curve[0].Label)
	assert.Equal(t, 0.0, curve[0].Value, "lands are excluded")
	assert.Equal(t, 5.0, curve[1].Value)
	assert.Equal(t, 2.0, curve[2].Value)
	assert.Equal(t, "7+", curve[7].Label)
	assert.Equal(t, 1.0, curve[7].Value)
}

func TestColorDistribution(t *testing.T) {
	d := chartDeck()

	dist := ColorDistribution(d)

	assert.Equal(t, []DataPoint{
		{Label: "White", Value: 2},
		{Label: "Red", Value: 6},
		{Label: "Colorless", Value: 2},
	}, dist)
}

func TestRenderDeckCharts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDeckCharts(&buf, chartDeck(), DefaultChartConfig()))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Curve Test")
	assert.Contains(t, html, "7+")
	assert.Contains(t, html, "Red")
}

func TestRenderDeckChartsNilDeck(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RenderDeckCharts(&buf, nil, DefaultChartConfig()))
}

func TestRenderBarChart(t *testing.T) {
	var buf bytes.Buffer
	data := []DataPoint{{Label: "a", Value: 1}, {Label: "b", Value: 2}}
	require.NoError(t, RenderBarChart(&buf, data, "Series", ChartConfig{Title: "Bars"}))
	assert.Contains(t, buf.String(), "Bars")
}
