// Package charts renders deck statistics as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

// maxCurveBucket collects every mana value at or above it.
const maxCurveBucket = 7

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title    string // Page title
	Subtitle string
	Width    string // Chart width (e.g., "900px")
	Height   string // Chart height (e.g., "500px")
	Theme    string
	Colors   []string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// colorOrder is WUBRG followed by colorless.
var colorOrder = []struct {
	Symbol string
	Label  string
	Hex    string
}{
	{"W", "White", "#F8E7B9"},
	{"U", "Blue", "#0E68AB"},
	{"B", "Black", "#150B00"},
	{"R", "Red", "#D3202A"},
	{"G", "Green", "#00733E"},
	{"", "Colorless", "#9C9C9C"},
}

// ManaCurve counts nonland cards per mana value, weighted by quantity.
// Buckets run 0 through 6 plus "7+". Cards without a known mana value are skipped.
func ManaCurve(d *deck.Deck) []DataPoint {
	counts := make([]float64, maxCurveBucket+1)
	for _, e := range d.Mainboard {
		if e.CMC == nil || isLand(e) {
			continue
		}
		bucket := *e.CMC
		if bucket < 0 {
			bucket = 0
		}
		if bucket > maxCurveBucket {
			bucket = maxCurveBucket
		}
		counts[bucket] += float64(quantity(e))
	}

	points := make([]DataPoint, len(counts))
	for i, n := range counts {
		label := strconv.Itoa(i)
		if i == maxCurveBucket {
			label += "+"
		}
		points[i] = DataPoint{Label: label, Value: n}
	}
	return points
}

// ColorDistribution counts mainboard cards per color, weighted by quantity.
// A multicolored card counts once toward each of its colors. Lands are skipped.
// Only enriched cards contribute.
func ColorDistribution(d *deck.Deck) []DataPoint {
	counts := map[string]float64{}
	for _, e := range d.Mainboard {
		if !e.Enriched() || isLand(e) {
			continue
		}
		n := float64(quantity(e))
		if len(e.Colors) == 0 {
			counts[""] += n
			continue
		}
		for _, c := range e.Colors {
			counts[c] += n
		}
	}

	var points []DataPoint
	for _, c := range colorOrder {
		if counts[c.Symbol] > 0 {
			points = append(points, DataPoint{Label: c.Label, Value: counts[c.Symbol]})
		}
	}
	return points
}

// RenderDeckCharts writes an HTML page with the mana curve bar chart and the
// color distribution pie chart for d.
func RenderDeckCharts(w io.Writer, d *deck.Deck, config ChartConfig) error {
	if d == nil {
		return fmt.Errorf("deck cannot be nil")
	}

	title := config.Title
	if title == "" {
		title = d.Name
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		newCurveChart(ManaCurve(d), title, config),
		newColorChart(ColorDistribution(d), config),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderBarChart writes a single bar chart as HTML.
func RenderBarChart(w io.Writer, data []DataPoint, seriesName string, config ChartConfig) error {
	bar := newBar(data, seriesName, config)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func newCurveChart(data []DataPoint, title string, config ChartConfig) *charts.Bar {
	config.Title = title
	if config.Subtitle == "" {
		config.Subtitle = "Mana curve (nonland cards)"
	}
	return newBar(data, "Cards", config)
}

func newBar(data []DataPoint, seriesName string, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithColorsOpts(opts.Colors{
			firstColor(config.Colors),
		}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(seriesName, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)

	return bar
}

func newColorChart(data []DataPoint, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Colors",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	pieData := make([]opts.PieData, len(data))
	for i, point := range data {
		pieData[i] = opts.PieData{
			Name:      point.Label,
			Value:     point.Value,
			ItemStyle: &opts.ItemStyle{Color: colorHex(point.Label)},
		}
	}

	pie.AddSeries("Colors", pieData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)

	return pie
}

func isLand(e deck.CardEntry) bool {
	return e.TypeLine != nil && strings.Contains(*e.TypeLine, "Land")
}

func quantity(e deck.CardEntry) int {
	if e.Quantity < 1 {
		return 1
	}
	return e.Quantity
}

func colorHex(label string) string {
	for _, c := range colorOrder {
		if c.Label == label {
			return c.Hex
		}
	}
	return ""
}

func firstColor(colors []string) string {
	if len(colors) == 0 {
		return "#5470C6"
	}
	return colors[0]
}
