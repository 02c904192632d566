package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/trend"
)

const noDataMessage = "No results recorded yet"

// ChartOptions sizes the rendered chart. MaxSeries limits the plotted drivers
// to the leaders after the last event; zero plots everyone.
type ChartOptions struct {
	Width     int
	Height    int
	MaxSeries int
}

// DefaultChartOptions returns the server defaults.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 1024, Height: 512, MaxSeries: 10}
}

// TrendChart renders cumulative points per driver as a PNG line chart.
// Drivers are drawn in the order given; teams supply line colors when known.
func TrendChart(tr trend.Trend, drivers []model.Driver, teams []model.Team, opts ChartOptions) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultChartOptions().Width, DefaultChartOptions().Height
	}
	if len(tr.Events) == 0 || len(drivers) == 0 {
		return renderPlaceholder(opts)
	}

	colors := make(map[string]string, len(teams))
	for _, t := range teams {
		colors[t.ID] = t.Color
	}

	// Every line starts at zero before the first event so a single event still
	// spans a non-empty x range.
	xs := make([]float64, len(tr.Events)+1)
	for i := range xs {
		xs[i] = float64(i)
	}

	maxY := 1.0
	series := make([]chart.Series, 0, len(drivers))
	for i, d := range drivers {
		if opts.MaxSeries > 0 && i >= opts.MaxSeries {
			break
		}
		cumulative := tr.Cumulative[d.ID]
		ys := make([]float64, len(xs))
		for j, v := range cumulative {
			ys[j+1] = float64(v)
			if ys[j+1] > maxY {
				maxY = ys[j+1]
			}
		}
		style := chart.Style{StrokeWidth: 2, DotWidth: 3}
		if c, ok := parseColor(colors[d.TeamID]); ok {
			style.StrokeColor = c
			style.DotColor = c
		} else {
			style.StrokeColor = chart.GetDefaultColor(i)
			style.DotColor = chart.GetDefaultColor(i)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    d.Name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	ticks := make([]chart.Tick, 0, len(xs))
	ticks = append(ticks, chart.Tick{Value: 0, Label: "Start"})
	for i, p := range tr.Events {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: fmt.Sprintf("R%d", p.Round)})
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Event",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(tr.Events))},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Range: &chart.ContinuousRange{Min: 0, Max: maxY},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

// renderPlaceholder draws a blank canvas with a message. A chart without
// series cannot be rendered, so the canvas is painted directly.
func renderPlaceholder(opts ChartOptions) ([]byte, error) {
	r, err := chart.PNG(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	w, h := opts.Width, opts.Height
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(w, 0)
	r.LineTo(w, h)
	r.LineTo(0, h)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(14)
	tb := r.MeasureText(noDataMessage)
	r.Text(noDataMessage, (w-tb.Width())/2, (h+tb.Height())/2)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("render placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// parseColor accepts #rgb and #rrggbb team colors.
func parseColor(s string) (drawing.Color, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.Color{}, false
	}
	for _, c := range strings.ToLower(hex) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return drawing.Color{}, false
		}
	}
	return drawing.ColorFromHex(hex), true
}
