package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/trend"
)

// Output formats accepted by --format.
const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func render(w io.Writer, t table.Writer, format string) error {
	var out string
	switch format {
	case FormatCSV:
		out = t.RenderCSV()
	case FormatMarkdown:
		out = t.RenderMarkdown()
	default:
		out = t.Render()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// bestFinish prints the no-finish sentinel as a dash.
func bestFinish(n int) string {
	if n == standings.NoFinish {
		return "-"
	}
	return fmt.Sprint(n)
}

func renderDrivers(w io.Writer, rows []standings.DriverRow, teams map[string]string, format string) error {
	t := newTable("Drivers")
	t.AppendHeader(table.Row{"Pos", "Driver", "Team", "Points", "Wins", "Podiums", "Best"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Position, r.Name, teams[r.TeamID], r.Points, r.Wins, r.Podiums, bestFinish(r.BestFinish)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	return render(w, t, format)
}

func renderTeams(w io.Writer, rows []standings.TeamRow, format string) error {
	t := newTable("Constructors")
	t.AppendHeader(table.Row{"Pos", "Team", "Points"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Position, r.Name, r.Points})
	}
	return render(w, t, format)
}

// renderTrend prints one row per ranked driver with the running total after
// every event, followed by the driver's summary.
func renderTrend(w io.Writer, rows []standings.DriverRow, tr trend.Trend, summaries map[string]trend.Summary, format string) error {
	t := newTable("Progression")
	header := table.Row{"Driver"}
	for _, p := range tr.Events {
		header = append(header, roundLabel(p))
	}
	header = append(header, "Avg", "Podiums", "DNF", "DNS")
	t.AppendHeader(header)

	for _, r := range rows {
		row := table.Row{r.Name}
		for _, v := range tr.Cumulative[r.DriverID] {
			row = append(row, v)
		}
		s := summaries[r.DriverID]
		avg := "-"
		if s.AverageFinish != nil {
			avg = fmt.Sprintf("%.2f", *s.AverageFinish)
		}
		row = append(row, avg, s.Podiums, s.DNFs, s.DNSs)
		t.AppendRow(row)
	}
	return render(w, t, format)
}

func roundLabel(p trend.Point) string {
	if p.Kind == model.Sprint {
		return fmt.Sprintf("R%d S", p.Round)
	}
	return fmt.Sprintf("R%d", p.Round)
}
