// Package cli implements podium-cli, the offline companion of the standings
// server: it renders standings from a season file, exports them, generates
// seed seasons and pushes seasons to a running server.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/okian/podium/internal/adapters/export"
	"github.com/okian/podium/internal/adapters/seasonfile"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/trend"
	"github.com/okian/podium/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0o644
)

const (
	defaultBaseURL = "http://localhost:9080"
	defaultTimeout = 30 * time.Second
)

// stdio is the file name that selects stdin or stdout.
const stdio = "-"

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "season document to read (- for stdin)",
		Required: true,
	}
}

func classifiedFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "classified-only",
		Usage: "count wins and podiums of finished results only",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: FormatTable,
		Usage: "output format: table, csv or markdown",
	}
}

// NewApp builds the podium-cli command tree.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "podium-cli",
		Usage: "season standings from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Value: "text", Usage: "text or json"},
		},
		Before: func(c *cli.Context) error {
			if err := logger.Init(logger.WithFormat(c.String("log-format")), logger.WithWriter(c.App.ErrWriter)); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return logger.SetLevelString(c.String("log-level"))
		},
		Commands: []*cli.Command{
			standingsCommand(),
			trendCommand(),
			exportCommand(),
			seedCommand(),
			pushCommand(),
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the drivers' and constructors' championships",
		Flags: []cli.Flag{fileFlag(), classifiedFlag(), formatFlag()},
		Action: func(c *cli.Context) error {
			format, err := parseFormat(c.String("format"))
			if err != nil {
				return err
			}
			season, err := loadSeason(c)
			if err != nil {
				return err
			}
			table := standings.Compute(season, standings.WithClassifiedOnly(c.Bool("classified-only")))
			if err := renderDrivers(c.App.Writer, table.Drivers, teamNames(season), format); err != nil {
				return err
			}
			return renderTeams(c.App.Writer, table.Teams, format)
		},
	}
}

func trendCommand() *cli.Command {
	return &cli.Command{
		Name:  "trend",
		Usage: "print cumulative points after every event",
		Flags: []cli.Flag{fileFlag(), classifiedFlag(), formatFlag()},
		Action: func(c *cli.Context) error {
			format, err := parseFormat(c.String("format"))
			if err != nil {
				return err
			}
			season, err := loadSeason(c)
			if err != nil {
				return err
			}
			classified := c.Bool("classified-only")
			table := standings.Compute(season, standings.WithClassifiedOnly(classified))
			byEvent := season.ResultsByEvent()
			tr := trend.Build(season.Drivers, season.Events, byEvent)
			summaries := trend.Summarize(season.Drivers, season.Events, byEvent, trend.WithClassifiedOnly(classified))
			return renderTrend(c.App.Writer, table.Drivers, tr, summaries, format)
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the standings workbook and progression chart",
		Flags: []cli.Flag{
			fileFlag(),
			classifiedFlag(),
			&cli.StringFlag{Name: "xlsx", Usage: "workbook output path"},
			&cli.StringFlag{Name: "png", Usage: "chart output path"},
			&cli.IntFlag{Name: "width", Value: export.DefaultChartOptions().Width, Usage: "chart width in pixels"},
			&cli.IntFlag{Name: "height", Value: export.DefaultChartOptions().Height, Usage: "chart height in pixels"},
		},
		Action: func(c *cli.Context) error {
			xlsxPath, pngPath := c.String("xlsx"), c.String("png")
			if xlsxPath == "" && pngPath == "" {
				return fmt.Errorf("nothing to export: set --xlsx and/or --png")
			}
			season, err := loadSeason(c)
			if err != nil {
				return err
			}
			table := standings.Compute(season, standings.WithClassifiedOnly(c.Bool("classified-only")))
			tr := trend.Build(season.Drivers, season.Events, season.ResultsByEvent())
			log := logger.Named("export")

			if xlsxPath != "" {
				data, err := export.Workbook(table, tr)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, data, outputFilePermission); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}
				log.Info(c.Context, "workbook written", logger.String("path", xlsxPath), logger.Int("bytes", len(data)))
			}
			if pngPath != "" {
				opts := export.DefaultChartOptions()
				opts.Width, opts.Height = c.Int("width"), c.Int("height")
				data, err := export.TrendChart(tr, rankedDrivers(table), season.Teams, opts)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, data, outputFilePermission); err != nil {
					return fmt.Errorf("failed to write chart: %w", err)
				}
				log.Info(c.Context, "chart written", logger.String("path", pngPath), logger.Int("bytes", len(data)))
			}
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	def := DefaultSeedOptions()
	return &cli.Command{
		Name:  "seed",
		Usage: "generate a reproducible random season",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "teams", Value: def.Teams},
			&cli.IntFlag{Name: "drivers", Value: def.Drivers},
			&cli.IntFlag{Name: "events", Value: def.Events, Usage: "grand prix rounds"},
			&cli.IntFlag{Name: "sprint-every", Value: def.SprintEvery, Usage: "add a sprint to every n-th round, 0 for none"},
			&cli.Uint64Flag{Name: "seed", Value: def.Seed},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: stdio, Usage: "output path (- for stdout)"},
		},
		Action: func(c *cli.Context) error {
			opts := def
			opts.Teams = c.Int("teams")
			opts.Drivers = c.Int("drivers")
			opts.Events = c.Int("events")
			opts.SprintEvery = c.Int("sprint-every")
			opts.Seed = c.Uint64("seed")

			season, err := GenerateSeason(opts)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == stdio {
				return seasonfile.Encode(c.App.Writer, season)
			}
			f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
			if err != nil {
				return fmt.Errorf("failed to create season file: %w", err)
			}
			if err := seasonfile.Encode(f, season); err != nil {
				_ = f.Close()
				return err
			}
			logger.Named("seed").Info(c.Context, "season generated",
				logger.String("path", out),
				logger.Int("drivers", len(season.Drivers)),
				logger.Int("events", len(season.Events)),
				logger.Int("results", len(season.Results)))
			return f.Close()
		},
	}
}

func pushCommand() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "upload a season to a server and verify its standings",
		Flags: []cli.Flag{
			fileFlag(),
			classifiedFlag(),
			&cli.StringFlag{Name: "url", Value: defaultBaseURL, Usage: "base URL of the server"},
			&cli.StringFlag{Name: "season", Required: true, Usage: "season id to overwrite"},
			&cli.DurationFlag{Name: "timeout", Value: defaultTimeout, Usage: "HTTP request timeout"},
		},
		Action: func(c *cli.Context) error {
			season, err := loadSeason(c)
			if err != nil {
				return err
			}
			report, err := Push(c.Context, PushConfig{
				BaseURL:        c.String("url"),
				SeasonID:       c.String("season"),
				Timeout:        c.Duration("timeout"),
				ClassifiedOnly: c.Bool("classified-only"),
			}, season)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.App.Writer, "pushed %s: %d drivers and %d teams verified in %s\n",
				c.String("season"), report.DriversCompared, report.TeamsCompared, report.Duration.Round(time.Millisecond))
			return err
		},
	}
}

// loadSeason reads --file and logs any repairs the normalizer applied.
func loadSeason(c *cli.Context) (model.Season, error) {
	path := c.String("file")
	var r io.Reader = c.App.Reader
	if path != stdio {
		f, err := os.Open(path)
		if err != nil {
			return model.Season{}, fmt.Errorf("failed to open season file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	season, report, err := seasonfile.Decode(r)
	if err != nil {
		return model.Season{}, err
	}
	if report.Repaired() {
		logger.Get().Warn(c.Context, "season file contained malformed results",
			logger.String("file", path),
			logger.Int("positionsRepaired", report.PositionsRepaired),
			logger.Int("statusesRepaired", report.StatusesRepaired),
			logger.Int("duplicatesDropped", report.DuplicatesDropped))
	}
	return season, nil
}

func teamNames(s model.Season) map[string]string {
	out := make(map[string]string, len(s.Teams))
	for _, t := range s.Teams {
		out[t.ID] = t.Name
	}
	return out
}

// rankedDrivers lists drivers in championship order, leaders first.
func rankedDrivers(t standings.Table) []model.Driver {
	out := make([]model.Driver, 0, len(t.Drivers))
	for _, r := range t.Drivers {
		out = append(out, model.Driver{ID: r.DriverID, Name: r.Name, Country: r.Country, TeamID: r.TeamID})
	}
	return out
}
