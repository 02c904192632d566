package cli

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/normalize"
)

// Seed bounds.
const (
	maxSeedTeams   = 20
	maxSeedDrivers = 40
	maxSeedEvents  = 30
)

// Result distribution, in percent.
const (
	dnfChance = 8
	dnsChance = 2
)

const eventSpacing = 14 * 24 * time.Hour

// SeedOptions shape a generated season.
type SeedOptions struct {
	Teams   int
	Drivers int
	Events  int
	// SprintEvery adds a sprint before every n-th grand prix. Zero disables sprints.
	SprintEvery int
	Seed        uint64
	Start       time.Time
}

// DefaultSeedOptions returns a small ten driver season.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		Teams:       5,
		Drivers:     10,
		Events:      8,
		SprintEvery: 3,
		Seed:        1,
		Start:       time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (o SeedOptions) validate() error {
	switch {
	case o.Teams < 0 || o.Teams > maxSeedTeams:
		return fmt.Errorf("%w: teams must be within 0..%d", ErrInvalidSeed, maxSeedTeams)
	case o.Drivers < 1 || o.Drivers > maxSeedDrivers:
		return fmt.Errorf("%w: drivers must be within 1..%d", ErrInvalidSeed, maxSeedDrivers)
	case o.Events < 0 || o.Events > maxSeedEvents:
		return fmt.Errorf("%w: events must be within 0..%d", ErrInvalidSeed, maxSeedEvents)
	case o.SprintEvery < 0:
		return fmt.Errorf("%w: sprint-every must not be negative", ErrInvalidSeed)
	}
	return nil
}

// GenerateSeason builds a random season with complete result grids. The same
// options always produce the same season.
func GenerateSeason(o SeedOptions) (model.Season, error) {
	if err := o.validate(); err != nil {
		return model.Season{}, err
	}
	f := gofakeit.New(o.Seed)

	var s model.Season
	for i := 0; i < o.Teams; i++ {
		s.Teams = append(s.Teams, model.Team{
			ID:    f.UUID(),
			Name:  f.LastName() + " Racing",
			Color: f.HexColor(),
		})
	}
	for i := 0; i < o.Drivers; i++ {
		d := model.Driver{
			ID:      f.UUID(),
			Name:    f.FirstName() + " " + f.LastName(),
			Country: f.CountryAbr(),
		}
		// Two seats per team, the rest race unaffiliated.
		if t := i / 2; t < len(s.Teams) {
			d.TeamID = s.Teams[t].ID
		}
		s.Drivers = append(s.Drivers, d)
	}

	for round := 1; round <= o.Events; round++ {
		city := f.City()
		date := o.Start.Add(time.Duration(round-1) * eventSpacing).Format(time.DateOnly)
		if o.SprintEvery > 0 && round%o.SprintEvery == 0 {
			s.Events = append(s.Events, model.Event{
				ID: f.UUID(), Name: city + " Sprint", Round: round, Date: date, Kind: model.Sprint,
			})
		}
		s.Events = append(s.Events, model.Event{
			ID: f.UUID(), Name: city + " Grand Prix", Round: round, Date: date, Kind: model.GrandPrix,
		})
	}

	for _, e := range s.Events {
		s.Results = append(s.Results, grid(f, e, s.Drivers)...)
	}
	normalize.Sort(s.Results)
	return s, nil
}

// grid shuffles the drivers into a finishing order. Grand prix grids get a
// fastest lap claim for one random driver.
func grid(f *gofakeit.Faker, e model.Event, drivers []model.Driver) []model.ResultEntry {
	order := make([]int, len(drivers))
	for i := range order {
		order[i] = i
	}
	f.ShuffleInts(order)

	fastest := -1
	if e.Kind == model.GrandPrix {
		fastest = f.Number(0, len(order)-1)
	}

	out := make([]model.ResultEntry, 0, len(order))
	for pos, idx := range order {
		status := model.Finished
		switch roll := f.Number(1, 100); {
		case roll <= dnsChance:
			status = model.DidNotStart
		case roll <= dnsChance+dnfChance:
			status = model.DidNotFinish
		}
		out = append(out, model.ResultEntry{
			EventID:    e.ID,
			DriverID:   drivers[idx].ID,
			Position:   pos + 1,
			Status:     status,
			FastestLap: pos == fastest,
		})
	}
	return out
}
