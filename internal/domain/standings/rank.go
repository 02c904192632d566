package standings

import (
	"cmp"
	"slices"

	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
)

// DriverRow is one line of the drivers' championship.
type DriverRow struct {
	Position int    `json:"position"`
	DriverID string `json:"driverId"`
	Name     string `json:"name"`
	Country  string `json:"country,omitempty"`
	TeamID   string `json:"teamId,omitempty"`
	Stats
}

// TeamRow is one line of the constructors' championship.
type TeamRow struct {
	Position int    `json:"position"`
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Points   int    `json:"points"`
}

// Table bundles both ranked championships with the totals they came from.
type Table struct {
	Drivers []DriverRow `json:"drivers"`
	Teams   []TeamRow   `json:"teams"`
	Totals  Totals      `json:"-"`
}

// Compute aggregates season and ranks the result.
func Compute(season model.Season, opts ...Option) Table {
	totals := Aggregate(season, opts...)
	return Table{
		Drivers: RankDrivers(season.Drivers, totals.DriverStats),
		Teams:   RankTeams(season.Teams, totals.TeamPoints),
		Totals:  totals,
	}
}

// RankDrivers orders drivers by points, wins and podiums (desc), then best
// finish (asc), then name and id (asc). Drivers missing from stats rank with
// empty stats.
func RankDrivers(drivers []model.Driver, stats map[string]Stats) []DriverRow {
	roster, _ := dedupe.LastWins(drivers, func(d model.Driver) string { return d.ID })

	rows := make([]DriverRow, len(roster))
	for i, d := range roster {
		st, ok := stats[d.ID]
		if !ok {
			st = Stats{BestFinish: NoFinish, FinishPositions: []int{}}
		}
		rows[i] = DriverRow{DriverID: d.ID, Name: d.Name, Country: d.Country, TeamID: d.TeamID, Stats: st}
	}

	slices.SortFunc(rows, compareDrivers)
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

func compareDrivers(a, b DriverRow) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Podiums, a.Podiums); c != 0 {
		return c
	}
	if c := cmp.Compare(a.BestFinish, b.BestFinish); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.DriverID, b.DriverID)
}

// RankTeams orders teams by points (desc), then name and id (asc).
func RankTeams(teams []model.Team, teamPoints map[string]int) []TeamRow {
	roster, _ := dedupe.LastWins(teams, func(t model.Team) string { return t.ID })

	rows := make([]TeamRow, len(roster))
	for i, t := range roster {
		rows[i] = TeamRow{TeamID: t.ID, Name: t.Name, Color: t.Color, Points: teamPoints[t.ID]}
	}

	slices.SortFunc(rows, func(a, b TeamRow) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

// Driver returns the row of driverID and whether it is ranked.
func (t Table) Driver(driverID string) (DriverRow, bool) {
	for _, r := range t.Drivers {
		if r.DriverID == driverID {
			return r, true
		}
	}
	return DriverRow{}, false
}
