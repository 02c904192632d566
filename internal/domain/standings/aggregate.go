// Package standings folds scored events into season totals and ranks them
// into the drivers' and constructors' championships.
package standings

import (
	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/scoring"
)

// NoFinish is the BestFinish of a driver without any result.
const NoFinish = 99

// PodiumCutoff is the worst position counted as a podium.
const PodiumCutoff = 3

// Stats are the cumulative season statistics of one driver.
type Stats struct {
	Points          int   `json:"points"`
	Wins            int   `json:"wins"`
	Podiums         int   `json:"podiums"`
	BestFinish      int   `json:"bestFinish"`
	FinishPositions []int `json:"finishPositions"`
}

// Totals is the result of an aggregation pass.
type Totals struct {
	DriverStats map[string]Stats `json:"driverStats"`
	TeamPoints  map[string]int   `json:"teamPoints"`
}

// Aggregate scores every event of season and accumulates per-driver stats
// and per-team points. Results referring to drivers or events that are not
// in the season contribute nothing. Point totals do not depend on event
// order; FinishPositions follow round order.
func Aggregate(season model.Season, opts ...Option) Totals {
	p := newPolicy(opts)

	drivers := make(map[string]model.Driver, len(season.Drivers))
	stats := make(map[string]*Stats, len(season.Drivers))
	for _, d := range season.Drivers {
		drivers[d.ID] = d
		stats[d.ID] = &Stats{BestFinish: NoFinish, FinishPositions: []int{}}
	}
	teamPoints := make(map[string]int, len(season.Teams))
	for _, t := range season.Teams {
		teamPoints[t.ID] = 0
	}

	byEvent := season.ResultsByEvent()
	events, _ := dedupe.LastWins(season.Events, func(e model.Event) string { return e.ID })
	for _, ev := range model.ByRound(events) {
		for _, o := range scoring.ScoreEvent(ev, byEvent[ev.ID]) {
			st, ok := stats[o.DriverID]
			if !ok {
				continue
			}
			st.Points += o.Points
			if p.counts(o) {
				if o.Position == 1 {
					st.Wins++
				}
				if o.Position <= PodiumCutoff {
					st.Podiums++
				}
			}
			st.BestFinish = min(st.BestFinish, o.Position)
			st.FinishPositions = append(st.FinishPositions, o.Position)

			if teamID := drivers[o.DriverID].TeamID; teamID != "" {
				if _, known := teamPoints[teamID]; known {
					teamPoints[teamID] += o.Points
				}
			}
		}
	}

	out := Totals{
		DriverStats: make(map[string]Stats, len(stats)),
		TeamPoints:  teamPoints,
	}
	for id, st := range stats {
		out.DriverStats[id] = *st
	}
	return out
}

func (p policy) counts(o scoring.Outcome) bool {
	return !p.classifiedOnly || o.Status.Classified()
}
