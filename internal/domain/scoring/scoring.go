// Package scoring turns one event's result grid into per-driver outcomes.
package scoring

import (
	"cmp"
	"slices"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/points"
)

// Outcome is the scored result of a single driver in a single event.
type Outcome struct {
	DriverID          string       `json:"driverId"`
	Points            int          `json:"points"`
	BasePoints        int          `json:"basePoints"`
	Position          int          `json:"position"`
	Status            model.Status `json:"status"`
	FastestLapApplied bool         `json:"fastestLapApplied"`
}

// ScoreEvent scores entries of event. Entries are sorted by position
// (driver id on ties) before scoring; input order is not trusted.
// Unknown driver ids pass through untouched.
func ScoreEvent(event model.Event, entries []model.ResultEntry) []Outcome {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]model.ResultEntry, len(entries))
	copy(sorted, entries)
	slices.SortStableFunc(sorted, func(a, b model.ResultEntry) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.DriverID, b.DriverID)
	})

	out := make([]Outcome, len(sorted))
	for i, e := range sorted {
		base := 0
		if e.Status.Classified() {
			base = points.ForPosition(e.Position, event.Kind)
		}
		bonus := FastestLapEligible(event.Kind, e)
		total := base
		if bonus {
			total += points.FastestLapBonus
		}
		out[i] = Outcome{
			DriverID:          e.DriverID,
			Points:            total,
			BasePoints:        base,
			Position:          e.Position,
			Status:            e.Status,
			FastestLapApplied: bonus,
		}
	}
	return out
}

// FastestLapEligible reports whether e earns the fastest-lap bonus in an
// event of the given kind. Finishing status is not considered.
func FastestLapEligible(kind model.EventKind, e model.ResultEntry) bool {
	return kind == model.GrandPrix && e.FastestLap && e.Position <= points.FastestLapCutoff
}

// Total sums the points of outcomes.
func Total(outcomes []Outcome) int {
	sum := 0
	for _, o := range outcomes {
		sum += o.Points
	}
	return sum
}
