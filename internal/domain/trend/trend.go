// Package trend builds per-round season progressions and per-driver summaries.
package trend

import (
	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/scoring"
)

// Point is one column of the progression.
type Point struct {
	EventID string          `json:"eventId"`
	Name    string          `json:"name"`
	Round   int             `json:"round"`
	Kind    model.EventKind `json:"kind"`
}

// Trend holds the cumulative points of every driver after each event, in
// round order. Cumulative[id][i] is the running total after Events[i].
type Trend struct {
	Rounds     []int            `json:"rounds"`
	Events     []Point          `json:"events"`
	Cumulative map[string][]int `json:"cumulative"`
}

// Summary is the per-driver analytic line.
type Summary struct {
	Results       int      `json:"results"`
	AverageFinish *float64 `json:"averageFinish"` // nil when there are no results
	Podiums       int      `json:"podiums"`
	DNFs          int      `json:"dnfs"`
	DNSs          int      `json:"dnss"`
}

// Option applies a configuration option to Summarize.
type Option func(*options)

type options struct {
	classifiedOnly bool
}

// WithClassifiedOnly counts podiums only for Finished results.
func WithClassifiedOnly(enabled bool) Option {
	return func(o *options) {
		o.classifiedOnly = enabled
	}
}

// Build scores events in round order and accumulates each driver's points.
// A driver without a result in an event carries the previous total forward.
func Build(drivers []model.Driver, events []model.Event, resultsByEvent map[string][]model.ResultEntry) Trend {
	ordered := orderedEvents(events)

	t := Trend{
		Rounds:     make([]int, len(ordered)),
		Events:     make([]Point, len(ordered)),
		Cumulative: make(map[string][]int, len(drivers)),
	}
	running := make(map[string]int, len(drivers))
	for _, d := range drivers {
		running[d.ID] = 0
		t.Cumulative[d.ID] = make([]int, len(ordered))
	}

	for i, ev := range ordered {
		t.Rounds[i] = ev.Round
		t.Events[i] = Point{EventID: ev.ID, Name: ev.Name, Round: ev.Round, Kind: ev.Kind}
		for _, o := range scoring.ScoreEvent(ev, resultsByEvent[ev.ID]) {
			if _, ok := running[o.DriverID]; ok {
				running[o.DriverID] += o.Points
			}
		}
		for id, total := range running {
			t.Cumulative[id][i] = total
		}
	}
	return t
}

// Summarize computes average finish, podium, DNF and DNS counts per driver
// over every event with a recorded position, whatever its status.
func Summarize(drivers []model.Driver, events []model.Event, resultsByEvent map[string][]model.ResultEntry, opts ...Option) map[string]Summary {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	sums := make(map[string]int, len(drivers))
	out := make(map[string]Summary, len(drivers))
	for _, d := range drivers {
		out[d.ID] = Summary{}
	}

	for _, ev := range orderedEvents(events) {
		for _, r := range resultsByEvent[ev.ID] {
			s, ok := out[r.DriverID]
			if !ok {
				continue
			}
			s.Results++
			sums[r.DriverID] += r.Position
			if r.Position <= 3 && (!o.classifiedOnly || r.Status.Classified()) {
				s.Podiums++
			}
			switch r.Status {
			case model.DidNotFinish:
				s.DNFs++
			case model.DidNotStart:
				s.DNSs++
			}
			out[r.DriverID] = s
		}
	}

	for id, s := range out {
		if s.Results > 0 {
			avg := float64(sums[id]) / float64(s.Results)
			s.AverageFinish = &avg
			out[id] = s
		}
	}
	return out
}

// Final returns the last cumulative value of driverID, or 0.
func (t Trend) Final(driverID string) int {
	series := t.Cumulative[driverID]
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

func orderedEvents(events []model.Event) []model.Event {
	unique, _ := dedupe.LastWins(events, func(e model.Event) string { return e.ID })
	return model.ByRound(unique)
}
