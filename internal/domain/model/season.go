package model

import (
	"cmp"
	"slices"
)

// Team is a constructor. It has no behavior of its own.
type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Driver is a competitor. TeamID is empty for unaffiliated drivers.
type Driver struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	TeamID  string `json:"teamId,omitempty"`
}

// Season is the immutable snapshot a single computation pass works on.
type Season struct {
	Teams   []Team        `json:"teams"`
	Drivers []Driver      `json:"drivers"`
	Events  []Event       `json:"events"`
	Results []ResultEntry `json:"results"`
}

// Clone returns a deep copy of s.
func (s Season) Clone() Season {
	return Season{
		Teams:   append([]Team(nil), s.Teams...),
		Drivers: append([]Driver(nil), s.Drivers...),
		Events:  append([]Event(nil), s.Events...),
		Results: append([]ResultEntry(nil), s.Results...),
	}
}

// ResultsByEvent groups results by event id, preserving input order within each group.
func (s Season) ResultsByEvent() map[string][]ResultEntry {
	out := make(map[string][]ResultEntry, len(s.Events))
	for _, r := range s.Results {
		out[r.EventID] = append(out[r.EventID], r)
	}
	return out
}

// ReplaceEventResults returns a copy of s where every result of eventID is
// replaced by entries. Entries are stamped with eventID.
func (s Season) ReplaceEventResults(eventID string, entries []ResultEntry) Season {
	out := s.Clone()
	kept := out.Results[:0]
	for _, r := range out.Results {
		if r.EventID != eventID {
			kept = append(kept, r)
		}
	}
	for _, e := range entries {
		e.EventID = eventID
		kept = append(kept, e)
	}
	out.Results = kept
	return out
}

// Team returns the team with id and whether it exists.
func (s Season) Team(id string) (Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Driver returns the driver with id and whether it exists.
func (s Season) Driver(id string) (Driver, bool) {
	for _, d := range s.Drivers {
		if d.ID == id {
			return d, true
		}
	}
	return Driver{}, false
}

// Event returns the event with id and whether it exists.
func (s Season) Event(id string) (Event, bool) {
	for _, e := range s.Events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// ByRound returns events ordered by round ascending. Events sharing a round
// keep their input order.
func ByRound(events []Event) []Event {
	out := append([]Event(nil), events...)
	slices.SortStableFunc(out, func(a, b Event) int {
		return cmp.Compare(a.Round, b.Round)
	})
	return out
}
