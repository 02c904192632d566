// Package model contains the season entities passed between layers.
package model

import "strings"

// EventKind distinguishes full races from shortened sprint races.
type EventKind string

const (
	GrandPrix EventKind = "GrandPrix"
	Sprint    EventKind = "Sprint"
)

// ParseEventKind maps a loosely spelled kind to an EventKind.
// Unknown or empty values are treated as GrandPrix.
func ParseEventKind(s string) EventKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sprint", "sprintrace", "sprint_race":
		return Sprint
	default:
		return GrandPrix
	}
}

// Event is one competition event of a season.
type Event struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Round int       `json:"round"` // chronological order, not unique
	Date  string    `json:"date,omitempty"`
	Kind  EventKind `json:"kind"`
}

// Status is the finishing status of a result.
type Status string

const (
	Finished     Status = "Finished"
	DidNotFinish Status = "DNF"
	DidNotStart  Status = "DNS"
)

// ParseStatus returns the Status for s and whether s named a known status.
// The long spellings DidNotFinish and DidNotStart are accepted as aliases.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "finished":
		return Finished, true
	case "dnf", "didnotfinish":
		return DidNotFinish, true
	case "dns", "didnotstart":
		return DidNotStart, true
	default:
		return Finished, false
	}
}

// Classified reports whether the status is eligible for base points.
func (s Status) Classified() bool { return s == Finished }

// ResultEntry is a validated result of one driver in one event.
// (EventID, DriverID) is the natural key.
type ResultEntry struct {
	EventID    string `json:"eventId"`
	DriverID   string `json:"driverId"`
	Position   int    `json:"position"` // always >= 1
	Status     Status `json:"status"`
	FastestLap bool   `json:"fastestLap"`
}

// RawResult is a result record as it arrives from outside: position and
// fastest lap keep whatever JSON shape the caller sent.
type RawResult struct {
	EventID    string `json:"eventId"`
	DriverID   string `json:"driverId"`
	Position   any    `json:"position,omitempty"`
	Status     string `json:"status,omitempty"`
	FastestLap any    `json:"fastestLap,omitempty"`
}
