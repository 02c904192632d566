// Package seasonfile reads and writes season documents as JSON.
//
// Decode is the entry point for untrusted season data: every result passes
// through the normalizer before it reaches the domain.
package seasonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/normalize"
)

// ErrDecode is returned when a season document is not valid JSON.
var ErrDecode = errors.New("decode season document")

type rawEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Round int    `json:"round"`
	Date  string `json:"date,omitempty"`
	Kind  string `json:"kind"`
}

type document struct {
	Teams   []model.Team      `json:"teams"`
	Drivers []model.Driver    `json:"drivers"`
	Events  []rawEvent        `json:"events"`
	Results []model.RawResult `json:"results"`
}

// Decode reads a season document from r and normalizes its results.
func Decode(r io.Reader) (model.Season, normalize.Report, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return model.Season{}, normalize.Report{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	season, rep := FromRaw(doc.Teams, doc.Drivers, toEvents(doc.Events), doc.Results)
	return season, rep, nil
}

// FromRaw assembles a season from already decoded parts.
func FromRaw(teams []model.Team, drivers []model.Driver, events []model.Event, raw []model.RawResult) (model.Season, normalize.Report) {
	results, rep := normalize.NormalizeWithReport(raw)
	return model.Season{
		Teams:   teams,
		Drivers: drivers,
		Events:  events,
		Results: results,
	}, rep
}

func toEvents(in []rawEvent) []model.Event {
	if in == nil {
		return nil
	}
	out := make([]model.Event, len(in))
	for i, e := range in {
		out[i] = model.Event{
			ID:    e.ID,
			Name:  e.Name,
			Round: e.Round,
			Date:  e.Date,
			Kind:  model.ParseEventKind(e.Kind),
		}
	}
	return out
}

// DecodeEvent reads a single event, parsing its kind leniently.
func DecodeEvent(r io.Reader) (model.Event, error) {
	var e rawEvent
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return model.Event{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return toEvents([]rawEvent{e})[0], nil
}

// DecodeResults reads a JSON array of raw result records.
func DecodeResults(r io.Reader) ([]model.RawResult, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []model.RawResult
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return raw, nil
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s model.Season) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
