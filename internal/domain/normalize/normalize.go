// Package normalize is the single gate between untrusted result records and
// the typed scoring core. Every function here is total: malformed input is
// repaired, never rejected.
package normalize

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
)

// Report counts the repairs applied during one Normalize call.
type Report struct {
	Total             int `json:"total"`
	PositionsRepaired int `json:"positionsRepaired"`
	StatusesRepaired  int `json:"statusesRepaired"`
	DuplicatesDropped int `json:"duplicatesDropped"`
}

// Repaired reports whether anything had to be coerced or dropped.
func (r Report) Repaired() bool {
	return r.PositionsRepaired+r.StatusesRepaired+r.DuplicatesDropped > 0
}

// Normalize converts raw records into canonical result entries ordered by
// event id, position and driver id.
func Normalize(raw []model.RawResult) []model.ResultEntry {
	out, _ := NormalizeWithReport(raw)
	return out
}

// NormalizeWithReport is Normalize plus a summary of what was repaired.
// When the same (event, driver) pair appears more than once the last record wins.
func NormalizeWithReport(raw []model.RawResult) ([]model.ResultEntry, Report) {
	rep := Report{Total: len(raw)}

	unique, dropped := dedupe.LastWins(raw, func(r model.RawResult) string {
		return dedupe.Key(r.EventID, r.DriverID)
	})
	rep.DuplicatesDropped = dropped

	out := make([]model.ResultEntry, 0, len(unique))
	for _, r := range unique {
		pos, ok := Position(r.Position)
		if !ok {
			rep.PositionsRepaired++
		}
		status, known := model.ParseStatus(r.Status)
		if !known {
			rep.StatusesRepaired++
		}
		out = append(out, model.ResultEntry{
			EventID:    r.EventID,
			DriverID:   r.DriverID,
			Position:   pos,
			Status:     status,
			FastestLap: Truthy(r.FastestLap),
		})
	}

	Sort(out)
	return out, rep
}

// Sort orders entries by event id, then position, then driver id.
func Sort(entries []model.ResultEntry) {
	slices.SortStableFunc(entries, func(a, b model.ResultEntry) int {
		if c := cmp.Compare(a.EventID, b.EventID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.DriverID, b.DriverID)
	})
}

// Raw converts canonical entries back into raw records.
// Normalize(Raw(x)) == x for any normalized x.
func Raw(entries []model.ResultEntry) []model.RawResult {
	out := make([]model.RawResult, len(entries))
	for i, e := range entries {
		out[i] = model.RawResult{
			EventID:    e.EventID,
			DriverID:   e.DriverID,
			Position:   e.Position,
			Status:     string(e.Status),
			FastestLap: e.FastestLap,
		}
	}
	return out
}

// Position coerces a raw position into a value >= 1. The boolean is false
// when v was not already a clean positive integer.
func Position(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return clampPosition(int64(x), true)
	case int64:
		return clampPosition(x, true)
	case int32:
		return clampPosition(int64(x), true)
	case float64:
		return floatPosition(x)
	case float32:
		return floatPosition(float64(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return clampPosition(n, true)
		}
		if f, err := x.Float64(); err == nil {
			return floatPosition(f)
		}
		return 1, false
	case string:
		return stringPosition(x)
	default:
		return 1, false
	}
}

func clampPosition(n int64, clean bool) (int, bool) {
	if n < 1 {
		return 1, false
	}
	if n > math.MaxInt32 {
		return math.MaxInt32, false
	}
	return int(n), clean
}

func floatPosition(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 1, false
	}
	t := math.Trunc(f)
	if t > math.MaxInt32 {
		return math.MaxInt32, false
	}
	return clampPosition(int64(t), t == f)
}

// stringPosition parses the leading integer of s, so "3rd" reads as 3.
func stringPosition(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 1, false
	}
	return clampPosition(n, end == len(s))
}

// Truthy coerces a raw flag into a boolean.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "0", "no", "off":
			return false
		}
		return true
	default:
		return true
	}
}
