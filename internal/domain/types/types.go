// Package types contains the response shapes shared by the service and its transports.
package types

import (
	"github.com/okian/podium/internal/domain/normalize"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/trend"
)

// DriverStats is a driver's championship line plus the analytic summary.
type DriverStats struct {
	standings.DriverRow
	Summary trend.Summary `json:"summary"`
}

// Progression is the cumulative trend plus every driver's summary.
type Progression struct {
	trend.Trend
	Summaries map[string]trend.Summary `json:"summaries"`
}

// ReplaceResult reports the outcome of replacing an event's result grid.
type ReplaceResult struct {
	SeasonID string           `json:"seasonId"`
	EventID  string           `json:"eventId"`
	Accepted int              `json:"accepted"`
	Report   normalize.Report `json:"report"`
}

// ImportResult reports the outcome of importing a season document.
type ImportResult struct {
	SeasonID string           `json:"seasonId"`
	Teams    int              `json:"teams"`
	Drivers  int              `json:"drivers"`
	Events   int              `json:"events"`
	Results  int              `json:"results"`
	Report   normalize.Report `json:"report"`
}

// SeasonList enumerates stored season ids.
type SeasonList struct {
	Seasons []string `json:"seasons"`
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
