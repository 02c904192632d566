package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/podium/pkg/logger"
)

// StandingsHandler handles the computed championship reads.
type StandingsHandler struct {
	deps   StandingsDependencies
	logger logger.Logger
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies, log logger.Logger) *StandingsHandler {
	return &StandingsHandler{deps: deps, logger: log}
}

// HandleDrivers handles GET /seasons/{season}/standings/drivers?limit=N.
// Without limit every driver is returned.
func (h *StandingsHandler) HandleDrivers(w http.ResponseWriter, r *http.Request) {
	const op = "api.driver_standings"
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, codeBadRequest, NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	table, err := h.deps.Standings(r.Context(), chi.URLParam(r, "season"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	rows := table.Drivers
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleTeams handles GET /seasons/{season}/standings/teams.
func (h *StandingsHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_standings"
	table, err := h.deps.Standings(r.Context(), chi.URLParam(r, "season"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, table.Teams)
}

// HandleDriverStats handles GET /seasons/{season}/drivers/{driver}/stats.
func (h *StandingsHandler) HandleDriverStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.driver_stats"
	stats, err := h.deps.DriverStats(r.Context(), chi.URLParam(r, "season"), chi.URLParam(r, "driver"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleTrend handles GET /seasons/{season}/trend.
func (h *StandingsHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.trend"
	p, err := h.deps.Trend(r.Context(), chi.URLParam(r, "season"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
