package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/podium/internal/adapters/seasonfile"
	"github.com/okian/podium/pkg/logger"
)

// SeasonHandler handles whole-season requests.
type SeasonHandler struct {
	deps   SeasonDependencies
	logger logger.Logger
}

// NewSeasonHandler creates a new season handler.
func NewSeasonHandler(deps SeasonDependencies, log logger.Logger) *SeasonHandler {
	return &SeasonHandler{deps: deps, logger: log}
}

// HandleList handles GET /seasons.
func (h *SeasonHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_seasons"
	list, err := h.deps.ListSeasons(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleImport handles PUT /seasons/{season} with a season document body.
func (h *SeasonHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_season"
	res, err := h.deps.ImportSeason(r.Context(), chi.URLParam(r, "season"), r.Body)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleExport handles GET /seasons/{season}.
func (h *SeasonHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_season"
	season, err := h.deps.ExportSeason(r.Context(), chi.URLParam(r, "season"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := seasonfile.Encode(w, season); err != nil {
		h.logger.Warn(r.Context(), "writing season failed", logger.Error(err))
	}
}

// HandleDelete handles DELETE /seasons/{season}.
func (h *SeasonHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_season"
	if err := h.deps.DeleteSeason(r.Context(), chi.URLParam(r, "season")); err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
