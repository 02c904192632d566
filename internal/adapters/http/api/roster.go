package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/podium/internal/adapters/seasonfile"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/logger"
)

// RosterHandler handles team, driver and event maintenance.
type RosterHandler struct {
	deps   RosterDependencies
	logger logger.Logger
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies, log logger.Logger) *RosterHandler {
	return &RosterHandler{deps: deps, logger: log}
}

// HandleUpsertTeam handles PUT /seasons/{season}/teams.
func (h *RosterHandler) HandleUpsertTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_team"
	var team model.Team
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		writeFailure(r.Context(), w, h.logger, op, WrapKind("decode", ErrBadRequest, err))
		return
	}
	stored, err := h.deps.UpsertTeam(r.Context(), chi.URLParam(r, "season"), team)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleUpsertDriver handles PUT /seasons/{season}/drivers.
func (h *RosterHandler) HandleUpsertDriver(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_driver"
	var driver model.Driver
	if err := json.NewDecoder(r.Body).Decode(&driver); err != nil {
		writeFailure(r.Context(), w, h.logger, op, WrapKind("decode", ErrBadRequest, err))
		return
	}
	stored, err := h.deps.UpsertDriver(r.Context(), chi.URLParam(r, "season"), driver)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleUpsertEvent handles PUT /seasons/{season}/events.
func (h *RosterHandler) HandleUpsertEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_event"
	event, err := seasonfile.DecodeEvent(r.Body)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	stored, err := h.deps.UpsertEvent(r.Context(), chi.URLParam(r, "season"), event)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// HandleDeleteTeam handles DELETE /seasons/{season}/teams/{id}.
func (h *RosterHandler) HandleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, "api.delete_team", h.deps.DeleteTeam)
}

// HandleDeleteDriver handles DELETE /seasons/{season}/drivers/{id}.
func (h *RosterHandler) HandleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, "api.delete_driver", h.deps.DeleteDriver)
}

// HandleDeleteEvent handles DELETE /seasons/{season}/events/{id}.
func (h *RosterHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, "api.delete_event", h.deps.DeleteEvent)
}

func (h *RosterHandler) handleDelete(w http.ResponseWriter, r *http.Request, op string, del func(ctx context.Context, seasonID, id string) error) {
	if err := del(r.Context(), chi.URLParam(r, "season"), chi.URLParam(r, "id")); err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
