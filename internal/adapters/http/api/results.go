package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/podium/internal/adapters/seasonfile"
	"github.com/okian/podium/pkg/logger"
)

// ResultsHandler handles result grid replacement.
type ResultsHandler struct {
	deps   ResultsDependencies
	logger logger.Logger
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies, log logger.Logger) *ResultsHandler {
	return &ResultsHandler{deps: deps, logger: log}
}

// HandleReplace handles PUT /seasons/{season}/events/{event}/results. The
// body is the complete grid of the event; previous results are dropped.
func (h *ResultsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_results"
	raw, err := seasonfile.DecodeResults(r.Body)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	res, err := h.deps.ReplaceEventResults(r.Context(), chi.URLParam(r, "season"), chi.URLParam(r, "event"), raw)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
