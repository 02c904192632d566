package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/podium/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves rendered exports.
type ExportHandler struct {
	deps   ExportDependencies
	logger logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies, log logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, logger: log}
}

// HandleWorkbook handles GET /seasons/{season}/export.xlsx.
func (h *ExportHandler) HandleWorkbook(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_workbook"
	seasonID := chi.URLParam(r, "season")
	data, err := h.deps.StandingsWorkbook(r.Context(), seasonID)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", seasonID+"-standings.xlsx"))
	h.writeBinary(w, r, xlsxContentType, data)
}

// HandleChart handles GET /seasons/{season}/trend.png.
func (h *ExportHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.trend_chart"
	data, err := h.deps.TrendChart(r.Context(), chi.URLParam(r, "season"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	h.writeBinary(w, r, "image/png", data)
}

func (h *ExportHandler) writeBinary(w http.ResponseWriter, r *http.Request, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn(r.Context(), "writing export failed", logger.Error(err))
	}
}
