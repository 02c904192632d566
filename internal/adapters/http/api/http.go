// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/podium/internal/adapters/http/swagger"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

const defaultMaxRequestBytes = 1 << 20

// SeasonDependencies covers whole-season operations.
type SeasonDependencies interface {
	ImportSeason(ctx context.Context, seasonID string, r io.Reader) (types.ImportResult, error)
	ExportSeason(ctx context.Context, seasonID string) (model.Season, error)
	DeleteSeason(ctx context.Context, seasonID string) error
	ListSeasons(ctx context.Context) (types.SeasonList, error)
}

// RosterDependencies covers team, driver and event maintenance.
type RosterDependencies interface {
	UpsertTeam(ctx context.Context, seasonID string, team model.Team) (model.Team, error)
	UpsertDriver(ctx context.Context, seasonID string, driver model.Driver) (model.Driver, error)
	UpsertEvent(ctx context.Context, seasonID string, event model.Event) (model.Event, error)
	DeleteTeam(ctx context.Context, seasonID, teamID string) error
	DeleteDriver(ctx context.Context, seasonID, driverID string) error
	DeleteEvent(ctx context.Context, seasonID, eventID string) error
}

// ResultsDependencies covers result grid replacement.
type ResultsDependencies interface {
	ReplaceEventResults(ctx context.Context, seasonID, eventID string, raw []model.RawResult) (types.ReplaceResult, error)
}

// StandingsDependencies covers the computed reads.
type StandingsDependencies interface {
	Standings(ctx context.Context, seasonID string) (standings.Table, error)
	DriverStats(ctx context.Context, seasonID, driverID string) (types.DriverStats, error)
	Trend(ctx context.Context, seasonID string) (types.Progression, error)
}

// ExportDependencies covers rendered exports.
type ExportDependencies interface {
	StandingsWorkbook(ctx context.Context, seasonID string) ([]byte, error)
	TrendChart(ctx context.Context, seasonID string) ([]byte, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SeasonDependencies
	RosterDependencies
	ResultsDependencies
	StandingsDependencies
	ExportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	seasonHandler    *SeasonHandler
	rosterHandler    *RosterHandler
	resultsHandler   *ResultsHandler
	standingsHandler *StandingsHandler
	exportHandler    *ExportHandler

	maxRequestBytes int64
	logger          logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxRequestBytes caps request bodies; larger bodies get 413.
func WithMaxRequestBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRequestBytes = n
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxRequestBytes: defaultMaxRequestBytes,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.seasonHandler = NewSeasonHandler(deps, s.logger)
	s.rosterHandler = NewRosterHandler(deps, s.logger)
	s.resultsHandler = NewResultsHandler(deps, s.logger)
	s.standingsHandler = NewStandingsHandler(deps, s.logger)
	s.exportHandler = NewExportHandler(deps, s.logger)
	return s
}

// Routes builds the chi router with every endpoint mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(BodyLimit(s.maxRequestBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
	})

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	swagger.Register(r)

	r.Get("/seasons", s.seasonHandler.HandleList)
	r.Route("/seasons/{season}", func(r chi.Router) {
		r.Put("/", s.seasonHandler.HandleImport)
		r.Get("/", s.seasonHandler.HandleExport)
		r.Delete("/", s.seasonHandler.HandleDelete)

		r.Put("/teams", s.rosterHandler.HandleUpsertTeam)
		r.Put("/drivers", s.rosterHandler.HandleUpsertDriver)
		r.Put("/events", s.rosterHandler.HandleUpsertEvent)
		r.Delete("/teams/{id}", s.rosterHandler.HandleDeleteTeam)
		r.Delete("/drivers/{id}", s.rosterHandler.HandleDeleteDriver)
		r.Delete("/events/{id}", s.rosterHandler.HandleDeleteEvent)

		r.Put("/events/{event}/results", s.resultsHandler.HandleReplace)

		r.Get("/standings/drivers", s.standingsHandler.HandleDrivers)
		r.Get("/standings/teams", s.standingsHandler.HandleTeams)
		r.Get("/drivers/{driver}/stats", s.standingsHandler.HandleDriverStats)
		r.Get("/trend", s.standingsHandler.HandleTrend)

		r.Get("/export.xlsx", s.exportHandler.HandleWorkbook)
		r.Get("/trend.png", s.exportHandler.HandleChart)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status code and logs server-side failures.
func writeFailure(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, status, code, Wrap(op, errors.New("internal error")))
		return
	}
	writeError(w, status, code, Wrap(op, err))
}
