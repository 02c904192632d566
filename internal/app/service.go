// Package service provides the season service behind the HTTP API and CLI.
//
// Every read loads a snapshot from the store and recomputes standings from
// scratch. Nothing derived is cached.
package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/adapters/export"
	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/adapters/seasonfile"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/normalize"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/trend"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Service implements the API dependencies for the standings system.
type Service struct {
	mu sync.RWMutex

	// writeMu serializes read-modify-write cycles on a season.
	writeMu sync.Mutex

	store     repository.Store
	storeName string

	classifiedOnly bool
	chart          export.ChartOptions

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeName: "memory",
		chart:     export.DefaultChartOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the service for use.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.storeName = "memory"
	}

	s.started = true
	s.logger.Info(ctx, "standings service started",
		logger.String("store", s.storeName),
		logger.Bool("classifiedOnly", s.classifiedOnly),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "standings service stopped")
}

func (s *Service) storeOrErr() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// ImportSeason decodes a season document from r and stores it under seasonID,
// replacing any previous season with that id.
func (s *Service) ImportSeason(ctx context.Context, seasonID string, r io.Reader) (types.ImportResult, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return types.ImportResult{}, err
	}
	season, rep, err := seasonfile.Decode(r)
	if err != nil {
		return types.ImportResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	recordRepairs(rep)

	s.writeMu.Lock()
	err = store.Save(ctx, seasonID, season)
	s.writeMu.Unlock()
	if err != nil {
		return types.ImportResult{}, err
	}
	if rep.Repaired() {
		s.logger.Warn(ctx, "season import repaired results",
			logger.String("season", seasonID),
			logger.Int("positions", rep.PositionsRepaired),
			logger.Int("statuses", rep.StatusesRepaired),
			logger.Int("duplicates", rep.DuplicatesDropped),
		)
	}
	s.logger.Info(ctx, "season imported",
		logger.String("season", seasonID),
		logger.Int("events", len(season.Events)),
		logger.Int("results", len(season.Results)),
	)
	return types.ImportResult{
		SeasonID: seasonID,
		Teams:    len(season.Teams),
		Drivers:  len(season.Drivers),
		Events:   len(season.Events),
		Results:  len(season.Results),
		Report:   rep,
	}, nil
}

// ExportSeason returns the stored season.
func (s *Service) ExportSeason(ctx context.Context, seasonID string) (model.Season, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return model.Season{}, err
	}
	return store.Load(ctx, seasonID)
}

// DeleteSeason removes a season.
func (s *Service) DeleteSeason(ctx context.Context, seasonID string) error {
	store, err := s.storeOrErr()
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	err = store.Delete(ctx, seasonID)
	s.writeMu.Unlock()
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "season deleted", logger.String("season", seasonID))
	return nil
}

// ListSeasons returns stored season ids in ascending order.
func (s *Service) ListSeasons(ctx context.Context) (types.SeasonList, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return types.SeasonList{}, err
	}
	ids, err := store.List(ctx)
	if err != nil {
		return types.SeasonList{}, err
	}
	return types.SeasonList{Seasons: ids}, nil
}

// ReplaceEventResults normalizes raw and swaps it in as the complete result
// grid of eventID. Every record is stamped with eventID first, so records
// naming another event are taken as belonging to this one.
func (s *Service) ReplaceEventResults(ctx context.Context, seasonID, eventID string, raw []model.RawResult) (types.ReplaceResult, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return types.ReplaceResult{}, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	season, err := store.Load(ctx, seasonID)
	if err != nil {
		return types.ReplaceResult{}, err
	}
	if _, ok := season.Event(eventID); !ok {
		return types.ReplaceResult{}, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}

	stamped := make([]model.RawResult, len(raw))
	for i, r := range raw {
		r.EventID = eventID
		stamped[i] = r
	}
	entries, rep := normalize.NormalizeWithReport(stamped)
	for _, e := range entries {
		if strings.TrimSpace(e.DriverID) == "" {
			return types.ReplaceResult{}, fmt.Errorf("%w: result without driverId", ErrInvalidInput)
		}
	}
	recordRepairs(rep)

	if _, err := store.ReplaceEventResults(ctx, seasonID, eventID, entries); err != nil {
		return types.ReplaceResult{}, err
	}
	metrics.RecordResultsReplaced()
	s.logger.Info(ctx, "event results replaced",
		logger.String("season", seasonID),
		logger.String("event", eventID),
		logger.Int("accepted", len(entries)),
		logger.Int("duplicates", rep.DuplicatesDropped),
	)
	return types.ReplaceResult{
		SeasonID: seasonID,
		EventID:  eventID,
		Accepted: len(entries),
		Report:   rep,
	}, nil
}

// UpsertTeam creates or replaces a team. An empty id is minted.
func (s *Service) UpsertTeam(ctx context.Context, seasonID string, team model.Team) (model.Team, error) {
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	err := s.mutate(ctx, seasonID, func(season *model.Season) error {
		season.Teams = upsert(season.Teams, team, func(t model.Team) string { return t.ID })
		return nil
	})
	return team, err
}

// UpsertDriver creates or replaces a driver. An empty id is minted. The team
// reference is not checked; drivers may point at teams that no longer exist.
func (s *Service) UpsertDriver(ctx context.Context, seasonID string, driver model.Driver) (model.Driver, error) {
	if strings.TrimSpace(driver.Name) == "" {
		return model.Driver{}, fmt.Errorf("%w: driver name is required", ErrInvalidInput)
	}
	if driver.ID == "" {
		driver.ID = uuid.NewString()
	}
	err := s.mutate(ctx, seasonID, func(season *model.Season) error {
		season.Drivers = upsert(season.Drivers, driver, func(d model.Driver) string { return d.ID })
		return nil
	})
	return driver, err
}

// UpsertEvent creates or replaces an event. An empty id is minted.
func (s *Service) UpsertEvent(ctx context.Context, seasonID string, event model.Event) (model.Event, error) {
	if strings.TrimSpace(event.Name) == "" {
		return model.Event{}, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Kind = model.ParseEventKind(string(event.Kind))
	err := s.mutate(ctx, seasonID, func(season *model.Season) error {
		season.Events = upsert(season.Events, event, func(e model.Event) string { return e.ID })
		return nil
	})
	return event, err
}

// DeleteTeam removes a team. Drivers keep their team reference and stop
// contributing to any constructor total.
func (s *Service) DeleteTeam(ctx context.Context, seasonID, teamID string) error {
	return s.mutate(ctx, seasonID, func(season *model.Season) error {
		var ok bool
		season.Teams, ok = remove(season.Teams, teamID, func(t model.Team) string { return t.ID })
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
		}
		return nil
	})
}

// DeleteDriver removes a driver. Their results stay stored but no longer count.
func (s *Service) DeleteDriver(ctx context.Context, seasonID, driverID string) error {
	return s.mutate(ctx, seasonID, func(season *model.Season) error {
		var ok bool
		season.Drivers, ok = remove(season.Drivers, driverID, func(d model.Driver) string { return d.ID })
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDriver, driverID)
		}
		return nil
	})
}

// DeleteEvent removes an event. Its results stay stored but no longer count.
func (s *Service) DeleteEvent(ctx context.Context, seasonID, eventID string) error {
	return s.mutate(ctx, seasonID, func(season *model.Season) error {
		var ok bool
		season.Events, ok = remove(season.Events, eventID, func(e model.Event) string { return e.ID })
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
		}
		return nil
	})
}

// Standings recomputes both championships.
func (s *Service) Standings(ctx context.Context, seasonID string) (standings.Table, error) {
	season, err := s.load(ctx, seasonID)
	if err != nil {
		return standings.Table{}, err
	}
	return s.computeTable("standings", season), nil
}

// DriverStats returns one driver's championship line and summary.
func (s *Service) DriverStats(ctx context.Context, seasonID, driverID string) (types.DriverStats, error) {
	season, err := s.load(ctx, seasonID)
	if err != nil {
		return types.DriverStats{}, err
	}
	table := s.computeTable("driver_stats", season)
	row, ok := table.Driver(driverID)
	if !ok {
		return types.DriverStats{}, fmt.Errorf("%w: %s", ErrUnknownDriver, driverID)
	}
	summaries := trend.Summarize(season.Drivers, season.Events, season.ResultsByEvent(), trend.WithClassifiedOnly(s.classifiedOnly))
	return types.DriverStats{DriverRow: row, Summary: summaries[driverID]}, nil
}

// Trend returns the per-round progression and every driver's summary.
func (s *Service) Trend(ctx context.Context, seasonID string) (types.Progression, error) {
	season, err := s.load(ctx, seasonID)
	if err != nil {
		return types.Progression{}, err
	}
	start := time.Now()
	byEvent := season.ResultsByEvent()
	p := types.Progression{
		Trend:     trend.Build(season.Drivers, season.Events, byEvent),
		Summaries: trend.Summarize(season.Drivers, season.Events, byEvent, trend.WithClassifiedOnly(s.classifiedOnly)),
	}
	metrics.RecordRecompute("trend", msSince(start))
	return p, nil
}

// StandingsWorkbook renders standings and progression as an xlsx workbook.
func (s *Service) StandingsWorkbook(ctx context.Context, seasonID string) ([]byte, error) {
	season, err := s.load(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	table := s.computeTable("workbook", season)
	tr := trend.Build(season.Drivers, season.Events, season.ResultsByEvent())
	return export.Workbook(table, tr)
}

// TrendChart renders the progression as a PNG, leaders first.
func (s *Service) TrendChart(ctx context.Context, seasonID string) ([]byte, error) {
	season, err := s.load(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	table := s.computeTable("chart", season)
	tr := trend.Build(season.Drivers, season.Events, season.ResultsByEvent())

	ordered := make([]model.Driver, 0, len(table.Drivers))
	for _, row := range table.Drivers {
		ordered = append(ordered, model.Driver{ID: row.DriverID, Name: row.Name, Country: row.Country, TeamID: row.TeamID})
	}
	return export.TrendChart(tr, ordered, season.Teams, s.chart)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	stats := map[string]any{
		"started":        s.started,
		"store":          s.storeName,
		"classifiedOnly": s.classifiedOnly,
	}
	started, store := s.started, s.store
	s.mu.RUnlock()

	if started {
		if ids, err := store.List(ctx); err == nil {
			stats["seasons"] = len(ids)
			metrics.UpdateSeasonsTotal(len(ids))
		}
	}
	return stats
}

func (s *Service) load(ctx context.Context, seasonID string) (model.Season, error) {
	store, err := s.storeOrErr()
	if err != nil {
		return model.Season{}, err
	}
	return store.Load(ctx, seasonID)
}

func (s *Service) computeTable(op string, season model.Season) standings.Table {
	start := time.Now()
	table := standings.Compute(season, standings.WithClassifiedOnly(s.classifiedOnly))
	metrics.RecordRecompute(op, msSince(start))
	return table
}

// mutate applies fn to a fresh copy of the season and saves the result.
func (s *Service) mutate(ctx context.Context, seasonID string, fn func(*model.Season) error) error {
	store, err := s.storeOrErr()
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	season, err := store.Load(ctx, seasonID)
	if err != nil {
		return err
	}
	if err := fn(&season); err != nil {
		return err
	}
	return store.Save(ctx, seasonID, season)
}

func upsert[T any](items []T, item T, key func(T) string) []T {
	id := key(item)
	// Rosters resolve duplicate ids last-wins, so the last copy is the live one.
	for i := len(items) - 1; i >= 0; i-- {
		if key(items[i]) == id {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove[T any](items []T, id string, key func(T) string) ([]T, bool) {
	n := len(items)
	items = slices.DeleteFunc(items, func(x T) bool { return key(x) == id })
	return items, len(items) != n
}

func recordRepairs(rep normalize.Report) {
	metrics.RecordResultsRepaired("position", rep.PositionsRepaired)
	metrics.RecordResultsRepaired("status", rep.StatusesRepaired)
	metrics.RecordResultsRepaired("duplicate", rep.DuplicatesDropped)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
