package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/podium/internal/adapters/seasonfile"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

// PushConfig holds the settings of a push run.
type PushConfig struct {
	BaseURL        string        // Base URL of the server
	SeasonID       string        // Season to overwrite
	Timeout        time.Duration // HTTP request timeout
	ClassifiedOnly bool          // Must match the server's classified_podiums_only
}

// PushReport summarizes a push run.
type PushReport struct {
	Import          types.ImportResult
	DriversCompared int
	TeamsCompared   int
	Duration        time.Duration
}

type httpClient struct {
	client *http.Client
	base   string
}

func newHTTPClient(base string, timeout time.Duration) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
		base:   strings.TrimRight(base, "/"),
	}
}

func (c *httpClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e types.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return fmt.Errorf("%w: %s %s: %d %s", ErrRemote, method, path, resp.StatusCode, e.Message)
		}
		return fmt.Errorf("%w: %s %s: %d", ErrRemote, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Push uploads season to the server and checks that the standings the
// server computes match the local computation.
func Push(ctx context.Context, cfg PushConfig, season model.Season) (PushReport, error) {
	start := time.Now()
	log := logger.Named("push")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	seasonPath := "/seasons/" + url.PathEscape(cfg.SeasonID)

	log.Info(ctx, "checking server health", logger.String("url", cfg.BaseURL))
	if err := client.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return PushReport{}, fmt.Errorf("server health check failed: %w", err)
	}

	var buf bytes.Buffer
	if err := seasonfile.Encode(&buf, season); err != nil {
		return PushReport{}, err
	}
	var report PushReport
	if err := client.do(ctx, http.MethodPut, seasonPath, &buf, &report.Import); err != nil {
		return PushReport{}, fmt.Errorf("season upload failed: %w", err)
	}
	log.Info(ctx, "season uploaded",
		logger.String("season", cfg.SeasonID),
		logger.Int("drivers", report.Import.Drivers),
		logger.Int("events", report.Import.Events),
		logger.Int("results", report.Import.Results))

	local := standings.Compute(season, standings.WithClassifiedOnly(cfg.ClassifiedOnly))

	var drivers []standings.DriverRow
	if err := client.do(ctx, http.MethodGet, seasonPath+"/standings/drivers", nil, &drivers); err != nil {
		return PushReport{}, fmt.Errorf("driver standings retrieval failed: %w", err)
	}
	if err := verifyDrivers(local.Drivers, drivers); err != nil {
		return PushReport{}, err
	}
	report.DriversCompared = len(drivers)

	var teams []standings.TeamRow
	if err := client.do(ctx, http.MethodGet, seasonPath+"/standings/teams", nil, &teams); err != nil {
		return PushReport{}, fmt.Errorf("team standings retrieval failed: %w", err)
	}
	if err := verifyTeams(local.Teams, teams); err != nil {
		return PushReport{}, err
	}
	report.TeamsCompared = len(teams)

	report.Duration = time.Since(start)
	log.Info(ctx, "remote standings verified",
		logger.Int("drivers", report.DriversCompared),
		logger.Int("teams", report.TeamsCompared),
		logger.Duration("duration", report.Duration))
	return report, nil
}

func verifyDrivers(local, remote []standings.DriverRow) error {
	if len(local) != len(remote) {
		return fmt.Errorf("%w: %d drivers locally, %d remotely", ErrMismatch, len(local), len(remote))
	}
	for i := range local {
		l, r := local[i], remote[i]
		if l.DriverID != r.DriverID || l.Points != r.Points || l.Position != r.Position {
			return fmt.Errorf("%w: P%d is %s with %d points locally, %s with %d points remotely",
				ErrMismatch, l.Position, l.DriverID, l.Points, r.DriverID, r.Points)
		}
	}
	return nil
}

func verifyTeams(local, remote []standings.TeamRow) error {
	if len(local) != len(remote) {
		return fmt.Errorf("%w: %d teams locally, %d remotely", ErrMismatch, len(local), len(remote))
	}
	for i := range local {
		l, r := local[i], remote[i]
		if l.TeamID != r.TeamID || l.Points != r.Points {
			return fmt.Errorf("%w: P%d is %s with %d points locally, %s with %d points remotely",
				ErrMismatch, l.Position, l.TeamID, l.Points, r.TeamID, r.Points)
		}
	}
	return nil
}
