package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/podium/internal/adapters/http/api"
	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const seasonDoc = `{
  "teams": [
    {"id": "t1", "name": "Falcon", "color": "#ff0000"},
    {"id": "t2", "name": "Arrow", "color": "#0000ff"}
  ],
  "drivers": [
    {"id": "d1", "name": "Alonso", "teamId": "t1"},
    {"id": "d2", "name": "Button", "teamId": "t1"},
    {"id": "d3", "name": "Coulthard", "teamId": "t2"},
    {"id": "d4", "name": "Doohan"}
  ],
  "events": [
    {"id": "gp1", "name": "Bahrain", "round": 1, "kind": "GrandPrix"},
    {"id": "sp2", "name": "China Sprint", "round": 2, "kind": "Sprint"},
    {"id": "gp2", "name": "China", "round": 2, "kind": "GrandPrix"}
  ],
  "results": [
    {"eventId": "gp1", "driverId": "d1", "position": 1, "status": "Finished", "fastestLap": true},
    {"eventId": "gp1", "driverId": "d3", "position": 2, "status": "Finished"},
    {"eventId": "gp1", "driverId": "d4", "position": 3, "status": "Finished"},
    {"eventId": "gp1", "driverId": "d2", "position": 4, "status": "DNF"},
    {"eventId": "sp2", "driverId": "d3", "position": 1, "status": "Finished", "fastestLap": true},
    {"eventId": "sp2", "driverId": "d1", "position": 2, "status": "Finished"},
    {"eventId": "sp2", "driverId": "d4", "position": 3, "status": "Finished"},
    {"eventId": "gp2", "driverId": "d4", "position": 1, "status": "Finished"},
    {"eventId": "gp2", "driverId": "d2", "position": 2, "status": "Finished", "fastestLap": true},
    {"eventId": "gp2", "driverId": "d1", "position": 3, "status": "DNS"}
  ]
}`

// failingStandings reports a store failure on every standings read.
type failingStandings struct {
	*service.Service
}

func (failingStandings) Standings(context.Context, string) (standings.Table, error) {
	return standings.Table{}, errors.New("disk on fire")
}

func newService() *service.Service {
	svc := service.New(service.WithLogger(logger.Nop()))
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(rec *httptest.ResponseRecorder) types.ErrorResponse {
	var e types.ErrorResponse
	So(json.Unmarshal(rec.Body.Bytes(), &e), ShouldBeNil)
	return e
}

func TestSeasonRoutes(t *testing.T) {
	Convey("Given the API over an empty service", t, func() {
		svc := newService()
		defer svc.Stop()
		h := api.NewServer(svc, svc).Routes()

		Convey("When checking health", func() {
			rec := do(h, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("When reading an unknown season", func() {
			rec := do(h, http.MethodGet, "/seasons/nope/standings/teams", "")

			Convey("Then a JSON 404 is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(rec).Code, ShouldEqual, "not_found")
			})
		})

		Convey("When hitting an unknown route", func() {
			rec := do(h, http.MethodGet, "/nowhere", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(rec).Code, ShouldEqual, "not_found")
		})

		Convey("When importing a malformed document", func() {
			rec := do(h, http.MethodPut, "/seasons/2024", `{"teams": [`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(rec).Code, ShouldEqual, "bad_request")
		})

		Convey("When a season is imported", func() {
			rec := do(h, http.MethodPut, "/seasons/2024", seasonDoc)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var res types.ImportResult
			So(json.Unmarshal(rec.Body.Bytes(), &res), ShouldBeNil)

			Convey("Then the import is summarized", func() {
				So(res.SeasonID, ShouldEqual, "2024")
				So(res.Results, ShouldEqual, 10)
				So(res.Report.Repaired(), ShouldBeFalse)
			})

			Convey("Then it is listed", func() {
				rec := do(h, http.MethodGet, "/seasons", "")
				So(rec.Body.String(), ShouldContainSubstring, `"seasons":["2024"]`)
			})

			Convey("Then it can be exported and deleted", func() {
				rec := do(h, http.MethodGet, "/seasons/2024", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"driverId": "d4"`)

				rec = do(h, http.MethodDelete, "/seasons/2024", "")
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				rec = do(h, http.MethodGet, "/seasons/2024", "")
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("Then stats report the season", func() {
				rec := do(h, http.MethodGet, "/stats", "")
				So(rec.Body.String(), ShouldContainSubstring, `"seasons":1`)
			})
		})
	})
}

func TestStandingsRoutes(t *testing.T) {
	Convey("Given an imported season", t, func() {
		svc := newService()
		defer svc.Stop()
		h := api.NewServer(svc, svc).Routes()
		So(do(h, http.MethodPut, "/seasons/2024", seasonDoc).Code, ShouldEqual, http.StatusOK)

		Convey("When reading the drivers' standings with a limit", func() {
			rec := do(h, http.MethodGet, "/seasons/2024/standings/drivers?limit=2", "")
			var rows []standings.DriverRow
			So(json.Unmarshal(rec.Body.Bytes(), &rows), ShouldBeNil)

			Convey("Then the leaders are returned", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].DriverID, ShouldEqual, "d4")
				So(rows[0].Points, ShouldEqual, 46)
				So(rows[1].DriverID, ShouldEqual, "d1")
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-1", "abc"} {
				rec := do(h, http.MethodGet, "/seasons/2024/standings/drivers?limit="+q, "")
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When reading the constructors' standings", func() {
			rec := do(h, http.MethodGet, "/seasons/2024/standings/teams", "")
			var rows []standings.TeamRow
			So(json.Unmarshal(rec.Body.Bytes(), &rows), ShouldBeNil)
			So(rows[0].TeamID, ShouldEqual, "t1")
			So(rows[0].Points, ShouldEqual, 52)
			So(rows[1].Points, ShouldEqual, 26)
		})

		Convey("When reading driver stats", func() {
			rec := do(h, http.MethodGet, "/seasons/2024/drivers/d1/stats", "")
			var ds types.DriverStats
			So(json.Unmarshal(rec.Body.Bytes(), &ds), ShouldBeNil)
			So(ds.Points, ShouldEqual, 33)
			So(ds.Summary.DNSs, ShouldEqual, 1)

			rec = do(h, http.MethodGet, "/seasons/2024/drivers/zz/stats", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When reading the trend", func() {
			rec := do(h, http.MethodGet, "/seasons/2024/trend", "")
			var p types.Progression
			So(json.Unmarshal(rec.Body.Bytes(), &p), ShouldBeNil)
			So(p.Final("d4"), ShouldEqual, 46)
			So(p.Events, ShouldHaveLength, 3)
		})

		Convey("When downloading exports", func() {
			rec := do(h, http.MethodGet, "/seasons/2024/export.xlsx", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/vnd.openxmlformats")
			So(rec.Body.String(), ShouldStartWith, "PK")

			rec = do(h, http.MethodGet, "/seasons/2024/trend.png", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "image/png")
			So(bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
		})

		Convey("When scraping metrics", func() {
			rec := do(h, http.MethodGet, "/metrics", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "podium_standings_http_requests_total")
		})

		Convey("When fetching the API document", func() {
			rec := do(h, http.MethodGet, "/openapi.yaml", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "/seasons/{season}/standings/drivers")
		})
	})
}

func TestWriteRoutes(t *testing.T) {
	Convey("Given an imported season", t, func() {
		svc := newService()
		defer svc.Stop()
		h := api.NewServer(svc, svc).Routes()
		So(do(h, http.MethodPut, "/seasons/2024", seasonDoc).Code, ShouldEqual, http.StatusOK)

		Convey("When an event grid is replaced", func() {
			rec := do(h, http.MethodPut, "/seasons/2024/events/gp2/results",
				`[{"driverId":"d2","position":"1st","status":"finished","fastestLap":"true"},{"driverId":"d4","position":2}]`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var res types.ReplaceResult
			So(json.Unmarshal(rec.Body.Bytes(), &res), ShouldBeNil)

			Convey("Then the report counts the repairs", func() {
				So(res.Accepted, ShouldEqual, 2)
				So(res.Report.PositionsRepaired, ShouldEqual, 1)
			})

			Convey("Then standings reflect the new grid", func() {
				ds, err := svc.DriverStats(context.Background(), "2024", "d2")
				So(err, ShouldBeNil)
				So(ds.Points, ShouldEqual, 26)
			})
		})

		Convey("When results target an unknown event", func() {
			rec := do(h, http.MethodPut, "/seasons/2024/events/gp9/results", `[]`)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When results are not an array", func() {
			rec := do(h, http.MethodPut, "/seasons/2024/events/gp1/results", `{"driverId":"d1"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a team is created without an id", func() {
			rec := do(h, http.MethodPut, "/seasons/2024/teams", `{"name":"Comet"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"name":"Comet"`)
			So(rec.Body.String(), ShouldNotContainSubstring, `"id":""`)
		})

		Convey("When a team body is malformed", func() {
			rec := do(h, http.MethodPut, "/seasons/2024/teams", `{"name":`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an event is upserted with a loose kind", func() {
			rec := do(h, http.MethodPut, "/seasons/2024/events", `{"id":"sp3","name":"Miami Sprint","round":3,"kind":"sprint"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"kind":"Sprint"`)
		})

		Convey("When a driver is upserted and another deleted", func() {
			rec := do(h, http.MethodPut, "/seasons/2024/drivers", `{"id":"d5","name":"Earl","teamId":"t2"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			rec = do(h, http.MethodDelete, "/seasons/2024/drivers/d4", "")
			So(rec.Code, ShouldEqual, http.StatusNoContent)

			rec = do(h, http.MethodGet, "/seasons/2024/drivers/d4/stats", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When unknown roster entries are deleted", func() {
			So(do(h, http.MethodDelete, "/seasons/2024/teams/tx", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodDelete, "/seasons/2024/events/ex", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServerLimitsAndFailures(t *testing.T) {
	Convey("Given a server with a small body limit", t, func() {
		svc := newService()
		defer svc.Stop()
		h := api.NewServer(svc, svc, api.WithMaxRequestBytes(64)).Routes()

		Convey("When a large season is imported", func() {
			rec := do(h, http.MethodPut, "/seasons/2024", seasonDoc)

			Convey("Then 413 is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decodeError(rec).Code, ShouldEqual, "too_large")
			})
		})
	})

	Convey("Given dependencies that fail internally", t, func() {
		svc := newService()
		defer svc.Stop()
		deps := failingStandings{Service: svc}
		h := api.NewServer(deps, svc).Routes()

		Convey("When standings are requested", func() {
			rec := do(h, http.MethodGet, "/seasons/2024/standings/teams", "")

			Convey("Then a 500 without internal detail is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				e := decodeError(rec)
				So(e.Code, ShouldEqual, "internal_error")
				So(e.Message, ShouldNotContainSubstring, "disk on fire")
			})
		})
	})
}
